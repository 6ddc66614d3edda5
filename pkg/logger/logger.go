package logger

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

func InitLogger() *zerolog.Logger {
	return NewLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}, "debug")
}

// NewLogger builds the process logger on top of w and installs it as the context default.
func NewLogger(w io.Writer, level string) *zerolog.Logger {
	logger := zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()
	SetLevel(level)
	zerolog.DefaultContextLogger = &logger
	return &logger
}

// SetLevel changes the global level; unknown values fall back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func Logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
