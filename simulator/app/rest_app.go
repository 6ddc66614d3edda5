package app

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/Gthulhu/fleetsim/config"
	"github.com/Gthulhu/fleetsim/pkg/logger"
	"github.com/Gthulhu/fleetsim/simulator/rest"
	"github.com/Gthulhu/fleetsim/simulator/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func NewRestApp(configName string, configDirPath string) (*fx.App, error) {
	handlerModule, err := HandlerModule(configName, configDirPath)
	if err != nil {
		return nil, err
	}

	app := fx.New(
		handlerModule,
		fx.NopLogger,
		fx.Invoke(InitLogging),
		fx.Invoke(StartRestApp),
		fx.Invoke(StartSimulation),
	)
	return app, nil
}

// InitLogging installs the process logger according to the logging section.
func InitLogging(cfg config.LoggingConfig) {
	if cfg.Console {
		logger.NewLogger(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}, cfg.Level)
		return
	}
	logger.NewLogger(os.Stdout, cfg.Level)
}

func StartRestApp(lc fx.Lifecycle, cfg config.ServerConfig, handler *rest.Handler) error {
	engine := echo.New()
	engine.HideBanner = true
	engine.HidePort = true
	handler.SetupRoutes(engine)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			serverHost := cfg.Host
			if serverHost == "" {
				serverHost = ":8080"
			}
			go func() {
				logger.Logger(ctx).Info().Msgf("starting rest server on %s", serverHost)
				if err := engine.Start(serverHost); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Logger(ctx).Fatal().Err(err).Msgf("start rest server fail on %s", serverHost)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Logger(ctx).Info().Msg("shutting down rest server")
			return engine.Shutdown(ctx)
		},
	})

	return nil
}

// StartSimulation runs the tick loop for the lifetime of the app and cancels
// pending migration completions on stop.
func StartSimulation(lc fx.Lifecycle, svc *service.Service) error {
	runCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				if err := svc.Run(runCtx); err != nil {
					logger.Logger(runCtx).Error().Err(err).Msg("simulation loop exited")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-ctx.Done():
				return ctx.Err()
			}
			svc.Stop()
			return nil
		},
	})

	return nil
}
