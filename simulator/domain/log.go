package domain

import "time"

type LogLevel string

const (
	LogLevelInfo     LogLevel = "INFO"
	LogLevelWarn     LogLevel = "WARN"
	LogLevelError    LogLevel = "ERROR"
	LogLevelCritical LogLevel = "CRITICAL"
)

func (l LogLevel) Valid() bool {
	switch l {
	case LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelCritical:
		return true
	}
	return false
}

// LogEntry is one synthetic log event. Entries are never modified after creation.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Service   string    `json:"service"`
	Message   string    `json:"message"`
}

type QueryLogsOptions struct {
	Levels []LogLevel
	// Limit keeps only the most recent entries when > 0.
	Limit  int
	Result []LogEntry
}
