package logger

import (
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init builds the process logger. Production gets JSON at info level,
// everything else text at debug level unless level overrides it.
func Init(env string, level ...string) {
	var handler slog.Handler

	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	if env == "production" {
		opts.Level = slog.LevelInfo
	}
	if len(level) > 0 && level[0] != "" {
		opts.Level = parseLevel(level[0])
	}

	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}

// L is shorthand for LoggerWrapper.
func L() *slog.Logger {
	return LoggerWrapper()
}
