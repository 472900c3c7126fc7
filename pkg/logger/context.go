package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const loggerKey ctxKey = "logger"

// With returns a context carrying a logger enriched with fields.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, loggerKey, l)
}

// From returns the logger stored in ctx, falling back to the process logger.
func From(ctx context.Context) *slog.Logger {
	return FromOr(ctx, LoggerWrapper())
}

// FromOr returns the logger stored in ctx, or fallback when there is none.
func FromOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx == nil {
		return fallback
	}
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return fallback
}
