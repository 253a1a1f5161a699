package logger

import (
	"context"
	"log/slog"
)

type ctxKey string

const (
	loggerKey ctxKey = "logger"
	traceKey  ctxKey = "trace_id"
)

// With returns a new context that includes a logger with fields.
func With(ctx context.Context, fields ...any) context.Context {
	l := From(ctx).With(fields...)
	return context.WithValue(ctx, loggerKey, l)
}

// WithTrace records traceID on ctx and tags the context logger with it.
func WithTrace(ctx context.Context, traceID string, fields ...any) context.Context {
	ctx = context.WithValue(ctx, traceKey, traceID)
	return With(ctx, append([]any{"trace_id", traceID}, fields...)...)
}

// TraceID returns the id stored by WithTrace, or "".
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceKey).(string)
	return id
}

// From returns the logger stored in context, or default if missing.
func From(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return LoggerWrapper()
	}
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return LoggerWrapper()
}
