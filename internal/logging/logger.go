// Package logging provides structured logging configuration using log/slog.
//
// Parse invocations carry an invocation id through context so every log
// entry emitted during one parse can be correlated with its metrics record.
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

type ctxKey int

const invocationIDKey ctxKey = 0

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
//
// Use "json" format in production for machine parsing (ELK, CloudWatch, etc.)
// Use "text" format in development for human readability.
func Setup(level, format string) {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithInvocationID stores the parse invocation id in context.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// FromContext returns a logger enriched with the invocation id, when the
// context carries one. All log entries for a single parse then share the
// same invocation_id field as the parse's metrics record.
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if id, ok := ctx.Value(invocationIDKey).(string); ok && id != "" {
		logger = logger.With("invocation_id", id)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// This is useful for creating operation-specific loggers that carry
// consistent context through a multi-step process.
//
// Usage:
//
//	parseLogger := logging.WithFields(ctx,
//	    "dataset", datasetKey,
//	    "release_id", releaseID,
//	)
//	parseLogger.Info("parse started")
//	// ... later ...
//	parseLogger.Info("parse completed", "rows", valid)
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
