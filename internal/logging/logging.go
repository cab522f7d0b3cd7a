// Package logging builds the application's structured logger and carries
// it through context.Context.
package logging

import (
	"context"
	"io"
	"log/slog"
)

// New creates a configured *slog.Logger. levelStr is one of
// debug/info/warn/error (default info); formatStr is "text" or "json"
// (default text).
func New(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}

// key is an unexported type to prevent collisions with context keys from
// other packages.
type key struct{}

var loggerKey = key{}

// WithLogger returns a new context with logger embedded.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext extracts the logger from ctx, falling back to slog.Default()
// if none was attached — unlike a bare-library helper, a scheduler runs
// plenty of code paths (tests, library callers) that never seed the
// context, so panicking here would be too eager.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
