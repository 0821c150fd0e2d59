package hyperlsh

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with hyperlsh-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithTables adds a table-count field to the logger.
func (l *Logger) WithTables(tables int) *Logger {
	return &Logger{
		Logger: l.Logger.With("tables", tables),
	}
}

// WithPlanes adds a hyperplane-count field to the logger.
func (l *Logger) WithPlanes(planes int) *Logger {
	return &Logger{
		Logger: l.Logger.With("planes", planes),
	}
}

// LogAdd logs an insert operation.
func (l *Logger) LogAdd(ctx context.Context, dimension int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "add failed",
			"dimension", dimension,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "add completed",
			"dimension", dimension,
		)
	}
}

// LogNearest logs a nearest-neighbor query.
func (l *Logger) LogNearest(ctx context.Context, count, candidates, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "nearest failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "nearest completed",
			"count", count,
			"candidates", candidates,
			"results", results,
		)
	}
}

// LogAutotune logs the outcome of a plane-count search.
func (l *Logger) LogAutotune(ctx context.Context, planes int, occupancy float64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "autotune failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "autotune completed",
			"planes", planes,
			"occupancy", occupancy,
			"elapsed", elapsed,
		)
	}
}
