package flagcol

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with flagcol-specific context.
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

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithVersion adds a reference version field to the logger.
func (l *Logger) WithVersion(version string) *Logger {
	return &Logger{
		Logger: l.Logger.With("reference_version", version),
	}
}

// WithRows adds a row count field to the logger.
func (l *Logger) WithRows(rows int) *Logger {
	return &Logger{
		Logger: l.Logger.With("rows", rows),
	}
}

// LogMerge logs a matrix merge operation.
func (l *Logger) LogMerge(ctx context.Context, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "merge failed",
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "merge completed",
			"rows", rows,
		)
	}
}

// LogPopulate logs a parallel population run.
func (l *Logger) LogPopulate(ctx context.Context, entities, workers int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "populate failed",
			"entities", entities,
			"workers", workers,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "populate completed",
			"entities", entities,
			"workers", workers,
		)
	}
}
