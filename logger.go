package batchgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with batchgo-specific context.
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

// WithBackend adds a backend field to the logger.
func (l *Logger) WithBackend(t BatcherType) *Logger {
	return &Logger{
		Logger: l.Logger.With("backend", t.String()),
	}
}

// WithArity adds an arity field to the logger.
func (l *Logger) WithArity(arity int) *Logger {
	return &Logger{
		Logger: l.Logger.With("arity", arity),
	}
}

// WithBatchSize adds a batch size field to the logger.
func (l *Logger) WithBatchSize(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("batch_size", n),
	}
}

// LogConstruct logs the outcome of a dispatcher construction.
func (l *Logger) LogConstruct(t BatcherType, arity, maxBatchSize int, err error) {
	if err != nil {
		l.Error("batcher construction failed",
			"backend", t.String(),
			"arity", arity,
			"max_batch_size", maxBatchSize,
			"error", err,
		)
	} else {
		l.Debug("batcher constructed",
			"backend", t.String(),
			"arity", arity,
			"max_batch_size", maxBatchSize,
		)
	}
}

// LogHash logs the outcome of a batch hash call.
func (l *Logger) LogHash(t BatcherType, count int, err error) {
	if err != nil {
		l.Error("batch hash failed",
			"backend", t.String(),
			"count", count,
			"error", err,
		)
	} else {
		l.Debug("batch hashed",
			"backend", t.String(),
			"count", count,
		)
	}
}
