package genarena

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with genarena-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithArena adds an arena field to the logger.
func (l *Logger) WithArena(id uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("arena", id),
	}
}

// LogRetire logs a slot whose generation saturated.
func (l *Logger) LogRetire(ctx context.Context, index uint32, generation uint64, retired int) {
	l.WarnContext(ctx, "slot retired",
		"index", index,
		"generation", generation,
		"retired_total", retired,
	)
}

// LogFreeze logs the capture of a frozen view.
func (l *Logger) LogFreeze(ctx context.Context, elements, slots int, d time.Duration) {
	l.DebugContext(ctx, "frozen view captured",
		"elements", elements,
		"slots", slots,
		"duration", d,
	)
}

// LogDivergence logs a copy-on-write divergence.
func (l *Logger) LogDivergence(ctx context.Context, side string, slots int, d time.Duration) {
	l.DebugContext(ctx, "snapshot diverged",
		"side", side,
		"slots", slots,
		"duration", d,
	)
}

// LogShrink logs a storage shrink.
func (l *Logger) LogShrink(ctx context.Context, dropped, remaining int) {
	l.DebugContext(ctx, "storage shrunk",
		"dropped", dropped,
		"remaining", remaining,
	)
}

// LogLeak logs a resource pool destroyed with live elements.
func (l *Logger) LogLeak(ctx context.Context, err *LeakError) {
	l.ErrorContext(ctx, "resource pool leaked",
		"live", err.Live,
		"error", err,
	)
}
