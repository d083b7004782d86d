package datefilter

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with datefilter-specific helpers.
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

// NewJSONLogger creates a Logger that writes JSON records to w.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that writes human-readable records to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithInput adds the name of the input being filtered.
func (l *Logger) WithInput(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("input", name),
	}
}

// WithYear adds a year field to the logger.
func (l *Logger) WithYear(year int) *Logger {
	return &Logger{
		Logger: l.Logger.With("year", year),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, year int, key uint32, seen bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"year", year,
			"key", key,
			"error", err,
		)
		return
	}
	if !l.Enabled(ctx, slog.LevelDebug) {
		return
	}
	l.DebugContext(ctx, "insert completed",
		"year", year,
		"key", key,
		"seen", seen,
	)
}

// LogTree logs the shape of one populated year tree.
func (l *Logger) LogTree(ctx context.Context, info TreeInfo) {
	l.DebugContext(ctx, "tree",
		"year", info.Year,
		"nodes", info.Nodes,
		"set_bits", info.SetBits,
		"height", info.Height,
		"avg_depth", info.AverageDepth,
	)
}

// LogTeardown logs the totals released by a teardown.
func (l *Logger) LogTeardown(ctx context.Context, stats Stats) {
	l.InfoContext(ctx, "teardown completed",
		"trees", stats.Trees,
		"nodes", stats.Nodes,
		"set_bits", stats.SetBits,
		"memory_bytes", stats.MemoryBytes,
	)
}
