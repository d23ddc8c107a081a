// Package observability provides structured logging for pipeline stages.
//
// Logger wraps log/slog with a persistent stage field so every line carries
// which stage emitted it.
package observability

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog with persistent stage context.
type Logger struct {
	inner *slog.Logger
	stage string
}

// NewLogger creates a structured logger for a given stage.
// Output defaults to os.Stderr if w is nil.
func NewLogger(stage string, w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return &Logger{inner: slog.New(handler), stage: stage}
}

// WithStage returns a logger reporting under a different stage name.
func (l *Logger) WithStage(stage string) *Logger {
	return &Logger{inner: l.inner, stage: stage}
}

func (l *Logger) attrs(args []any) []any {
	return append([]any{slog.String("stage", l.stage)}, args...)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(msg string, args ...any) {
	l.inner.Debug(msg, l.attrs(args)...)
}

// Info logs at INFO level.
func (l *Logger) Info(msg string, args ...any) {
	l.inner.Info(msg, l.attrs(args)...)
}

// Warn logs at WARN level.
func (l *Logger) Warn(msg string, args ...any) {
	l.inner.Warn(msg, l.attrs(args)...)
}

// Error logs at ERROR level.
func (l *Logger) Error(msg string, args ...any) {
	l.inner.Error(msg, l.attrs(args)...)
}
