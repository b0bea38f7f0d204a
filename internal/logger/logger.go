package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type ctxKey struct{}

// Logger writes structured records tagged with the service, host and action.
type Logger struct {
	handler *slog.Logger
}

// New builds a logger writing to stdout. format is "json" or "text".
func New(service, level, format string) *Logger {
	return NewWithWriter(os.Stdout, service, level, format)
}

func NewWithWriter(w io.Writer, service, level, format string) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	hostname, _ := os.Hostname()
	return &Logger{handler: slog.New(h).With(
		slog.String("service", service),
		slog.String("hostname", hostname),
	)}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{handler: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (l *Logger) With(args ...any) *Logger {
	return &Logger{handler: l.handler.With(args...)}
}

func (l *Logger) Debug(action, msg string, args ...any) {
	l.handler.Debug(msg, append([]any{slog.String("action", action)}, args...)...)
}

func (l *Logger) Info(action, msg string, args ...any) {
	l.handler.Info(msg, append([]any{slog.String("action", action)}, args...)...)
}

func (l *Logger) Warn(action, msg string, err error, args ...any) {
	l.handler.Warn(msg, l.attrs(action, err, args)...)
}

func (l *Logger) Error(action, msg string, err error, args ...any) {
	l.handler.Error(msg, l.attrs(action, err, args)...)
}

func (l *Logger) attrs(action string, err error, args []any) []any {
	out := []any{slog.String("action", action)}
	if err != nil {
		out = append(out, slog.String("error", err.Error()))
	}
	return append(out, args...)
}

// WithContext stores l on ctx so request-scoped fields travel with it.
func WithContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored on ctx, or fallback.
func FromContext(ctx context.Context, fallback *Logger) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return fallback
}
