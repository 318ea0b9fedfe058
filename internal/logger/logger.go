// Package logger provides structured logging for the service, backed by
// log/slog with typed field helpers so call sites stay terse.
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// LogLevel names a minimum severity for a logger instance.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

func (l LogLevel) slogLevel() slog.Level {
	switch strings.ToLower(string(l)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Field is a single structured logging attribute.
type Field = slog.Attr

// String returns a string field.
func String(key, value string) Field { return slog.String(key, value) }

// Int returns an int field.
func Int(key string, value int) Field { return slog.Int(key, value) }

// Int64 returns an int64 field.
func Int64(key string, value int64) Field { return slog.Int64(key, value) }

// Uint64 returns a uint64 field.
func Uint64(key string, value uint64) Field { return slog.Uint64(key, value) }

// Bool returns a bool field.
func Bool(key string, value bool) Field { return slog.Bool(key, value) }

// Any returns a field holding an arbitrary value.
func Any(key string, value any) Field { return slog.Any(key, value) }

// Error returns a field holding an error message under the "error" key.
// A nil error logs as an empty string rather than panicking.
func Error(err error) Field {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// Logger is the logging interface used throughout the service.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type slogLogger struct {
	internal *slog.Logger
}

// NewSlogLogger creates a Logger writing text-formatted records to w at the
// given minimum level. Extra attrs, if any, are attached to every record.
func NewSlogLogger(w io.Writer, level LogLevel, attrs []Field) Logger {
	var handler slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: level.slogLevel()})
	if len(attrs) > 0 {
		handler = handler.WithAttrs(attrs)
	}
	return &slogLogger{internal: slog.New(handler)}
}

func (l *slogLogger) Debug(msg string, fields ...Field) {
	l.internal.LogAttrs(context.Background(), slog.LevelDebug, msg, fields...)
}

func (l *slogLogger) Info(msg string, fields ...Field) {
	l.internal.LogAttrs(context.Background(), slog.LevelInfo, msg, fields...)
}

func (l *slogLogger) Warn(msg string, fields ...Field) {
	l.internal.LogAttrs(context.Background(), slog.LevelWarn, msg, fields...)
}

func (l *slogLogger) Error(msg string, fields ...Field) {
	l.internal.LogAttrs(context.Background(), slog.LevelError, msg, fields...)
}

func (l *slogLogger) With(fields ...Field) Logger {
	args := make([]any, 0, len(fields))
	for _, f := range fields {
		args = append(args, f)
	}
	return &slogLogger{internal: l.internal.With(args...)}
}
