// Package logger provides the leveled logging interface used by the
// sheets-client library and CLI, backed by log/slog.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Logger is a leveled logger. The plain methods take slog-style key/value
// pairs; the f variants take a printf format.
type Logger interface {
	Debug(msg string, args ...any)
	Debugf(format string, args ...any)

	Info(msg string, args ...any)
	Infof(format string, args ...any)

	Warn(msg string, args ...any)
	Warnf(format string, args ...any)

	Error(msg string, args ...any)
	Errorf(format string, args ...any)
}

// NoopLogger discards everything.
type NoopLogger struct{}

func (NoopLogger) Debug(string, ...any)  {}
func (NoopLogger) Debugf(string, ...any) {}
func (NoopLogger) Info(string, ...any)   {}
func (NoopLogger) Infof(string, ...any)  {}
func (NoopLogger) Warn(string, ...any)   {}
func (NoopLogger) Warnf(string, ...any)  {}
func (NoopLogger) Error(string, ...any)  {}
func (NoopLogger) Errorf(string, ...any) {}

// SlogLogger adapts *slog.Logger to Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// New returns a SlogLogger writing text records at or above level to w.
func New(w io.Writer, level slog.Level) *SlogLogger {
	return &SlogLogger{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NewSlogLogger returns a SlogLogger writing to stderr, keeping stdout free
// for command output such as TSV.
func NewSlogLogger(level slog.Level) *SlogLogger {
	return New(os.Stderr, level)
}

// NewDefaultLogger logs at debug level when debug is set and at info level
// otherwise.
func NewDefaultLogger(debug bool) Logger {
	if debug {
		return NewSlogLogger(slog.LevelDebug)
	}
	return NewSlogLogger(slog.LevelInfo)
}

// With returns a logger that adds args to every record.
func (l *SlogLogger) With(args ...any) *SlogLogger {
	return &SlogLogger{logger: l.logger.With(args...)}
}

func (l *SlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *SlogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *SlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *SlogLogger) Debugf(format string, args ...any) { l.logger.Debug(sprintf(format, args...)) }
func (l *SlogLogger) Infof(format string, args ...any)  { l.logger.Info(sprintf(format, args...)) }
func (l *SlogLogger) Warnf(format string, args ...any)  { l.logger.Warn(sprintf(format, args...)) }
func (l *SlogLogger) Errorf(format string, args ...any) { l.logger.Error(sprintf(format, args...)) }

// sprintf leaves format untouched when there are no args, so a literal "%"
// in a message is not mangled.
func sprintf(format string, args ...any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
