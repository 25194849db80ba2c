// =============================================================================
// Order Tally - Logging
// =============================================================================
//
// Logger is the printf-style logging interface every module accepts. The
// default implementation writes structured text records through log/slog:
//
//   time=2024-01-15T10:30:00Z level=INFO msg="Imported 42 rows" component=converter
//
// CUSTOMIZATION:
//   Implement Logger with your preferred logging library and pass it to
//   converter.New / the command layer.
//
// =============================================================================

package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is an interface for logging.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// slogLogger formats printf-style messages and hands them to slog.
type slogLogger struct {
	logger *slog.Logger
}

// New returns a Logger writing text records at or above level to w.
// Unknown levels fall back to info.
func New(level string, w io.Writer) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return &slogLogger{logger: slog.New(handler)}
}

// With returns a Logger that adds a component attribute to every record.
// Loggers not created by New are returned unchanged.
func With(l Logger, component string) Logger {
	if sl, ok := l.(*slogLogger); ok {
		return &slogLogger{logger: sl.logger.With("component", component)}
	}
	return l
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return New("error", io.Discard)
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *slogLogger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, msg, args)
}

func (l *slogLogger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, msg, args)
}

func (l *slogLogger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, msg, args)
}

func (l *slogLogger) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, msg, args)
}

func (l *slogLogger) log(level slog.Level, msg string, args []interface{}) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.Log(ctx, level, msg)
}
