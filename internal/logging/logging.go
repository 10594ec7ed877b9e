// Package logging builds the structured loggers used by the command-line
// tools and adapts generator callbacks to log records.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog.Logger with helpers for threshold map runs.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to stderr at the given level. JSON output is
// used when json is true, text otherwise.
func New(level slog.Level, json bool) *Logger {
	return NewWriter(os.Stderr, level, json)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, level slog.Level, json bool) *Logger {
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if json {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &Logger{Logger: slog.New(handler)}
}

// Discard returns a Logger that drops every record.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel maps "debug", "info", "warn" or "error" to a slog level.
// Unknown names fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

// WithMap tags records with the map dimensions.
func (l *Logger) WithMap(width, height int) *Logger {
	return &Logger{Logger: l.Logger.With("width", width, "height", height)}
}

// LogSaved logs the outcome of writing an artifact.
func (l *Logger) LogSaved(kind, path string, err error) {
	if err != nil {
		l.Error("save failed", "kind", kind, "file", path, "error", err)
		return
	}
	l.Info("saved", "kind", kind, "file", path)
}
