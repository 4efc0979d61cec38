// Package logger provides the leveled key/value logger used across cgstats.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is implemented by *slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options selects the level and output format.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// New builds a logger writing to stderr.
func New(opts Options) Logger {
	return NewWithWriter(os.Stderr, opts)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(w io.Writer, opts Options) Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(h)
}

// Nop discards everything.
func Nop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps a level name to a slog level, defaulting to info.
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
