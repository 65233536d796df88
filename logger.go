package primstore

import (
	"io"
	"log/slog"
	"os"
)

// NewTextLogger returns a logger writing human-readable lines to w, or to
// stderr when w is nil.
func NewTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})).With("lib", "primstore")
}

// NewJSONLogger returns a logger writing JSON lines to w, or to stderr when w
// is nil.
func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})).With("lib", "primstore")
}

// NoopLogger returns a logger that discards everything. It is the default of
// every component.
func NoopLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
