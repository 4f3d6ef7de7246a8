// Package logging builds the slog loggers used across lattice.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New returns the engine's default logger: text output on stderr, so
// stdout stays reserved for rendered documents and command output.
// Error values are normalized under the "err" key no matter which key
// the call site used.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: normalizeKeys,
	}))
}

func normalizeKeys(_ []string, a slog.Attr) slog.Attr {
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// NewNop discards everything. Sessions and managers constructed
// without an explicit logger fall back to it, keeping logging strictly
// opt-in for library consumers.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
