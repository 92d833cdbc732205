// Package logging builds the slog loggers shared by the engine and the CLI.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New creates the application logger on stderr. Stdout is kept clean for the
// run progress lines and for MCP JSON-RPC framing, both of which break when
// log records are interleaved. The "error" attribute key is rewritten to
// "err" so records stay uniform across packages.
func New(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// ParseLevel maps a level name from the --log-level flag to a slog level.
// Unknown names fall back to Info rather than erroring, so a typo degrades
// to the default verbosity instead of killing the command.
func ParseLevel(name string) slog.Level {
	switch name {
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

// NewNop returns a logger that discards everything. The engine falls back to
// it when no logger is configured.
func NewNop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
