package app

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLogLevel maps a config log level onto slog. Unknown values mean
// info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger returns a text logger writing to w. verbose forces debug
// output regardless of level.
func NewLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := ParseLogLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
