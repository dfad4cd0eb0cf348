// Package logging configures slog for the command line: colored output with
// tint by default, JSON lines when structured output is requested.
//
// Usage:
//
//	logging.Setup("info", false)  // colored, INFO level
//	logging.Setup("", true)       // JSON, level from LOG_LEVEL env
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info), used when no level is given
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Levels lists the accepted level names.
var Levels = []string{"debug", "info", "warn", "error"}

// ParseLevel converts a level name to a slog.Level. It reports false for
// unknown names.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup installs the default logger writing to stderr. An empty level falls
// back to LOG_LEVEL.
func Setup(level string, structured bool) {
	slog.SetDefault(New(os.Stderr, level, structured))
}

// New builds a logger writing to w.
func New(w io.Writer, level string, structured bool) *slog.Logger {
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	lvl, _ := ParseLevel(level)

	if structured {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
		}))
	}
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}),
	)
}
