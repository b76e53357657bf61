package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger creates a *slog.Logger based on the provided LogConfig and
// sets it as the default logger via slog.SetDefault.
//
// Format "json" produces structured JSON output; anything else yields
// human-readable text with source info. Level is one of debug, info,
// warn, error (case-insensitive) and defaults to info. Output is
// always os.Stderr.
func NewLogger(cfg LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !strings.EqualFold(cfg.Format, "json"),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
