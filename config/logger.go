package config

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger installs the process-wide slog logger from LOG_LEVEL and LOG_FORMAT.
func InitLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(LOG_LEVEL)}

	var handler slog.Handler
	if strings.EqualFold(LOG_FORMAT, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
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
