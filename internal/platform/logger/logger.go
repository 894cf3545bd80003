package logger

import (
	"log/slog"
	"os"
)

// Config controls log level and output format.
type Config struct {
	Level  slog.Level
	Format string // "json" or "text"
}

// DefaultConfig returns the default logger settings.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "text",
	}
}

// New creates a logger and installs it as the slog default. Logs go to
// stderr so they never mix with the harness's progress output on stdout.
func New(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	var handler slog.Handler
	switch cfg.Format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	default:
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}
