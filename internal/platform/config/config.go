package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the harness needs to talk to the API.
type Config struct {
	// API connection
	APIBaseURL  string
	APIToken    string
	HTTPTimeout time.Duration

	// Polling behavior
	PollInterval time.Duration
	PollTimeout  time.Duration

	// Where `job download` saves files
	DownloadDir string

	// Logging
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. A missing .env file is not an error; the harness works from
// environment variables and defaults alone.
func Load(envFilePath string) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to load .env file: %w", err)
			}
		}
	}

	cfg := &Config{
		APIBaseURL:   getEnv("V2M_API_URL", "http://localhost:8080"),
		APIToken:     getEnv("V2M_API_TOKEN", ""),
		HTTPTimeout:  getEnvAsDuration("V2M_HTTP_TIMEOUT", 20*time.Second),
		PollInterval: getEnvAsDuration("V2M_POLL_INTERVAL", 2*time.Second),
		PollTimeout:  getEnvAsDuration("V2M_POLL_TIMEOUT", 180*time.Second),
		DownloadDir:  getEnv("V2M_DOWNLOAD_DIR", "."),
		LogLevel:     getEnvAsLevel("V2M_LOG_LEVEL", slog.LevelInfo),
		LogFormat:    getEnv("V2M_LOG_FORMAT", "text"),
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable, or a default when unset.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsDuration parses an environment variable as a time.Duration.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsLevel parses an environment variable as a slog level.
func getEnvAsLevel(key string, defaultValue slog.Level) slog.Level {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(valueStr)); err != nil {
		return defaultValue
	}
	return level
}
