package commands

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/lyb88999/v2m-batch/internal/apiclient"
	"github.com/lyb88999/v2m-batch/internal/platform/config"
	"github.com/lyb88999/v2m-batch/internal/platform/logger"
)

// AppContext holds what every command needs: resolved configuration, the
// API client, and a logger.
type AppContext struct {
	Config *config.Config
	Client *apiclient.Client
	Logger *slog.Logger
}

// NewAppContext loads configuration and builds the API client. Values set
// explicitly on the command line win over environment variables, which win
// over defaults.
func NewAppContext(cmd *cli.Command) (*AppContext, error) {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cmd.IsSet("api") {
		cfg.APIBaseURL = cmd.String("api")
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	client := apiclient.NewClient(apiclient.Config{
		BaseURL: cfg.APIBaseURL,
		Token:   cfg.APIToken,
		Timeout: cfg.HTTPTimeout,
	})

	return &AppContext{
		Config: cfg,
		Client: client,
		Logger: appLogger,
	}, nil
}

// truncateString shortens a string for table display.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
