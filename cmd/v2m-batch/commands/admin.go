package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"
)

// HealthAction checks that the API answers on its health endpoint.
func HealthAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	if err := app.Client.Health(ctx); err != nil {
		return fmt.Errorf("health check failed for %s: %w", app.Client.BaseURL(), err)
	}

	fmt.Printf("%s is healthy\n", app.Client.BaseURL())
	return nil
}

// CleanupAction triggers the server-side retention cleanup.
func CleanupAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	result, err := app.Client.Cleanup(ctx, int(cmd.Int("retention-days")))
	if err != nil {
		return fmt.Errorf("cleanup: %w", err)
	}

	fmt.Printf("deleted %d jobs and %d objects\n", result.DeletedJobs, result.DeletedObjects)
	slog.Info("cleanup completed", "deletedJobs", result.DeletedJobs, "deletedObjects", result.DeletedObjects)
	return nil
}
