package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/lyb88999/v2m-batch/internal/apiclient"
	"github.com/lyb88999/v2m-batch/internal/jobs"
)

// JobStatusAction fetches one job and prints its details.
func JobStatusAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	job, err := app.Client.GetJob(ctx, cmd.String("id"))
	if err != nil {
		return fmt.Errorf("fetch job: %w", err)
	}

	renderJobDetail(app.Client, job)
	return nil
}

// JobListAction prints a table of recent jobs.
func JobListAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	items, err := app.Client.ListJobs(ctx, int(cmd.Int("limit")))
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}

	if len(items) == 0 {
		fmt.Println("no jobs found")
		return nil
	}

	renderJobsTable(items)
	return nil
}

// JobRetryAction requeues a failed or expired job.
func JobRetryAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	jobID := cmd.String("id")
	if err := app.Client.RetryJob(ctx, jobID); err != nil {
		return fmt.Errorf("retry job: %w", err)
	}

	fmt.Printf("job %s requeued\n", jobID)
	slog.Info("job requeued", "jobID", jobID)
	return nil
}

// JobDownloadAction fetches the converted MP3 for a ready job.
func JobDownloadAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	dir := app.Config.DownloadDir
	if cmd.IsSet("out") {
		dir = cmd.String("out")
	}

	jobID := cmd.String("id")
	path, err := app.Client.Download(ctx, jobID, dir)
	if err != nil {
		return fmt.Errorf("download job %s: %w", jobID, err)
	}

	fmt.Printf("saved %s\n", path)
	slog.Info("job downloaded", "jobID", jobID, "path", path)
	return nil
}

// renderJobsTable prints one row per job.
func renderJobsTable(items []apiclient.Job) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Job ID", "Platform", "Status", "Source URL", "Updated At")

	for _, job := range items {
		table.Append(
			job.JobID,
			job.Platform,
			job.Status,
			truncateString(job.SourceURL, 50),
			job.UpdatedAt,
		)
	}

	table.Render()
}

// renderJobDetail prints a single job's fields.
func renderJobDetail(client *apiclient.Client, job apiclient.Job) {
	fmt.Printf("Job ID:     %s\n", job.JobID)
	fmt.Printf("Status:     %s\n", job.Status)
	if job.Platform != "" {
		fmt.Printf("Platform:   %s\n", job.Platform)
	}
	if job.SourceURL != "" {
		fmt.Printf("Source URL: %s\n", job.SourceURL)
	}
	if job.CreatedAt != "" {
		fmt.Printf("Created At: %s\n", job.CreatedAt)
	}
	if job.UpdatedAt != "" {
		fmt.Printf("Updated At: %s\n", job.UpdatedAt)
	}
	if job.Error != "" {
		fmt.Printf("Error:      %s\n", job.Error)
	}
	if job.Status == jobs.StatusReady {
		fmt.Printf("Download:   %s\n", client.DownloadURL(job.JobID))
	}
}
