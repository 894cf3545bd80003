package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/lyb88999/v2m-batch/internal/batch"
	"github.com/lyb88999/v2m-batch/internal/urllist"
)

// RunAction drives the whole batch: parse the URL list, submit each URL as a
// job, poll it to a terminal status, and print a summary.
func RunAction(ctx context.Context, cmd *cli.Command) error {
	app, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	urls, err := urllist.Load(cmd.String("file"))
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		// No HTTP call has been made at this point.
		return cli.Exit("no urls provided", 1)
	}

	cfg := app.Config
	if cmd.IsSet("interval") {
		cfg.PollInterval = cmd.Duration("interval")
	}
	if cmd.IsSet("timeout") {
		cfg.PollTimeout = cmd.Duration("timeout")
	}

	fmt.Printf("API: %s\n", app.Client.BaseURL())

	runner := &batch.Runner{
		API:      app.Client,
		Interval: cfg.PollInterval,
		Timeout:  cfg.PollTimeout,
		Out:      os.Stdout,
	}
	report := runner.Run(ctx, urls)
	report.APIBaseURL = app.Client.BaseURL()

	fmt.Println()
	renderSummaryTable(report.Results)

	if path := cmd.String("report"); path != "" {
		if err := exportReportJSON(&report, path); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("report written to %s\n", path)
		app.Logger.Info("batch report written", "runID", report.RunID, "path", path)
	}

	return nil
}

// renderSummaryTable prints one row per processed URL.
func renderSummaryTable(results []batch.Result) {
	if len(results) == 0 {
		return
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("URL", "Job ID", "Status", "Elapsed", "Error")

	for _, result := range results {
		table.Append(
			truncateString(result.URL, 60),
			result.JobID,
			result.Status,
			fmt.Sprintf("%.1fs", result.ElapsedSeconds),
			truncateString(result.Error, 40),
		)
	}

	table.Render()
}

// exportReportJSON writes the batch report as indented JSON.
func exportReportJSON(report *batch.Report, outputFile string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
