// Package batch drives a list of URLs through the conversion API, one at a
// time.
package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/lyb88999/v2m-batch/internal/apiclient"
	"github.com/lyb88999/v2m-batch/internal/jobs"
)

// JobAPI is the slice of the API client the runner needs.
type JobAPI interface {
	CreateJob(ctx context.Context, sourceURL string) (string, error)
	WaitJob(ctx context.Context, jobID string, interval, timeout time.Duration) (apiclient.Job, error)
	DownloadURL(jobID string) string
}

// Result records the outcome of one URL.
type Result struct {
	URL            string  `json:"url"`
	JobID          string  `json:"job_id,omitempty"`
	Status         string  `json:"status,omitempty"`
	Error          string  `json:"error,omitempty"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Report is the outcome of a whole batch run.
type Report struct {
	RunID      string    `json:"run_id"`
	APIBaseURL string    `json:"api_base_url,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Results    []Result  `json:"results"`
}

// Runner processes URLs sequentially: one URL runs start to finish before
// the next begins. Per-URL errors are printed and recorded, never fatal to
// the batch.
type Runner struct {
	API      JobAPI
	Interval time.Duration
	Timeout  time.Duration
	Out      io.Writer
}

// Run submits and polls every URL in order. It stops early only when the
// context is canceled.
func (r *Runner) Run(ctx context.Context, urls []string) Report {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	for _, sourceURL := range urls {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(r.Out, "\n==> %s\n", sourceURL)

		start := time.Now()
		result := r.processOne(ctx, sourceURL)
		result.ElapsedSeconds = time.Since(start).Seconds()
		report.Results = append(report.Results, result)
	}

	report.FinishedAt = time.Now()
	return report
}

func (r *Runner) processOne(ctx context.Context, sourceURL string) Result {
	result := Result{URL: sourceURL}

	jobID, err := r.API.CreateJob(ctx, sourceURL)
	if err != nil {
		fmt.Fprintf(r.Out, "error: %v\n", err)
		result.Error = err.Error()
		return result
	}
	result.JobID = jobID
	fmt.Fprintf(r.Out, "job_id: %s\n", jobID)

	job, err := r.API.WaitJob(ctx, jobID, r.Interval, r.Timeout)
	if err != nil {
		fmt.Fprintf(r.Out, "error: %v\n", err)
		result.Error = err.Error()
		return result
	}

	result.Status = job.Status
	fmt.Fprintf(r.Out, "status: %s\n", job.Status)
	switch job.Status {
	case jobs.StatusReady:
		fmt.Fprintf(r.Out, "download: %s\n", r.API.DownloadURL(jobID))
	case jobs.StatusFailed:
		fmt.Fprintf(r.Out, "error: %s\n", job.Error)
		result.Error = job.Error
	}
	return result
}
