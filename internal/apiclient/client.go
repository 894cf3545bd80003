// Package apiclient is a thin JSON client for the video2mp3 job API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lyb88999/v2m-batch/internal/jobs"
)

// Config configures the API client.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to one API instance. It performs no retries; every call is a
// single request.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient builds a client for the given base URL. A trailing slash on the
// base URL is tolerated.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Job is the API's job representation.
type Job struct {
	JobID     string `json:"job_id"`
	SourceURL string `json:"source_url,omitempty"`
	Platform  string `json:"platform,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	MP3URL    string `json:"mp3_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// CleanupResult reports what an admin cleanup removed.
type CleanupResult struct {
	DeletedJobs    int64 `json:"deleted_jobs"`
	DeletedObjects int   `json:"deleted_objects"`
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// do sends one JSON request. The payload, when non-nil, is serialized as the
// JSON body. On 2xx the response body is decoded into out (when non-nil).
// Transport-level failures return a synthetic status 0. Non-2xx responses
// become an *APIError carrying the server's error field when the body parses
// as JSON, or the raw body text otherwise.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, errorFromBody(resp.StatusCode, raw)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response body: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) setAuth(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func errorFromBody(status int, raw []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		return &APIError{StatusCode: status, Message: payload.Error}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return &APIError{StatusCode: status, Message: text}
	}
	return &APIError{StatusCode: status}
}

// CreateJob submits a source URL for conversion. Only HTTP 202 counts as
// success; the returned job id is opaque and must round-trip unchanged into
// GetJob.
func (c *Client) CreateJob(ctx context.Context, sourceURL string) (string, error) {
	var resp struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	status, err := c.do(ctx, http.MethodPost, "/jobs", map[string]string{"url": sourceURL}, &resp)
	if err != nil {
		return "", err
	}
	if status != http.StatusAccepted {
		return "", &APIError{StatusCode: status}
	}
	return resp.JobID, nil
}

// GetJob fetches the current state of a job.
func (c *Client) GetJob(ctx context.Context, jobID string) (Job, error) {
	var job Job
	status, err := c.do(ctx, http.MethodGet, "/jobs/"+jobID, nil, &job)
	if err != nil {
		return Job{}, err
	}
	if status != http.StatusOK {
		return Job{}, &APIError{StatusCode: status}
	}
	return job, nil
}

// WaitJob polls the job until it reaches a terminal status or the deadline
// passes. The deadline is only checked after a fetch shows a non-terminal
// status, so one final fetch always happens before timeout is declared; on
// timeout the returned job carries the synthesized jobs.StatusTimeout.
func (c *Client) WaitJob(ctx context.Context, jobID string, interval, timeout time.Duration) (Job, error) {
	deadline := time.Now().Add(timeout)
	for {
		job, err := c.GetJob(ctx, jobID)
		if err != nil {
			return Job{}, err
		}
		if jobs.IsTerminal(job.Status) {
			return job, nil
		}
		if !time.Now().Before(deadline) {
			job.Status = jobs.StatusTimeout
			return job, nil
		}

		select {
		case <-ctx.Done():
			return Job{}, ctx.Err()
		case <-time.After(interval):
		}
	}
}

// ListJobs fetches the most recent jobs. A non-positive limit leaves the
// choice to the server.
func (c *Client) ListJobs(ctx context.Context, limit int) ([]Job, error) {
	path := "/jobs"
	if limit > 0 {
		path = fmt.Sprintf("/jobs?limit=%d", limit)
	}
	var resp struct {
		Jobs []Job `json:"jobs"`
	}
	status, err := c.do(ctx, http.MethodGet, path, nil, &resp)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{StatusCode: status}
	}
	return resp.Jobs, nil
}

// RetryJob requeues a failed or expired job.
func (c *Client) RetryJob(ctx context.Context, jobID string) error {
	status, err := c.do(ctx, http.MethodPost, "/jobs/"+jobID+"/retry", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusAccepted {
		return &APIError{StatusCode: status}
	}
	return nil
}

// Health checks the API's health endpoint.
func (c *Client) Health(ctx context.Context) error {
	status, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{StatusCode: status}
	}
	return nil
}

// Cleanup asks the server to delete jobs older than the retention window.
// With retentionDays <= 0 the server's configured default applies.
func (c *Client) Cleanup(ctx context.Context, retentionDays int) (CleanupResult, error) {
	var payload any
	if retentionDays > 0 {
		payload = map[string]int{"retention_days": retentionDays}
	}
	var result CleanupResult
	status, err := c.do(ctx, http.MethodPost, "/admin/cleanup", payload, &result)
	if err != nil {
		return CleanupResult{}, err
	}
	if status != http.StatusOK {
		return CleanupResult{}, &APIError{StatusCode: status}
	}
	return result, nil
}

// DownloadURL derives the download endpoint for a job id.
func (c *Client) DownloadURL(jobID string) string {
	return fmt.Sprintf("%s/jobs/%s/download", c.baseURL, jobID)
}

// Download fetches the converted MP3 for a ready job into dir, following the
// server's redirect to the artifact. It returns the path written.
func (c *Client) Download(ctx context.Context, jobID, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DownloadURL(jobID), nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", errorFromBody(resp.StatusCode, raw)
	}

	dest := filepath.Join(dir, fmt.Sprintf("video2mp3-%s.mp3", jobID))
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return dest, nil
}
