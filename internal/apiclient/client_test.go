package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lyb88999/v2m-batch/internal/jobs"
)

func newTestClient(baseURL string) *Client {
	return NewClient(Config{BaseURL: baseURL, Timeout: 2 * time.Second})
}

func TestCreateJobAccepted(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/jobs", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-1", "status": jobs.StatusQueued})
	}))
	defer srv.Close()

	jobID, err := newTestClient(srv.URL).CreateJob(context.Background(), "https://example.com/a")
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, map[string]string{"url": "https://example.com/a"}, gotBody)
}

func TestCreateJobCarriesServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "unsupported platform"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateJob(context.Background(), "https://example.com/a")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported platform")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestCreateJobNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateJob(context.Background(), "https://example.com/a")
	require.Error(t, err)
	assert.ErrorContains(t, err, "boom")
}

func TestCreateJobRejectsNonAcceptedSuccess(t *testing.T) {
	// a 200 is not a valid job-creation response
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"job_id": "job-1"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateJob(context.Background(), "https://example.com/a")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unexpected status 200")
}

func TestDoTransportFailureReturnsStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	status, err := newTestClient(srv.URL).do(context.Background(), http.MethodGet, "/jobs", nil, nil)
	assert.Equal(t, 0, status)
	assert.Error(t, err)
}

func TestAuthHeaderSetWhenTokenConfigured(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Token: "secret", Timeout: time.Second})
	require.NoError(t, client.Health(context.Background()))
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestGetJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/job-1", r.URL.Path)
		json.NewEncoder(w).Encode(Job{
			JobID:    "job-1",
			Status:   jobs.StatusTranscoding,
			Platform: "bilibili",
		})
	}))
	defer srv.Close()

	job, err := newTestClient(srv.URL).GetJob(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.JobID)
	assert.Equal(t, jobs.StatusTranscoding, job.Status)
	assert.Equal(t, "bilibili", job.Platform)
}

func TestWaitJobReturnsImmediatelyOnReady(t *testing.T) {
	var gets int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&gets, 1)
		json.NewEncoder(w).Encode(Job{JobID: "job-1", Status: jobs.StatusReady})
	}))
	defer srv.Close()

	start := time.Now()
	job, err := newTestClient(srv.URL).WaitJob(context.Background(), "job-1", time.Second, 10*time.Second)
	require.NoError(t, err)

	assert.Equal(t, jobs.StatusReady, job.Status)
	assert.EqualValues(t, 1, atomic.LoadInt32(&gets))
	assert.Less(t, time.Since(start), time.Second)
}

func TestWaitJobSynthesizesTimeout(t *testing.T) {
	var gets int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&gets, 1)
		json.NewEncoder(w).Encode(Job{JobID: "job-1", Status: jobs.StatusQueued})
	}))
	defer srv.Close()

	job, err := newTestClient(srv.URL).WaitJob(context.Background(), "job-1", 5*time.Millisecond, 25*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, jobs.StatusTimeout, job.Status)
	// a final fetch always precedes the timeout verdict
	assert.GreaterOrEqual(t, atomic.LoadInt32(&gets), int32(2))
}

func TestWaitJobPassesThroughFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Job{JobID: "job-1", Status: jobs.StatusFailed, Error: "download failed"})
	}))
	defer srv.Close()

	job, err := newTestClient(srv.URL).WaitJob(context.Background(), "job-1", time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, jobs.StatusFailed, job.Status)
	assert.Equal(t, "download failed", job.Error)
}

func TestWaitJobHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Job{JobID: "job-1", Status: jobs.StatusQueued})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := newTestClient(srv.URL).WaitJob(ctx, "job-1", time.Second, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(map[string][]Job{
			"jobs": {
				{JobID: "job-1", Status: jobs.StatusReady},
				{JobID: "job-2", Status: jobs.StatusQueued},
			},
		})
	}))
	defer srv.Close()

	items, err := newTestClient(srv.URL).ListJobs(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "job-1", items[0].JobID)
	assert.Equal(t, "job-2", items[1].JobID)
}

func TestRetryJobConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/job-1/retry", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "job not retryable"})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).RetryJob(context.Background(), "job-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "job not retryable")
}

func TestDownloadFollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/jobs/job-1/download", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/artifact", http.StatusFound)
	})
	mux.HandleFunc("/artifact", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("mp3-bytes"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	dir := t.TempDir()
	path, err := newTestClient(srv.URL).Download(context.Background(), "job-1", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(data))
	assert.Contains(t, path, "video2mp3-job-1.mp3")
}

func TestDownloadNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"error": "job not ready"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Download(context.Background(), "job-1", t.TempDir())
	require.Error(t, err)
	assert.ErrorContains(t, err, "job not ready")
}

func TestDownloadURL(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://localhost:8080/"})
	assert.Equal(t, "http://localhost:8080/jobs/job-1/download", client.DownloadURL("job-1"))
}
