package jobs

// Statuses reported by the video2mp3 API.
const (
	StatusQueued      = "queued"
	StatusDownloading = "downloading"
	StatusTranscoding = "transcoding"
	StatusProcessing  = "processing"
	StatusReady       = "ready"
	StatusFailed      = "failed"
	StatusExpired     = "expired"

	// StatusTimeout is synthesized locally when a job does not reach a
	// terminal status before the polling deadline. The server never
	// returns it.
	StatusTimeout = "timeout"
)

// IsTerminal reports whether the server will no longer change the status.
func IsTerminal(status string) bool {
	switch status {
	case StatusReady, StatusFailed, StatusExpired:
		return true
	}
	return false
}
