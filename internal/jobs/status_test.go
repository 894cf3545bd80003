package jobs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(StatusReady))
	assert.True(t, IsTerminal(StatusFailed))
	assert.True(t, IsTerminal(StatusExpired))

	assert.False(t, IsTerminal(StatusQueued))
	assert.False(t, IsTerminal(StatusDownloading))
	assert.False(t, IsTerminal(StatusTranscoding))
	assert.False(t, IsTerminal(StatusProcessing))

	// timeout is synthesized after polling ends; it never terminates the
	// poll loop by itself
	assert.False(t, IsTerminal(StatusTimeout))
}
