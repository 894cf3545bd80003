package urllist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	input := strings.Join([]string{
		"https://example.com/a",
		"",
		"# skip this",
		"   ",
		"https://example.com/b",
		"  https://example.com/c  ",
		"#https://example.com/d",
	}, "\n")

	urls, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/a",
		"https://example.com/b",
		"https://example.com/c",
	}, urls)
}

func TestParseEmptyInput(t *testing.T) {
	urls, err := Parse(strings.NewReader("\n# only a comment\n\n"))
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestParsePreservesOrder(t *testing.T) {
	input := "https://example.com/3\nhttps://example.com/1\nhttps://example.com/2\n"

	urls, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://example.com/3",
		"https://example.com/1",
		"https://example.com/2",
	}, urls)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos.txt")
	content := "https://example.com/a\n# skip\nhttps://example.com/b\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	urls, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, urls)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
