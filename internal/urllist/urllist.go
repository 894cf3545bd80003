// Package urllist parses the newline-delimited URL lists fed to the harness.
package urllist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads the URL list from path, or from stdin when path is "-".
func Load(path string) ([]string, error) {
	if path == "-" {
		return Parse(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse extracts one URL per line. Blank lines and lines starting with "#"
// are skipped; order is preserved.
func Parse(r io.Reader) ([]string, error) {
	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read url list: %w", err)
	}
	return urls, nil
}
