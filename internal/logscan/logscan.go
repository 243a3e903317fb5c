package logscan

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>]+`)

// trailing punctuation that belongs to the log line, not the URL
const trailingJunk = ".,;:)]}"

// ExtractURLs walks the *.log files under dir and returns every HTTP(S) URL
// found in them, deduplicated.
func ExtractURLs(dir string) (map[string]struct{}, error) {
	urls := make(map[string]struct{})

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".log") {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read log file %s: %w", path, err)
		}

		for _, match := range urlPattern.FindAllString(string(data), -1) {
			url := strings.TrimRight(match, trailingJunk)
			if url != "" {
				urls[url] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan logs under %s: %w", dir, err)
	}

	return urls, nil
}
