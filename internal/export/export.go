package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	headerRepository   = "Repository"
	headerCreationDate = "Creation Date"

	// DiscardedFileName is the fixed name of the discard report, written under
	// the configured output directory.
	DiscardedFileName = "discarded_urls.txt"
)

// WriteCSV writes the report to path, overwriting any previous file: a header
// row followed by one row per repository.
func WriteCSV(path string, records []Repository) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{headerRepository, headerCreationDate}); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV header to %s: %w", path, err)
	}
	for _, r := range records {
		if err := w.Write([]string{r.Name, r.CreationDate}); err != nil {
			f.Close()
			return fmt.Errorf("failed to write CSV row for %s to %s: %w", r.Name, path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to write CSV file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file %s: %w", path, err)
	}
	return nil
}

// LoadExisting reads a previous report so already-resolved repositories can be
// skipped on re-runs. A missing file yields an empty map.
func LoadExisting(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to open existing CSV %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read existing CSV %s: %w", path, err)
	}

	existing := make(map[string]string)
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		existing[row[0]] = row[1]
	}
	return existing, nil
}

// WriteDiscarded writes the discard report under dir, one URL per line. The
// caller is expected to pass a sorted slice.
func WriteDiscarded(dir string, urls []string) error {
	path := filepath.Join(dir, DiscardedFileName)

	var b strings.Builder
	for _, u := range urls {
		b.WriteString(u)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write discard file %s: %w", path, err)
	}
	return nil
}
