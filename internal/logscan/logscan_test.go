package logscan

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
}

func TestExtractURLs(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "access.log"),
		"GET https://gerrit.example.com/a/alpha 200\n"+
			"clone from https://gerrit.example.com/beta.git.\n"+
			"again https://gerrit.example.com/a/alpha 200\n")
	writeFile(t, filepath.Join(dir, "nested", "error.log"),
		"failed to reach http://mirror.example.com/delta\n")
	writeFile(t, filepath.Join(dir, "notes.txt"),
		"ignored https://gerrit.example.com/ignored\n")

	urls, err := ExtractURLs(dir)
	if err != nil {
		t.Fatalf("ExtractURLs() unexpected error: %v", err)
	}

	want := []string{
		"https://gerrit.example.com/a/alpha",
		"https://gerrit.example.com/beta.git",
		"http://mirror.example.com/delta",
	}

	if len(urls) != len(want) {
		t.Errorf("ExtractURLs() returned %d URLs, want %d: %v", len(urls), len(want), urls)
	}
	for _, u := range want {
		if _, ok := urls[u]; !ok {
			t.Errorf("ExtractURLs() missing %q", u)
		}
	}
}

func TestExtractURLsEmptyDir(t *testing.T) {
	urls, err := ExtractURLs(t.TempDir())
	if err != nil {
		t.Fatalf("ExtractURLs() unexpected error: %v", err)
	}
	if len(urls) != 0 {
		t.Errorf("ExtractURLs() = %v, want empty set", urls)
	}
}

func TestExtractURLsMissingDir(t *testing.T) {
	_, err := ExtractURLs(filepath.Join(t.TempDir(), "no-such-dir"))
	if err == nil {
		t.Error("ExtractURLs() expected error for missing directory, got nil")
	}
}
