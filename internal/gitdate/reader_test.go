package gitdate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeReader serves canned dates keyed by repository path and ref.
type fakeReader struct {
	dates map[string]map[string]time.Time
	err   error
	calls int
}

func (f *fakeReader) EarliestCommitDate(_ context.Context, repoPath, ref string) (time.Time, error) {
	f.calls++
	if f.err != nil {
		return time.Time{}, f.err
	}
	refs, ok := f.dates[repoPath]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	when, ok := refs[ref]
	if !ok {
		return time.Time{}, ErrNotFound
	}
	return when, nil
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	for _, name := range []string{"alpha", "beta", "delta"} {
		if err := os.MkdirAll(filepath.Join(base, name+".git"), 0o755); err != nil {
			t.Fatalf("Failed to create repo dir: %v", err)
		}
	}

	masterDate := time.Date(2021, 1, 5, 10, 0, 0, 0, time.UTC)
	metaDate := time.Date(2020, 6, 1, 8, 30, 0, 0, time.UTC)

	reader := &fakeReader{
		dates: map[string]map[string]time.Time{
			filepath.Join(base, "alpha.git"): {
				RefMaster:     masterDate,
				RefMetaConfig: metaDate,
			},
			filepath.Join(base, "beta.git"): {
				RefMetaConfig: metaDate,
			},
		},
	}

	tests := []struct {
		name     string
		repo     string
		wantDate time.Time
		wantOK   bool
	}{
		{
			name:     "master branch wins",
			repo:     "alpha",
			wantDate: masterDate,
			wantOK:   true,
		},
		{
			name:     "falls back to meta config branch",
			repo:     "beta",
			wantDate: metaDate,
			wantOK:   true,
		},
		{
			name:   "neither ref exists",
			repo:   "delta",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			when, ok, err := Resolve(context.Background(), reader, base, tt.repo)
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if ok != tt.wantOK {
				t.Fatalf("Resolve() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !when.Equal(tt.wantDate) {
				t.Errorf("Resolve() = %v, want %v", when, tt.wantDate)
			}
		})
	}
}

func TestResolveMissingRepository(t *testing.T) {
	reader := &fakeReader{}

	when, ok, err := Resolve(context.Background(), reader, t.TempDir(), "gamma")
	if err != nil {
		t.Fatalf("Resolve() unexpected error: %v", err)
	}
	if ok {
		t.Errorf("Resolve() = %v, want no date for missing repository", when)
	}
	if reader.calls != 0 {
		t.Errorf("Resolve() invoked the reader %d times for a missing repository", reader.calls)
	}
}

func TestResolvePropagatesReaderFailure(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "alpha.git"), 0o755); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}

	readErr := errors.New("git binary exploded")
	reader := &fakeReader{err: readErr}

	_, _, err := Resolve(context.Background(), reader, base, "alpha")
	if !errors.Is(err, readErr) {
		t.Errorf("Resolve() error = %v, want %v", err, readErr)
	}
}
