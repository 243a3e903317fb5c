package gitdate

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// stderr signatures git emits when a ref or repository is absent. These are
// expected fallback triggers, not invocation failures.
var notFoundMarkers = []string{
	"unknown revision",
	"bad revision",
	"not a git repository",
	"does not have any commits",
}

// CLIReader reads commit dates by invoking the local git binary against a bare
// repository, one process per lookup.
type CLIReader struct {
	// GitPath overrides the git binary to invoke. Defaults to "git" on PATH.
	GitPath string
}

// EarliestCommitDate runs `git log --reverse --max-count=1` for the ref and
// parses the author date of the first commit it prints.
func (r *CLIReader) EarliestCommitDate(ctx context.Context, repoPath, ref string) (time.Time, error) {
	gitPath := r.GitPath
	if gitPath == "" {
		gitPath = "git"
	}

	cmd := exec.CommandContext(ctx, gitPath,
		"--git-dir", repoPath,
		"log", "--reverse", "--format=%aI", "--max-count=1", ref,
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if isNotFound(msg) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("git log %s in %s failed: %w: %s", ref, repoPath, err, msg)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(stdout.String()), "\n")
	if line == "" {
		return time.Time{}, ErrNotFound
	}

	when, err := time.Parse(time.RFC3339, line)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse commit date %q from %s: %w", line, repoPath, err)
	}

	return when, nil
}

func isNotFound(stderr string) bool {
	for _, marker := range notFoundMarkers {
		if strings.Contains(stderr, marker) {
			return true
		}
	}
	return false
}
