package gitdate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrNotFound is returned by a Reader when the repository or the requested ref
// does not exist. It triggers the branch fallback rather than failing the
// repository.
var ErrNotFound = errors.New("ref not found")

// Refs tried in order when resolving a repository's creation date. A project
// with no content commits still has history on its configuration branch.
const (
	RefMaster     = "master"
	RefMetaConfig = "refs/meta/config"
)

var fallbackRefs = []string{RefMaster, RefMetaConfig}

// Reader reads the timestamp of the earliest commit reachable from a ref in a
// local bare repository.
type Reader interface {
	EarliestCommitDate(ctx context.Context, repoPath, ref string) (time.Time, error)
}

// Resolve determines the creation date of a named repository under basePath by
// trying the master branch and then the meta-config branch. The second return
// value is false when no date could be determined (missing repository or no
// commits on either ref); that case is not an error. Any other reader failure
// is returned to the caller.
func Resolve(ctx context.Context, r Reader, basePath, name string) (time.Time, bool, error) {
	repoPath := filepath.Join(basePath, name+".git")

	if _, err := os.Stat(repoPath); err != nil {
		if os.IsNotExist(err) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("failed to stat repository %s: %w", repoPath, err)
	}

	for _, ref := range fallbackRefs {
		when, err := r.EarliestCommitDate(ctx, repoPath, ref)
		if err == nil {
			return when, true, nil
		}
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return time.Time{}, false, err
	}

	return time.Time{}, false, nil
}
