package gitdate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// NativeReader reads commit dates with go-git, without spawning an external
// process. Used when the git binary is not available on the host.
type NativeReader struct{}

// EarliestCommitDate opens the repository, resolves the ref and walks its
// history, returning the author time of the oldest reachable commit.
func (NativeReader) EarliestCommitDate(ctx context.Context, repoPath, ref string) (time.Time, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("failed to open repository %s: %w", repoPath, err)
	}

	hash, err := resolveRef(repo, ref)
	if err != nil {
		// A resolution failure on an otherwise readable repository means the
		// ref is absent.
		return time.Time{}, ErrNotFound
	}

	iter, err := repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read log of %s in %s: %w", ref, repoPath, err)
	}
	defer iter.Close()

	var oldest time.Time
	found := false
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !found || c.Author.When.Before(oldest) {
			oldest = c.Author.When
			found = true
		}
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to walk history of %s in %s: %w", ref, repoPath, err)
	}
	if !found {
		return time.Time{}, ErrNotFound
	}

	return oldest, nil
}

func resolveRef(repo *git.Repository, ref string) (plumbing.Hash, error) {
	if strings.HasPrefix(ref, "refs/") {
		r, err := repo.Reference(plumbing.ReferenceName(ref), true)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return r.Hash(), nil
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return *hash, nil
}
