package git

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
)

// ErrNotRepository is returned by Open when no repository encloses the path.
var ErrNotRepository = stderrors.New("not inside a git repository")

var errStop = stderrors.New("stop iteration")

// History answers last-modified queries against one repository. It caches
// results per file; the cache is dropped by Reset.
type History struct {
	repo *git.Repository
	root string

	mu    sync.Mutex
	cache map[string]time.Time
}

// Open finds the repository enclosing path, searching parent directories.
func Open(path string) (*History, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, serrors.GitFailed("open", err)
	}
	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if stderrors.Is(err, git.ErrRepositoryNotExists) {
			return nil, ErrNotRepository
		}
		return nil, serrors.GitFailed("open", err).WithContext("path", abs)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, serrors.GitFailed("worktree", err).WithContext("path", abs)
	}
	return &History{
		repo:  repo,
		root:  wt.Filesystem.Root(),
		cache: make(map[string]time.Time),
	}, nil
}

// Root returns the worktree root directory.
func (h *History) Root() string { return h.root }

// Head returns the hash of the current HEAD commit.
func (h *History) Head() (string, error) {
	ref, err := h.repo.Head()
	if err != nil {
		return "", serrors.GitFailed("head", err)
	}
	return ref.Hash().String(), nil
}

// LastUpdated returns the committer time of the newest commit reachable from
// HEAD that touched file. ok is false for files with no history, such as
// untracked files or a repository without commits.
func (h *History) LastUpdated(ctx context.Context, file string) (t time.Time, ok bool, err error) {
	rel, err := h.relative(file)
	if err != nil {
		return time.Time{}, false, err
	}

	h.mu.Lock()
	cached, hit := h.cache[rel]
	h.mu.Unlock()
	if hit {
		return cached, !cached.IsZero(), nil
	}

	ref, err := h.repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, serrors.GitFailed("head", err)
	}

	iter, err := h.repo.Log(&git.LogOptions{From: ref.Hash(), FileName: &rel})
	if err != nil {
		return time.Time{}, false, serrors.GitFailed("log", err).WithContext("file", rel)
	}
	defer iter.Close()

	var found time.Time
	err = iter.ForEach(func(c *object.Commit) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		found = c.Committer.When
		return errStop
	})
	if err != nil && !stderrors.Is(err, errStop) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return time.Time{}, false, ctxErr
		}
		return time.Time{}, false, serrors.GitFailed("log", err).WithContext("file", rel)
	}

	h.mu.Lock()
	h.cache[rel] = found
	h.mu.Unlock()
	return found, !found.IsZero(), nil
}

// Reset drops cached results so that new commits are observed.
func (h *History) Reset() {
	h.mu.Lock()
	h.cache = make(map[string]time.Time)
	h.mu.Unlock()
}

func (h *History) relative(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", serrors.GitFailed("resolve", err)
	}
	// Resolve symlinks on both sides so that temp dirs like /var -> /private/var compare equal.
	root := h.root
	if r, rerr := filepath.EvalSymlinks(root); rerr == nil {
		root = r
	}
	if a, aerr := filepath.EvalSymlinks(abs); aerr == nil {
		abs = a
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", serrors.GitFailed("resolve", err)
	}
	if rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return "", serrors.GitFailed("resolve", fmt.Errorf("%s is outside the repository %s", file, h.root))
	}
	return filepath.ToSlash(rel), nil
}
