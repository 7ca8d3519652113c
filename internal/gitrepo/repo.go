package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5/util"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"blocksync/internal/blocksync"
)

// Options configures how the working copy is opened.
type Options struct {
	// Workdir is the tracked working copy. It must already be a repository
	// with the remote configured; cloning is left to the operator.
	Workdir string

	// Remote is the remote name, typically "origin".
	Remote string

	// Branch is the branch tracked on the remote, typically "master".
	Branch string

	// AuthorName and AuthorEmail identify commits made by this node.
	AuthorName  string
	AuthorEmail string
}

// Repo implements the blocksync.GitRepo port using go-git.
type Repo struct {
	repo *gogit.Repository
	wt   *gogit.Worktree
	opts Options
}

var _ blocksync.GitRepo = (*Repo)(nil)

// Open opens the tracked working copy at opts.Workdir.
func Open(opts Options) (*Repo, error) {
	repo, err := gogit.PlainOpen(opts.Workdir)
	if err != nil {
		return nil, fmt.Errorf("opening working copy %s: %w", opts.Workdir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("getting worktree: %w", err)
	}

	return &Repo{repo: repo, wt: wt, opts: opts}, nil
}

// RemoteUpdate fetches the configured remote's refs without touching the
// worktree. Fetching from an empty or already-current remote is not an error.
func (r *Repo) RemoteUpdate(ctx context.Context) error {
	return r.fetch(ctx, r.opts.Remote)
}

// FetchAll fetches from every configured remote.
func (r *Repo) FetchAll(ctx context.Context) error {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return fmt.Errorf("listing remotes: %w", err)
	}

	for _, remote := range remotes {
		if err := r.fetch(ctx, remote.Config().Name); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) fetch(ctx context.Context, remote string) error {
	err := r.repo.FetchContext(ctx, &gogit.FetchOptions{RemoteName: remote})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gogit.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		// Nothing recorded remotely yet; the first push will create it.
		return nil
	default:
		return fmt.Errorf("fetching %s: %w", remote, err)
	}
}

// HardReset discards all local divergence and resets the worktree to the
// remote-tracking branch's latest commit.
func (r *Repo) HardReset(ctx context.Context) error {
	ref, err := r.remoteRef()
	if err != nil {
		return err
	}

	if err := r.wt.Reset(&gogit.ResetOptions{Mode: gogit.HardReset, Commit: ref.Hash()}); err != nil {
		return fmt.Errorf("hard reset to %s: %w", ref.Name(), err)
	}
	return nil
}

// HasLocalChanges compares the worktree's current file contents against the
// tree recorded at the remote-tracking branch. It reports true on any byte
// difference, any file missing remotely, and any file deleted locally.
// With no remote snapshot at all, everything counts as a change.
func (r *Repo) HasLocalChanges(ctx context.Context) (bool, error) {
	ref, err := r.remoteRef()
	if errors.Is(err, ErrNoRemoteSnapshot) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return false, fmt.Errorf("loading remote commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return false, fmt.Errorf("loading remote tree: %w", err)
	}

	changed := false
	seen := make(map[string]bool)

	// Worktree side: every regular file must match its remote blob.
	err = util.Walk(r.wt.Filesystem, ".", func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := normalizePath(path)
		if name == "" || name == ".git" || strings.HasPrefix(name, ".git/") {
			if info.IsDir() && name == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || changed {
			return nil
		}

		data, err := util.ReadFile(r.wt.Filesystem, path)
		if err != nil {
			return err
		}
		seen[name] = true

		entry, err := tree.FindEntry(name)
		if err != nil || entry.Hash != plumbing.ComputeHash(plumbing.BlobObject, data) {
			changed = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("walking working copy: %w", err)
	}
	if changed {
		return true, nil
	}

	// Remote side: a file recorded remotely but absent locally is a change too.
	err = tree.Files().ForEach(func(f *object.File) error {
		if !seen[f.Name] {
			changed = true
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("walking remote tree: %w", err)
	}

	return changed, nil
}

// CommitsBehindRemote counts the commits reachable from the remote-tracking
// branch that are not reachable from local HEAD. Zero means the remote is not
// ahead. With no remote snapshot the count is zero; a missing local HEAD
// makes every remote commit count.
func (r *Repo) CommitsBehindRemote(ctx context.Context) (int, error) {
	ref, err := r.remoteRef()
	if errors.Is(err, ErrNoRemoteSnapshot) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	local := make(map[plumbing.Hash]bool)
	head, err := r.repo.Head()
	switch {
	case err == nil:
		if head.Hash() == ref.Hash() {
			return 0, nil
		}
		iter, err := r.repo.Log(&gogit.LogOptions{From: head.Hash()})
		if err != nil {
			return 0, fmt.Errorf("walking local history: %w", err)
		}
		err = iter.ForEach(func(c *object.Commit) error {
			local[c.Hash] = true
			return nil
		})
		if err != nil {
			return 0, fmt.Errorf("walking local history: %w", err)
		}
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// No local history yet; fall through with an empty ancestor set.
	default:
		return 0, fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := r.repo.Log(&gogit.LogOptions{From: ref.Hash()})
	if err != nil {
		return 0, fmt.Errorf("walking remote history: %w", err)
	}

	behind := 0
	err = iter.ForEach(func(c *object.Commit) error {
		if !local[c.Hash] {
			behind++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walking remote history: %w", err)
	}

	return behind, nil
}

// StageAll stages every change in the working copy, additions and deletions
// included.
func (r *Repo) StageAll(ctx context.Context) error {
	if err := r.wt.AddWithOptions(&gogit.AddOptions{All: true}); err != nil {
		return fmt.Errorf("staging all changes: %w", err)
	}
	return nil
}

// Commit records a single commit covering all staged changes.
func (r *Repo) Commit(ctx context.Context, message string) error {
	_, err := r.wt.Commit(message, &gogit.CommitOptions{
		All: true,
		Author: &object.Signature{
			Name:  r.opts.AuthorName,
			Email: r.opts.AuthorEmail,
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// Push transfers local commits to the configured remote. An already-current
// remote is not an error.
func (r *Repo) Push(ctx context.Context) error {
	err := r.repo.PushContext(ctx, &gogit.PushOptions{RemoteName: r.opts.Remote})
	if err != nil && !errors.Is(err, gogit.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pushing to %s: %w", r.opts.Remote, err)
	}
	return nil
}

// remoteRef resolves the remote-tracking reference for the configured branch.
func (r *Repo) remoteRef() (*plumbing.Reference, error) {
	name := plumbing.NewRemoteReferenceName(r.opts.Remote, r.opts.Branch)
	ref, err := r.repo.Reference(name, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, ErrNoRemoteSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", name, err)
	}
	return ref, nil
}

// normalizePath converts a billy walk path to the slash-separated relative
// form used by git trees.
func normalizePath(path string) string {
	name := filepath.ToSlash(path)
	name = strings.TrimPrefix(name, "./")
	if name == "." {
		return ""
	}
	return name
}
