package testutil

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"blocksync/internal/blocksync"
)

// FakeRemote models the remote end of a sync repository: the file contents of
// its latest snapshot plus a monotonically increasing commit count. Two
// FakeGitRepos sharing one FakeRemote model two nodes syncing through the same
// repository.
type FakeRemote struct {
	Files   map[string][]byte // relative path -> content
	Commits int
}

// NewFakeRemote creates an empty remote with no commits.
func NewFakeRemote() *FakeRemote {
	return &FakeRemote{Files: make(map[string][]byte)}
}

// FakeGitRepo is an in-memory blocksync.GitRepo backed by a FakeFilesystem
// working copy and a shared FakeRemote. Content comparisons and resets use
// the files under Workdir in the fake filesystem.
type FakeGitRepo struct {
	FS      *FakeFilesystem
	Workdir string
	Remote  *FakeRemote

	// LocalCommits is the number of commits in local history.
	LocalCommits int

	// committed holds the snapshot recorded by the last Commit, pending Push.
	committed map[string][]byte

	// Call counters.
	RemoteUpdateCalls int
	FetchAllCalls     int
	StageAllCalls     int
	PushCalls         int

	// CommitMessages records every Commit call's message in order.
	CommitMessages []string

	// Per-method injected errors.
	RemoteUpdateErr error
	FetchAllErr     error
	HardResetErr    error
	CompareErr      error
	StageAllErr     error
	CommitErr       error
	PushErr         error
}

// NewFakeGitRepo creates a FakeGitRepo over the given working copy and remote.
func NewFakeGitRepo(fs *FakeFilesystem, workdir string, remote *FakeRemote) *FakeGitRepo {
	return &FakeGitRepo{FS: fs, Workdir: workdir, Remote: remote}
}

func (g *FakeGitRepo) RemoteUpdate(_ context.Context) error {
	g.RemoteUpdateCalls++
	return g.RemoteUpdateErr
}

func (g *FakeGitRepo) FetchAll(_ context.Context) error {
	g.FetchAllCalls++
	return g.FetchAllErr
}

func (g *FakeGitRepo) HardReset(_ context.Context) error {
	if g.HardResetErr != nil {
		return g.HardResetErr
	}
	for _, path := range g.FS.FilesUnder(g.Workdir) {
		if _, ok := g.Remote.Files[g.rel(path)]; !ok {
			delete(g.FS.Files, path)
		}
	}
	for name, content := range g.Remote.Files {
		g.FS.WriteFile(filepath.Join(g.Workdir, name), content)
	}
	g.LocalCommits = g.Remote.Commits
	g.committed = g.snapshotWorkdir()
	return nil
}

func (g *FakeGitRepo) HasLocalChanges(_ context.Context) (bool, error) {
	if g.CompareErr != nil {
		return false, g.CompareErr
	}
	local := g.snapshotWorkdir()
	if len(local) != len(g.Remote.Files) {
		return true, nil
	}
	for name, content := range local {
		remote, ok := g.Remote.Files[name]
		if !ok || !bytes.Equal(content, remote) {
			return true, nil
		}
	}
	return false, nil
}

func (g *FakeGitRepo) CommitsBehindRemote(_ context.Context) (int, error) {
	if g.CompareErr != nil {
		return 0, g.CompareErr
	}
	behind := g.Remote.Commits - g.LocalCommits
	if behind < 0 {
		behind = 0
	}
	return behind, nil
}

func (g *FakeGitRepo) StageAll(_ context.Context) error {
	g.StageAllCalls++
	return g.StageAllErr
}

func (g *FakeGitRepo) Commit(_ context.Context, message string) error {
	if g.CommitErr != nil {
		return g.CommitErr
	}
	g.CommitMessages = append(g.CommitMessages, message)
	g.committed = g.snapshotWorkdir()
	g.LocalCommits++
	return nil
}

func (g *FakeGitRepo) Push(_ context.Context) error {
	g.PushCalls++
	if g.PushErr != nil {
		return g.PushErr
	}
	g.Remote.Files = make(map[string][]byte, len(g.committed))
	for name, content := range g.committed {
		g.Remote.Files[name] = append([]byte(nil), content...)
	}
	g.Remote.Commits = g.LocalCommits
	return nil
}

// snapshotWorkdir captures the current working-copy files keyed by path
// relative to Workdir.
func (g *FakeGitRepo) snapshotWorkdir() map[string][]byte {
	out := make(map[string][]byte)
	for _, path := range g.FS.FilesUnder(g.Workdir) {
		out[g.rel(path)] = append([]byte(nil), g.FS.Files[path]...)
	}
	return out
}

func (g *FakeGitRepo) rel(path string) string {
	return strings.TrimPrefix(path, g.Workdir+"/")
}

// Compile-time check
var _ blocksync.GitRepo = (*FakeGitRepo)(nil)
