package blocksync

import "context"

// GitRepo provides the version-control operations the orchestrator needs on
// the tracked working copy. The working copy has exactly one remote; all
// comparisons are against its remote-tracking branch.
type GitRepo interface {
	// RemoteUpdate refreshes the remote-tracking metadata without altering
	// any working-copy file.
	RemoteUpdate(ctx context.Context) error

	// FetchAll fetches all history from every configured remote.
	FetchAll(ctx context.Context) error

	// HardReset discards any local divergence and resets the working copy
	// to the remote-tracking branch's latest state.
	HardReset(ctx context.Context) error

	// HasLocalChanges reports whether the working copy's current file
	// contents differ from the remote snapshot's recorded contents.
	// Any byte difference counts, including files absent on either side.
	HasLocalChanges(ctx context.Context) (bool, error)

	// CommitsBehindRemote returns the number of remote commits not yet
	// present in the local history. This is a history comparison, not a
	// content comparison.
	CommitsBehindRemote(ctx context.Context) (int, error)

	// StageAll stages every file in the working copy for the next commit.
	StageAll(ctx context.Context) error

	// Commit records a single commit covering all staged changes.
	Commit(ctx context.Context, message string) error

	// Push transfers local commits to the remote.
	Push(ctx context.Context) error
}
