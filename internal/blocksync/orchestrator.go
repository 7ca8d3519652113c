package blocksync

import (
	"context"
	"fmt"
	"path/filepath"
)

// SyncService is the orchestration layer that coordinates the working copy,
// the appliance database, and the resolver service to move the list snapshot
// between nodes. One invocation performs one operation start to finish; every
// external call is sequential and any failure aborts the operation.
type SyncService struct {
	git    GitRepo
	tables TableStore
	svcctl ServiceController
	fs     Filesystem
	snaps  SnapshotStore // nil when snapshots are disabled
	logger Logger
	clock  Clock
	paths  Paths
	nodeID string
}

// PushResult reports the outcome of a push.
type PushResult struct {
	// NoOp is true when the remote already matched local state and nothing
	// was committed or pushed.
	NoOp bool

	// Message is the generated commit message, empty on a no-op.
	Message string
}

// PullResult reports the outcome of a pull.
type PullResult struct {
	// NoOp is true when the remote had no commits the local history lacked.
	NoOp bool

	// Commits is the number of remote commits that were applied.
	Commits int
}

// NewSyncService creates a SyncService with the provided dependencies.
// snaps may be nil to disable pre-import database snapshots.
func NewSyncService(git GitRepo, tables TableStore, svcctl ServiceController, fs Filesystem, snaps SnapshotStore, logger Logger, clock Clock, paths Paths, nodeID string) *SyncService {
	return &SyncService{
		git:    git,
		tables: tables,
		svcctl: svcctl,
		fs:     fs,
		snaps:  snaps,
		logger: logger,
		clock:  clock,
		paths:  paths,
		nodeID: nodeID,
	}
}

// InitPush prepares a primary node's working copy for its first push: the
// appliance-native files are created if absent, the full snapshot is written
// into the working copy, and everything is staged. Nothing is committed or
// pushed; that is deferred to the first explicit push.
func (s *SyncService) InitPush(ctx context.Context) error {
	if err := s.checkDirs(); err != nil {
		return err
	}

	// The appliance may never have written these files.
	if err := s.fs.EnsureFile(filepath.Join(s.paths.ApplianceDir, CustomListFile)); err != nil {
		return fmt.Errorf("ensuring %s: %w", CustomListFile, err)
	}
	if err := s.fs.EnsureFile(filepath.Join(s.paths.SnippetDir, CNAMEConfFile)); err != nil {
		return fmt.Errorf("ensuring %s: %w", CNAMEConfFile, err)
	}

	if err := s.collect(ctx); err != nil {
		return err
	}

	if err := s.git.StageAll(ctx); err != nil {
		return fmt.Errorf("staging snapshot: %w", err)
	}

	s.logger.Info("first snapshot staged", "workdir", s.paths.WorkDir)
	return nil
}

// InitPull seeds a secondary node from an existing remote snapshot: the
// working copy is reset to the remote's latest state and the snapshot is
// applied to the appliance. The rebuild hook is expected to restart the
// stopped resolver.
func (s *SyncService) InitPull(ctx context.Context) error {
	if err := s.checkDirs(); err != nil {
		return err
	}

	if err := s.git.FetchAll(ctx); err != nil {
		return fmt.Errorf("fetching remote history: %w", err)
	}
	if err := s.git.HardReset(ctx); err != nil {
		return fmt.Errorf("resetting working copy: %w", err)
	}

	if err := s.apply(ctx); err != nil {
		return err
	}

	s.logger.Info("appliance seeded from remote snapshot", "node", s.nodeID)
	return nil
}

// Push regenerates the snapshot from current appliance state and, if it
// differs from the remote snapshot, commits and pushes it.
//
// Files are always regenerated before the diff is computed so a push reflects
// the current appliance state, never a stale working-copy snapshot.
func (s *SyncService) Push(ctx context.Context) (PushResult, error) {
	if err := s.checkDirs(); err != nil {
		return PushResult{}, err
	}

	// COLLECTING: unconditional full overwrite of the snapshot files.
	if err := s.collect(ctx); err != nil {
		return PushResult{}, err
	}

	// COMPARING: refresh remote-tracking metadata, then content-diff the
	// working copy against the remote snapshot.
	if err := s.git.RemoteUpdate(ctx); err != nil {
		return PushResult{}, fmt.Errorf("updating remote metadata: %w", err)
	}

	changed, err := s.git.HasLocalChanges(ctx)
	if err != nil {
		return PushResult{}, fmt.Errorf("comparing against remote: %w", err)
	}
	if !changed {
		s.logger.Info("push is a no-op, remote matches local")
		return PushResult{NoOp: true}, nil
	}

	message := fmt.Sprintf("list snapshot from %s at %s", s.nodeID, s.clock.Now().UTC().Format("2006-01-02 15:04:05 UTC"))

	if err := s.git.StageAll(ctx); err != nil {
		return PushResult{}, fmt.Errorf("staging changes: %w", err)
	}
	if err := s.git.Commit(ctx, message); err != nil {
		return PushResult{}, fmt.Errorf("committing changes: %w", err)
	}
	if err := s.git.Push(ctx); err != nil {
		return PushResult{}, fmt.Errorf("pushing to remote: %w", err)
	}

	s.logger.Info("pushed snapshot", "message", message)
	return PushResult{Message: message}, nil
}

// Pull applies remote commits to the local appliance. The no-op check is
// history-based (the remote must have commits local history lacks), unlike
// push's content-based check; an uncommitted local edit does not trigger a
// pull on its own.
func (s *SyncService) Pull(ctx context.Context) (PullResult, error) {
	if err := s.checkDirs(); err != nil {
		return PullResult{}, err
	}

	// CHECKING
	if err := s.git.RemoteUpdate(ctx); err != nil {
		return PullResult{}, fmt.Errorf("updating remote metadata: %w", err)
	}

	behind, err := s.git.CommitsBehindRemote(ctx)
	if err != nil {
		return PullResult{}, fmt.Errorf("checking remote history: %w", err)
	}
	if behind == 0 {
		s.logger.Info("pull is a no-op, local matches remote")
		return PullResult{NoOp: true}, nil
	}

	// FETCHING_AND_APPLYING
	if err := s.git.FetchAll(ctx); err != nil {
		return PullResult{}, fmt.Errorf("fetching remote history: %w", err)
	}
	if err := s.git.HardReset(ctx); err != nil {
		return PullResult{}, fmt.Errorf("resetting working copy: %w", err)
	}

	if err := s.apply(ctx); err != nil {
		return PullResult{}, err
	}

	s.logger.Info("applied remote snapshot", "commits", behind)
	return PullResult{Commits: behind}, nil
}

// checkDirs verifies the fixed directories exist before any side effect.
// A missing directory is fatal and never retried.
func (s *SyncService) checkDirs() error {
	for _, dir := range []string{s.paths.ApplianceDir, s.paths.SnippetDir, s.paths.WorkDir} {
		ok, err := s.fs.DirExists(dir)
		if err != nil {
			return fmt.Errorf("checking directory %s: %w", dir, err)
		}
		if !ok {
			return fmt.Errorf("required directory missing: %s", dir)
		}
	}
	return nil
}

// collect regenerates the working-copy snapshot from appliance state: both
// appliance-native files are copied in and both tables are exported.
func (s *SyncService) collect(ctx context.Context) error {
	copies := []struct{ src, dst string }{
		{filepath.Join(s.paths.ApplianceDir, CustomListFile), filepath.Join(s.paths.WorkDir, CustomListFile)},
		{filepath.Join(s.paths.SnippetDir, CNAMEConfFile), filepath.Join(s.paths.WorkDir, CNAMEConfFile)},
	}
	for _, c := range copies {
		if err := s.fs.CopyFile(c.src, c.dst); err != nil {
			return fmt.Errorf("copying %s into working copy: %w", filepath.Base(c.src), err)
		}
	}

	exports := []struct{ table, file string }{
		{AdlistTable, AdlistExport},
		{DomainlistTable, DomainlistExport},
	}
	for _, e := range exports {
		if err := s.exportTable(ctx, e.table, filepath.Join(s.paths.WorkDir, e.file)); err != nil {
			return err
		}
	}

	return nil
}

// apply transfers the working-copy snapshot into the appliance: the resolver
// is stopped, the native files are overwritten, the tables are dropped and
// reimported, and the rebuild hook regenerates derived lists. The rebuild
// hook is responsible for restarting the resolver.
func (s *SyncService) apply(ctx context.Context) error {
	if err := s.snapshotDatabase(ctx); err != nil {
		return fmt.Errorf("snapshotting database before import: %w", err)
	}

	if err := s.svcctl.StopResolver(ctx); err != nil {
		return fmt.Errorf("stopping resolver: %w", err)
	}

	copies := []struct{ src, dst string }{
		{filepath.Join(s.paths.WorkDir, CustomListFile), filepath.Join(s.paths.ApplianceDir, CustomListFile)},
		{filepath.Join(s.paths.WorkDir, CNAMEConfFile), filepath.Join(s.paths.SnippetDir, CNAMEConfFile)},
	}
	for _, c := range copies {
		if err := s.fs.CopyFile(c.src, c.dst); err != nil {
			return fmt.Errorf("copying %s out of working copy: %w", filepath.Base(c.src), err)
		}
	}

	imports := []struct{ table, file string }{
		{AdlistTable, AdlistExport},
		{DomainlistTable, DomainlistExport},
	}
	for _, i := range imports {
		if err := s.importTable(ctx, i.table, filepath.Join(s.paths.WorkDir, i.file)); err != nil {
			return err
		}
	}

	if err := s.svcctl.RebuildLists(ctx); err != nil {
		return fmt.Errorf("rebuilding lists: %w", err)
	}

	return nil
}

// snapshotDatabase archives the appliance database before a destructive
// import. Disabled when no snapshot store is configured.
func (s *SyncService) snapshotDatabase(ctx context.Context) error {
	if s.snaps == nil {
		return nil
	}

	f, err := s.fs.Open(s.paths.DatabasePath)
	if err != nil {
		return fmt.Errorf("opening database file: %w", err)
	}
	defer f.Close()

	name := fmt.Sprintf("%s-%s.db", s.nodeID, s.clock.Now().UTC().Format("20060102T150405Z"))
	if err := s.snaps.PutSnapshot(ctx, name, f); err != nil {
		return err
	}

	s.logger.Info("database snapshot stored", "name", name)
	return nil
}

func (s *SyncService) exportTable(ctx context.Context, table, path string) error {
	w, err := s.fs.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file for %s: %w", table, err)
	}

	if err := s.tables.ExportTable(ctx, table, w); err != nil {
		w.Close()
		return fmt.Errorf("exporting table %s: %w", table, err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("closing export file for %s: %w", table, err)
	}
	return nil
}

func (s *SyncService) importTable(ctx context.Context, table, path string) error {
	r, err := s.fs.Open(path)
	if err != nil {
		return fmt.Errorf("opening export file for %s: %w", table, err)
	}
	defer r.Close()

	if err := s.tables.ImportTable(ctx, table, r); err != nil {
		return fmt.Errorf("importing table %s: %w", table, err)
	}
	return nil
}
