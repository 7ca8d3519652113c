package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"blocksync/internal/backup"
	"blocksync/internal/blocksync"
	"blocksync/internal/config"
	"blocksync/internal/database"
	"blocksync/internal/encryption"
	"blocksync/internal/fs"
	"blocksync/internal/gitrepo"
	"blocksync/internal/service"
)

// App is the application layer between the CLI and SyncService.
// It constructs all dependencies from config and manages their lifecycle
// on Close.
type App struct {
	cfg     *config.Config
	tables  blocksync.TableStore
	service *blocksync.SyncService
	logFile *os.File
}

// New creates a fully wired App from the given config.
// The caller must call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	filesystem := fs.NewOSFilesystem()

	repo, err := gitrepo.Open(gitrepo.Options{
		Workdir:     cfg.WorkDir,
		Remote:      cfg.Git.Remote,
		Branch:      cfg.Git.Branch,
		AuthorName:  cfg.Git.AuthorName,
		AuthorEmail: cfg.Git.AuthorEmail,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sync repository: %w", err)
	}

	tables, err := database.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening list database: %w", err)
	}

	svcctl := service.NewExecController(cfg.Service.StopCommand, cfg.Service.RebuildCommand)

	snaps, err := backup.NewStoreFromConfig(ctx, cfg.Backup)
	if err != nil {
		tables.Close()
		return nil, fmt.Errorf("creating snapshot store: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		tables.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}
	if snaps != nil && enc != nil {
		snaps = backup.NewEncryptedStore(snaps, enc)
	}

	if snaps != nil {
		if err := snaps.ValidateSetup(ctx); err != nil {
			tables.Close()
			return nil, fmt.Errorf("validating snapshot store: %w", err)
		}
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		tables.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	paths := blocksync.Paths{
		ApplianceDir: cfg.ApplianceDir,
		SnippetDir:   cfg.SnippetDir,
		WorkDir:      cfg.WorkDir,
		DatabasePath: cfg.DatabasePath,
	}

	svc := blocksync.NewSyncService(repo, tables, svcctl, filesystem, snaps,
		&slogAdapter{l: logger}, blocksync.RealClock{}, paths, cfg.NodeID)

	return &App{
		cfg:     cfg,
		tables:  tables,
		service: svc,
		logFile: logFile,
	}, nil
}

// InitPush seeds the work directory from the appliance and stages the first snapshot.
func (a *App) InitPush(ctx context.Context) error {
	return a.service.InitPush(ctx)
}

// InitPull replaces the local appliance state with the remote snapshot.
func (a *App) InitPull(ctx context.Context) error {
	return a.service.InitPull(ctx)
}

// Push collects local appliance state and publishes it if it differs from the remote.
func (a *App) Push(ctx context.Context) (blocksync.PushResult, error) {
	return a.service.Push(ctx)
}

// Pull applies the remote snapshot if the local clone is behind.
func (a *App) Pull(ctx context.Context) (blocksync.PullResult, error) {
	return a.service.Pull(ctx)
}

// Close releases all resources held by the App.
func (a *App) Close() error {
	var firstErr error

	if err := a.tables.Close(); err != nil {
		firstErr = fmt.Errorf("closing list database: %w", err)
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
