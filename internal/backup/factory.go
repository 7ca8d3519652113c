// Package backup provides snapshot stores that archive the appliance
// database before a destructive table reimport.
package backup

import (
	"context"
	"fmt"

	"blocksync/internal/blocksync"
	"blocksync/internal/config"
)

// NewStoreFromConfig creates a SnapshotStore based on the backup config type.
// Type "none" returns nil: snapshots disabled.
func NewStoreFromConfig(ctx context.Context, cfg config.BackupConfig) (blocksync.SnapshotStore, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("filesystem backup requires dir to be set")
		}
		return NewFileSystemStore(cfg.Dir)
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 backup requires s3_bucket to be set")
		}
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown backup type: %s", cfg.Type)
	}
}
