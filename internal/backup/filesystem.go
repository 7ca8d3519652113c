package backup

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"blocksync/internal/blocksync"
)

// FileSystemStore keeps database snapshots as plain files under a root
// directory, one file per snapshot name.
type FileSystemStore struct {
	root string
}

var _ blocksync.SnapshotStore = (*FileSystemStore)(nil)

// NewFileSystemStore creates a store rooted at the given path.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// PutSnapshot stores the content read from r under name. The write is
// atomic: content goes to a temp file first and is renamed into place.
func (s *FileSystemStore) PutSnapshot(ctx context.Context, name string, r io.Reader) error {
	destPath := filepath.Join(s.root, name)

	tmpFile, err := os.CreateTemp(s.root, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// GetSnapshot retrieves a snapshot by name and writes it to w.
func (s *FileSystemStore) GetSnapshot(ctx context.Context, name string, w io.Writer) error {
	f, err := os.Open(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("snapshot not found: %s", name)
		}
		return fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	return nil
}

// ValidateSetup verifies that the root directory is accessible.
func (s *FileSystemStore) ValidateSetup(ctx context.Context) error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("snapshot root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot root is not a directory: %s", s.root)
	}
	return nil
}
