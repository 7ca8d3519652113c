package backup

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"blocksync/internal/blocksync"
)

// MemoryStore is an in-memory implementation of the SnapshotStore interface,
// useful for testing. It is safe for concurrent use.
type MemoryStore struct {
	snapshots map[string][]byte
	mu        sync.RWMutex
}

var _ blocksync.SnapshotStore = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string][]byte)}
}

// PutSnapshot stores the content read from r under name.
func (m *MemoryStore) PutSnapshot(ctx context.Context, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[name] = data
	return nil
}

// GetSnapshot retrieves a snapshot by name.
func (m *MemoryStore) GetSnapshot(ctx context.Context, name string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.snapshots[name]
	if !ok {
		return fmt.Errorf("snapshot not found: %s", name)
	}

	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ValidateSetup always succeeds for the in-memory store.
func (m *MemoryStore) ValidateSetup(ctx context.Context) error {
	return nil
}

// Names returns the stored snapshot names. Test helper.
func (m *MemoryStore) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.snapshots))
	for name := range m.snapshots {
		names = append(names, name)
	}
	return names
}
