package testutil

import (
	"testing"

	"blocksync/internal/database"
	"blocksync/internal/database/migrations"
)

// NewTestStore creates an in-memory SQLite table store with the list schema
// applied. The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) *database.SQLiteStore {
	t.Helper()

	db, err := database.OpenConnection(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// Every pooled connection gets its own in-memory database; keep one.
	db.SetMaxOpenConns(1)

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		t.Fatalf("failed to apply schema: %v", err)
	}

	store := database.NewSQLiteStoreFromDB(db)

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
