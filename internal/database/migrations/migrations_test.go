package migrations_test

import (
	"testing"

	"blocksync/internal/database"
	"blocksync/internal/database/migrations"
)

func TestMigrateUp(t *testing.T) {
	t.Run("creates the list tables", func(t *testing.T) {
		db, err := database.OpenConnection(":memory:")
		if err != nil {
			t.Fatalf("opening database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		if err := migrations.MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}

		for _, table := range []string{"adlist", "domainlist"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
			if err != nil {
				t.Errorf("table %s not created: %v", table, err)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		db, err := database.OpenConnection(":memory:")
		if err != nil {
			t.Fatalf("opening database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		if err := migrations.MigrateUp(db); err != nil {
			t.Fatalf("first MigrateUp() error = %v", err)
		}
		if err := migrations.MigrateUp(db); err != nil {
			t.Fatalf("second MigrateUp() error = %v", err)
		}
	})

	t.Run("applies column defaults", func(t *testing.T) {
		db, err := database.OpenConnection(":memory:")
		if err != nil {
			t.Fatalf("opening database: %v", err)
		}
		defer db.Close()
		db.SetMaxOpenConns(1)

		if err := migrations.MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}

		if _, err := db.Exec("INSERT INTO adlist (address) VALUES ('https://ads.example/list.txt')"); err != nil {
			t.Fatalf("inserting row: %v", err)
		}

		var enabled int
		var dateAdded int64
		err = db.QueryRow("SELECT enabled, date_added FROM adlist WHERE address='https://ads.example/list.txt'").Scan(&enabled, &dateAdded)
		if err != nil {
			t.Fatalf("reading row: %v", err)
		}
		if enabled != 1 {
			t.Errorf("enabled default = %d, want 1", enabled)
		}
		if dateAdded == 0 {
			t.Error("date_added default not applied")
		}
	})
}
