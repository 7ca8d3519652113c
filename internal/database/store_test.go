package database_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"blocksync/internal/testutil"
)

func TestSQLiteStore_ExportTable(t *testing.T) {
	t.Run("writes header and rows in column order", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		ctx := context.Background()

		seed := strings.NewReader("id,address,enabled\n1,https://ads.example/list.txt,1\n2,https://more.example/hosts,0\n")
		if err := store.ImportTable(ctx, "adlist", seed); err != nil {
			t.Fatalf("ImportTable() error = %v", err)
		}

		var buf bytes.Buffer
		if err := store.ExportTable(ctx, "adlist", &buf); err != nil {
			t.Fatalf("ExportTable() error = %v", err)
		}

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		if len(lines) != 3 {
			t.Fatalf("export has %d lines, want 3:\n%s", len(lines), buf.String())
		}
		if lines[0] != "id,address,enabled" {
			t.Errorf("header = %q, want %q", lines[0], "id,address,enabled")
		}
		if lines[1] != "1,https://ads.example/list.txt,1" {
			t.Errorf("row 1 = %q", lines[1])
		}
	})

	t.Run("serializes NULL as empty string", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		ctx := context.Background()

		db := store.DB()
		if _, err := db.Exec("INSERT INTO adlist (address, enabled, comment) VALUES ('https://ads.example/l.txt', 1, NULL)"); err != nil {
			t.Fatalf("seeding row: %v", err)
		}

		var buf bytes.Buffer
		if err := store.ExportTable(ctx, "adlist", &buf); err != nil {
			t.Fatalf("ExportTable() error = %v", err)
		}

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		if len(lines) != 2 {
			t.Fatalf("export has %d lines, want 2:\n%s", len(lines), buf.String())
		}
		if !strings.HasSuffix(lines[1], ",") {
			t.Errorf("row with NULL comment = %q, want trailing empty field", lines[1])
		}
	})

	t.Run("empty table exports only the header", func(t *testing.T) {
		store := testutil.NewTestStore(t)

		var buf bytes.Buffer
		if err := store.ExportTable(context.Background(), "domainlist", &buf); err != nil {
			t.Fatalf("ExportTable() error = %v", err)
		}

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		if len(lines) != 1 {
			t.Fatalf("export has %d lines, want 1:\n%s", len(lines), buf.String())
		}
	})

	t.Run("rejects an invalid table name", func(t *testing.T) {
		store := testutil.NewTestStore(t)

		var buf bytes.Buffer
		err := store.ExportTable(context.Background(), "adlist; DROP TABLE adlist", &buf)
		if err == nil {
			t.Fatal("ExportTable() error = nil, want invalid identifier error")
		}
	})
}

func TestSQLiteStore_ImportTable(t *testing.T) {
	t.Run("replaces existing rows completely", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		ctx := context.Background()

		db := store.DB()
		if _, err := db.Exec("INSERT INTO domainlist (type, domain, enabled) VALUES (1, 'stale.example', 1)"); err != nil {
			t.Fatalf("seeding row: %v", err)
		}

		in := strings.NewReader("id,type,domain,enabled\n7,0,fresh.example,1\n")
		if err := store.ImportTable(ctx, "domainlist", in); err != nil {
			t.Fatalf("ImportTable() error = %v", err)
		}

		rows, err := db.Query("SELECT domain FROM domainlist")
		if err != nil {
			t.Fatalf("querying domainlist: %v", err)
		}
		defer rows.Close()

		var domains []string
		for rows.Next() {
			var d string
			if err := rows.Scan(&d); err != nil {
				t.Fatalf("scanning: %v", err)
			}
			domains = append(domains, d)
		}
		if len(domains) != 1 || domains[0] != "fresh.example" {
			t.Errorf("domains after import = %v, want [fresh.example]", domains)
		}
	})

	t.Run("round-trips an export byte for byte", func(t *testing.T) {
		store := testutil.NewTestStore(t)
		ctx := context.Background()

		seed := "id,address,enabled,comment\n1,https://ads.example/list.txt,1,migrated\n2,https://more.example/hosts,0,\n"
		if err := store.ImportTable(ctx, "adlist", strings.NewReader(seed)); err != nil {
			t.Fatalf("ImportTable() error = %v", err)
		}

		var first bytes.Buffer
		if err := store.ExportTable(ctx, "adlist", &first); err != nil {
			t.Fatalf("ExportTable() error = %v", err)
		}

		if err := store.ImportTable(ctx, "adlist", bytes.NewReader(first.Bytes())); err != nil {
			t.Fatalf("reimport error = %v", err)
		}

		var second bytes.Buffer
		if err := store.ExportTable(ctx, "adlist", &second); err != nil {
			t.Fatalf("second ExportTable() error = %v", err)
		}

		if first.String() != second.String() {
			t.Errorf("round trip diverged:\nfirst:\n%s\nsecond:\n%s", first.String(), second.String())
		}
	})

	t.Run("rejects input with no header row", func(t *testing.T) {
		store := testutil.NewTestStore(t)

		err := store.ImportTable(context.Background(), "adlist", strings.NewReader(""))
		if err == nil {
			t.Fatal("ImportTable() error = nil, want missing header error")
		}
	})

	t.Run("rejects an invalid column name", func(t *testing.T) {
		store := testutil.NewTestStore(t)

		in := strings.NewReader("id,bad name\n1,x\n")
		err := store.ImportTable(context.Background(), "adlist", in)
		if err == nil {
			t.Fatal("ImportTable() error = nil, want invalid identifier error")
		}
	})

	t.Run("rejects an invalid table name", func(t *testing.T) {
		store := testutil.NewTestStore(t)

		in := strings.NewReader("id\n1\n")
		err := store.ImportTable(context.Background(), "not a table", in)
		if err == nil {
			t.Fatal("ImportTable() error = nil, want invalid identifier error")
		}
	})
}
