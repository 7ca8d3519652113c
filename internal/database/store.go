// Package database implements the table store against the appliance's
// SQLite database.
package database

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"blocksync/internal/blocksync"
)

// identPattern restricts table and column names to plain identifiers.
// Names are interpolated into SQL text, so anything else is rejected.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteStore implements the blocksync.TableStore port.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ blocksync.TableStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens the appliance database at path.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// OpenConnection opens and configures a SQLite connection with appropriate
// PRAGMAs. Exported for tools and tests that need a configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The resolver may still hold the database when a sync starts.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// ExportTable writes the full table as CSV to w: a header row with the
// SELECT * column order, then one row per record. NULL serializes as an
// empty string, matching the flat-file format pulls import from.
func (s *SQLiteStore) ExportTable(ctx context.Context, table string, w io.Writer) error {
	if err := validateIdent(table); err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("reading columns of %s: %w", table, err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	raw := make([]sql.RawBytes, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	record := make([]string, len(cols))
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return fmt.Errorf("scanning row of %s: %w", table, err)
		}
		for i, v := range raw {
			record[i] = string(v)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating %s: %w", table, err)
	}

	cw.Flush()
	return cw.Error()
}

// ImportTable drops the table and recreates it from the CSV read from r.
// Columns come from the header row and are created as TEXT, the same shape a
// flat-file import produces. The whole import runs in one transaction.
func (s *SQLiteStore) ImportTable(ctx context.Context, table string, r io.Reader) error {
	if err := validateIdent(table); err != nil {
		return err
	}

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return fmt.Errorf("import of %s: export has no header row", table)
	}
	if err != nil {
		return fmt.Errorf("reading header for %s: %w", table, err)
	}
	for _, col := range header {
		if err := validateIdent(col); err != nil {
			return fmt.Errorf("import of %s: %w", table, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
		return fmt.Errorf("dropping %s: %w", table, err)
	}

	defs := make([]string, len(header))
	for i, col := range header {
		defs[i] = fmt.Sprintf("%q TEXT", col)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("recreating %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(header)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	args := make([]any, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading row for %s: %w", table, err)
		}
		for i, v := range record {
			args[i] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("inserting row into %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing import of %s: %w", table, err)
	}
	return nil
}

// DB exposes the underlying connection for migrations and tests.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func validateIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}
