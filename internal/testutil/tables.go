package testutil

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"blocksync/internal/blocksync"
)

// FakeTableStore is an in-memory blocksync.TableStore. Each table is held as
// CSV records, header row first.
type FakeTableStore struct {
	Tables map[string][][]string

	ExportErr error
	ImportErr error

	// ImportedTables records the tables replaced by ImportTable, in order.
	ImportedTables []string

	Closed bool
}

// NewFakeTableStore creates a FakeTableStore seeded with the given tables.
func NewFakeTableStore(tables map[string][][]string) *FakeTableStore {
	if tables == nil {
		tables = make(map[string][][]string)
	}
	return &FakeTableStore{Tables: tables}
}

func (s *FakeTableStore) ExportTable(_ context.Context, table string, w io.Writer) error {
	if s.ExportErr != nil {
		return s.ExportErr
	}
	records, ok := s.Tables[table]
	if !ok {
		return fmt.Errorf("no such table: %s", table)
	}
	cw := csv.NewWriter(w)
	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *FakeTableStore) ImportTable(_ context.Context, table string, r io.Reader) error {
	if s.ImportErr != nil {
		return s.ImportErr
	}
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return err
	}
	s.Tables[table] = records
	s.ImportedTables = append(s.ImportedTables, table)
	return nil
}

func (s *FakeTableStore) Close() error {
	s.Closed = true
	return nil
}

// Compile-time check
var _ blocksync.TableStore = (*FakeTableStore)(nil)
