package blocksync

import (
	"context"
	"io"
)

// TableStore provides tabular export/import against the appliance database.
type TableStore interface {
	// ExportTable writes the full table as CSV (header row, then one row
	// per record, SELECT * column order) to w.
	ExportTable(ctx context.Context, table string, w io.Writer) error

	// ImportTable drops the table and recreates it from the CSV read from r.
	// The import is a full replace, never a merge.
	ImportTable(ctx context.Context, table string, r io.Reader) error

	// Close closes the underlying database connection.
	Close() error
}
