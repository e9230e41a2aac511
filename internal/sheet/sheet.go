package sheet

import (
	"context"
	"errors"
)

// Row is an ordered sequence of cell values, positionally aligned with the
// owning table's header row.
type Row []string

// Table describes an existing table: its name and header row. The header
// row is immutable for the lifetime of the table.
type Table struct {
	Name    string
	Headers []string
	// Frozen reports whether the header row is pinned as non-scrollable.
	// Presentation state, carried so substitute backends can render it.
	Frozen bool
}

// Sentinel errors returned by Store implementations.
var (
	ErrTableNotFound  = errors.New("table not found")
	ErrTableExists    = errors.New("table already exists")
	ErrCellOutOfRange = errors.New("cell out of range")
)

// Store is the row store collaborator. Implementations must preserve
// insertion order: ReadAll returns data rows oldest first.
type Store interface {
	// Table returns the named table, or ErrTableNotFound.
	Table(ctx context.Context, name string) (*Table, error)

	// CreateTable creates the named table with the given header row,
	// bold and frozen. Returns ErrTableExists if it already exists.
	CreateTable(ctx context.Context, name string, headers []string) (*Table, error)

	// AppendRow appends a data row. No position control, no updates.
	AppendRow(ctx context.Context, name string, row Row) error

	// ReadAll returns the header row and every data row in insertion
	// order. A table with no data rows yields an empty (non-nil) slice.
	ReadAll(ctx context.Context, name string) (headers []string, rows []Row, err error)

	// ReadCell returns the cell at (row, col), both zero-based over the
	// data rows (the header row is not addressable here).
	ReadCell(ctx context.Context, name string, row, col int) (string, error)

	// WriteCell overwrites the cell at (row, col).
	WriteCell(ctx context.Context, name string, row, col int, value string) error

	// Close releases the store's resources.
	Close() error
}
