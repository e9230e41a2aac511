package sheet

import (
	"context"
	"sync"
)

// MemStore is an in-memory Store for tests and ephemeral use. It mirrors
// the SQLite backend's semantics, including insertion-order reads.
//
// Thread-safety: all methods are safe for concurrent use via an internal
// mutex, matching what the durable backend provides.
type MemStore struct {
	mu     sync.Mutex
	tables map[string]*memTable
}

type memTable struct {
	headers []string
	rows    []Row
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tables: make(map[string]*memTable)}
}

// Table returns the named table, or ErrTableNotFound.
func (m *MemStore) Table(_ context.Context, name string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return nil, ErrTableNotFound
	}
	return &Table{Name: name, Headers: cloneCells(t.headers), Frozen: true}, nil
}

// CreateTable creates the named table with the given header row.
func (m *MemStore) CreateTable(_ context.Context, name string, headers []string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[name]; ok {
		return nil, ErrTableExists
	}
	m.tables[name] = &memTable{headers: cloneCells(headers)}
	return &Table{Name: name, Headers: cloneCells(headers), Frozen: true}, nil
}

// AppendRow appends a data row to the named table.
func (m *MemStore) AppendRow(_ context.Context, name string, row Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return ErrTableNotFound
	}
	t.rows = append(t.rows, Row(cloneCells(row)))
	return nil
}

// ReadAll returns the header row and every data row in insertion order.
func (m *MemStore) ReadAll(_ context.Context, name string) ([]string, []Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return nil, nil, ErrTableNotFound
	}

	rows := make([]Row, len(t.rows))
	for i, r := range t.rows {
		rows[i] = Row(cloneCells(r))
	}
	return cloneCells(t.headers), rows, nil
}

// ReadCell returns the cell at (row, col) over the data rows.
func (m *MemStore) ReadCell(_ context.Context, name string, row, col int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cells, err := m.dataRow(name, row)
	if err != nil {
		return "", err
	}
	if col < 0 || col >= len(cells) {
		return "", ErrCellOutOfRange
	}
	return cells[col], nil
}

// WriteCell overwrites the cell at (row, col) over the data rows.
func (m *MemStore) WriteCell(_ context.Context, name string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cells, err := m.dataRow(name, row)
	if err != nil {
		return err
	}
	if col < 0 || col >= len(cells) {
		return ErrCellOutOfRange
	}
	cells[col] = value
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemStore) Close() error { return nil }

func (m *MemStore) dataRow(name string, row int) (Row, error) {
	t, ok := m.tables[name]
	if !ok {
		return nil, ErrTableNotFound
	}
	if row < 0 || row >= len(t.rows) {
		return nil, ErrCellOutOfRange
	}
	return t.rows[row], nil
}

func cloneCells[S ~[]string](cells S) []string {
	out := make([]string, len(cells))
	copy(out, cells)
	return out
}
