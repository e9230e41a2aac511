package sheet

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// SQLiteStore is the durable Store implementation. It stands in for the
// spreadsheet the original system persisted to.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	// to avoid SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Table returns the named table, or ErrTableNotFound.
func (s *SQLiteStore) Table(ctx context.Context, name string) (*Table, error) {
	var (
		id     int64
		frozen bool
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, frozen_header FROM sheets WHERE name = ?`, name,
	).Scan(&id, &frozen)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup table %q: %w", name, err)
	}

	headers, err := s.readHeaders(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lookup table %q: %w", name, err)
	}

	return &Table{Name: name, Headers: headers, Frozen: frozen}, nil
}

// CreateTable creates the named table with the given header row. The
// header cells are marked bold and the header row frozen - presentation
// flags recorded alongside the schema so a rendering backend can honor
// them.
func (s *SQLiteStore) CreateTable(ctx context.Context, name string, headers []string) (*Table, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("create table %q: empty header row", name)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("create table %q: begin tx: %w", name, err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO sheets (name, frozen_header)
		VALUES (?, 1)
		ON CONFLICT(name) DO NOTHING
	`, name)
	if err != nil {
		return nil, fmt.Errorf("create table %q: insert: %w", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("create table %q: rows affected: %w", name, err)
	}
	if affected == 0 {
		return nil, ErrTableExists
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("create table %q: last insert id: %w", name, err)
	}

	for i, h := range headers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sheet_columns (sheet_id, idx, name, bold)
			VALUES (?, ?, ?, 1)
		`, id, i, h); err != nil {
			return nil, fmt.Errorf("create table %q: insert column %d: %w", name, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("create table %q: commit: %w", name, err)
	}

	out := make([]string, len(headers))
	copy(out, headers)
	return &Table{Name: name, Headers: out, Frozen: true}, nil
}

// AppendRow appends a data row to the named table.
func (s *SQLiteStore) AppendRow(ctx context.Context, name string, row Row) error {
	id, err := s.sheetID(ctx, name)
	if err != nil {
		return err
	}

	cells, err := json.Marshal([]string(row))
	if err != nil {
		return fmt.Errorf("append row to %q: marshal cells: %w", name, err)
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO sheet_rows (sheet_id, cells)
		VALUES (?, ?)
	`, id, string(cells)); err != nil {
		return fmt.Errorf("append row to %q: %w", name, err)
	}

	return nil
}

// ReadAll returns the header row and every data row in insertion order.
func (s *SQLiteStore) ReadAll(ctx context.Context, name string) ([]string, []Row, error) {
	id, err := s.sheetID(ctx, name)
	if err != nil {
		return nil, nil, err
	}

	headers, err := s.readHeaders(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("read table %q: %w", name, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT cells FROM sheet_rows
		WHERE sheet_id = ?
		ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("read table %q: %w", name, err)
	}
	defer rows.Close()

	data := []Row{}
	for rows.Next() {
		var cells string
		if err := rows.Scan(&cells); err != nil {
			return nil, nil, fmt.Errorf("read table %q: scan: %w", name, err)
		}
		var row Row
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return nil, nil, fmt.Errorf("read table %q: unmarshal cells: %w", name, err)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("read table %q: iterate: %w", name, err)
	}

	return headers, data, nil
}

// ReadCell returns the cell at (row, col) over the data rows.
func (s *SQLiteStore) ReadCell(ctx context.Context, name string, row, col int) (string, error) {
	_, cells, err := s.dataRow(ctx, name, row)
	if err != nil {
		return "", err
	}
	if col < 0 || col >= len(cells) {
		return "", ErrCellOutOfRange
	}
	return cells[col], nil
}

// WriteCell overwrites the cell at (row, col) over the data rows.
func (s *SQLiteStore) WriteCell(ctx context.Context, name string, row, col int, value string) error {
	rowID, cells, err := s.dataRow(ctx, name, row)
	if err != nil {
		return err
	}
	if col < 0 || col >= len(cells) {
		return ErrCellOutOfRange
	}

	cells[col] = value
	encoded, err := json.Marshal([]string(cells))
	if err != nil {
		return fmt.Errorf("write cell in %q: marshal cells: %w", name, err)
	}

	if _, err := s.db.ExecContext(ctx, `
		UPDATE sheet_rows SET cells = ? WHERE id = ?
	`, string(encoded), rowID); err != nil {
		return fmt.Errorf("write cell in %q: %w", name, err)
	}

	return nil
}

// sheetID resolves a table name to its catalog id.
func (s *SQLiteStore) sheetID(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM sheets WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrTableNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup table %q: %w", name, err)
	}
	return id, nil
}

// readHeaders returns the header row for a sheet id, ordered by column index.
func (s *SQLiteStore) readHeaders(ctx context.Context, sheetID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM sheet_columns
		WHERE sheet_id = ?
		ORDER BY idx ASC
	`, sheetID)
	if err != nil {
		return nil, fmt.Errorf("query columns: %w", err)
	}
	defer rows.Close()

	var headers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan column: %w", err)
		}
		headers = append(headers, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns: %w", err)
	}

	return headers, nil
}

// dataRow fetches the nth data row (zero-based, insertion order) and its
// storage id.
func (s *SQLiteStore) dataRow(ctx context.Context, name string, row int) (int64, Row, error) {
	if row < 0 {
		return 0, nil, ErrCellOutOfRange
	}

	id, err := s.sheetID(ctx, name)
	if err != nil {
		return 0, nil, err
	}

	var (
		rowID   int64
		encoded string
	)
	err = s.db.QueryRowContext(ctx, `
		SELECT id, cells FROM sheet_rows
		WHERE sheet_id = ?
		ORDER BY id ASC
		LIMIT 1 OFFSET ?
	`, id, row).Scan(&rowID, &encoded)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil, ErrCellOutOfRange
	}
	if err != nil {
		return 0, nil, fmt.Errorf("read row %d of %q: %w", row, name, err)
	}

	var cells Row
	if err := json.Unmarshal([]byte(encoded), &cells); err != nil {
		return 0, nil, fmt.Errorf("read row %d of %q: unmarshal cells: %w", row, name, err)
	}

	return rowID, cells, nil
}
