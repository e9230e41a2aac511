package sheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets.db")
	ctx := context.Background()

	s1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open() failed: %v", err)
	}
	if _, err := s1.CreateTable(ctx, "Submissions", []string{"Role", "Hash"}); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}
	if err := s1.AppendRow(ctx, "Submissions", Row{"Engineer", "h1"}); err != nil {
		t.Fatalf("AppendRow() failed: %v", err)
	}
	s1.Close()

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer s2.Close()

	headers, rows, err := s2.ReadAll(ctx, "Submissions")
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(headers) != 2 || headers[0] != "Role" {
		t.Errorf("unexpected headers after reopen: %v", headers)
	}
	if len(rows) != 1 || rows[0][0] != "Engineer" {
		t.Errorf("unexpected rows after reopen: %v", rows)
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	if _, err := Open("/nonexistent/dir/sheets.db"); err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}
