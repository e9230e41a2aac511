package survey

import (
	"context"
	"fmt"
	"time"

	"github.com/surveyforge/surveyd/internal/schema"
	"github.com/surveyforge/surveyd/internal/sheet"
)

// Outcome is the result of a successful ingest.
type Outcome string

const (
	// OutcomeOK means the row was appended.
	OutcomeOK Outcome = StatusOK

	// OutcomeDuplicate means a row with the same hash already exists
	// and nothing was appended. A normal outcome, not an error.
	OutcomeDuplicate Outcome = StatusDuplicate
)

// Ingest processes one submission body: parse, provision the table on
// first use, skip duplicates by hash, build and append the row.
//
// The duplicate scan is linear over the existing rows - fine at survey
// scale; high-volume callers should swap in an indexed lookup. Two
// concurrent ingests with the same hash can both pass the scan and both
// append; that race is accepted, not guarded.
func (s *Service) Ingest(ctx context.Context, body []byte) (Outcome, error) {
	payload, err := ParsePayload(body)
	if err != nil {
		return "", err
	}

	table, err := s.EnsureTable(ctx, payload.Headers)
	if err != nil {
		return "", err
	}

	if payload.Hash != "" {
		dup, err := s.hashExists(ctx, table, payload.Hash)
		if err != nil {
			return "", err
		}
		if dup {
			return OutcomeDuplicate, nil
		}
	}

	row, err := s.buildRow(table, payload)
	if err != nil {
		return "", err
	}

	if err := s.store.AppendRow(ctx, table.Name, row); err != nil {
		return "", wrapOpError(ErrCodeStoreAccess, "append submission row", err)
	}

	return OutcomeOK, nil
}

// hashExists scans the table's Hash column top to bottom for the given
// hash. A table without a Hash column never matches.
func (s *Service) hashExists(ctx context.Context, table *sheet.Table, hash string) (bool, error) {
	col := hashColumn(table.Headers)
	if col < 0 {
		return false, nil
	}

	_, rows, err := s.store.ReadAll(ctx, table.Name)
	if err != nil {
		return false, wrapOpError(ErrCodeStoreAccess, "scan hash column", err)
	}

	for _, row := range rows {
		if col < len(row) && row[col] == hash {
			return true, nil
		}
	}
	return false, nil
}

// buildRow constructs the cell row for a payload against the table's
// header row.
//
// Values form: the cells are the encoded values. A row already as wide as
// the header is trusted as-is (hash included by the caller). Otherwise the
// payload hash lands in the trailing Hash column, with empty cells padding
// the gap in between, so dedup stays sound however narrow the payload is.
// A row wider than the header is rejected rather than appended misaligned.
//
// Legacy form: a fixed 9-cell row in the configured field order, timestamp
// first and hash last, then the same alignment against the header row.
func (s *Service) buildRow(table *sheet.Table, payload *Payload) (sheet.Row, error) {
	headers := table.Headers

	if payload.HasValues() {
		row := make(sheet.Row, 0, len(headers))
		for _, v := range payload.Values {
			row = append(row, schema.EncodeCell(v))
		}
		if len(row) == len(headers) {
			// Already includes the hash cell; trust the caller.
			return row, nil
		}
		return alignRow(headers, row, payload.Hash)
	}

	legacy := s.buildLegacyRow(payload)
	if len(legacy) == len(headers) {
		return legacy, nil
	}
	// Re-align against a wider header row: everything but the trailing
	// hash cell keeps its position, the hash moves to the Hash column.
	return alignRow(headers, legacy[:len(legacy)-1], payload.Hash)
}

// buildLegacyRow constructs the fixed-order row for a legacy payload.
// Absent fields become empty cells.
func (s *Service) buildLegacyRow(payload *Payload) sheet.Row {
	row := make(sheet.Row, 0, len(s.def.LegacyFields))
	for _, field := range s.def.LegacyFields {
		switch key := s.def.Key(field); key {
		case "timestamp":
			row = append(row, s.timestamp(payload))
		case "hash":
			row = append(row, payload.Hash)
		default:
			row = append(row, schema.EncodeCell(payload.legacyValue(key)))
		}
	}
	return row
}

// timestamp returns the payload's own timestamp when present, else the
// clock's current time in RFC 3339 UTC.
func (s *Service) timestamp(payload *Payload) string {
	if payload.Timestamp != nil {
		return schema.EncodeCell(payload.Timestamp)
	}
	return s.clock.Now().UTC().Format(time.RFC3339)
}

// alignRow fits a hashless cell row to the header row. Rows wider than the
// header are rejected; shorter rows are padded with empty cells, keeping
// the hash (possibly empty) in the trailing Hash column when there is one.
func alignRow(headers []string, cells sheet.Row, hash string) (sheet.Row, error) {
	width := len(headers)
	hasHashColumn := width > 0 && headers[width-1] == schema.HashColumn

	limit := width
	if hasHashColumn {
		limit = width - 1
	}
	if len(cells) > limit {
		return nil, newOpError(ErrCodeRowMismatch,
			fmt.Sprintf("row has %d values for %d columns", len(cells), width))
	}

	row := make(sheet.Row, 0, width)
	row = append(row, cells...)
	for len(row) < limit {
		row = append(row, "")
	}
	if hasHashColumn {
		row = append(row, hash)
	}
	return row, nil
}

// hashColumn returns the index of the Hash column, or -1.
func hashColumn(headers []string) int {
	for i, h := range headers {
		if h == schema.HashColumn {
			return i
		}
	}
	return -1
}
