package survey

import (
	"context"
	"errors"

	"github.com/surveyforge/surveyd/internal/schema"
	"github.com/surveyforge/surveyd/internal/sheet"
)

// EnsureTable returns the submissions table, creating it if it does not
// exist. An existing table is returned unchanged - its header row is never
// altered, no matter what headers a later payload supplies.
//
// On creation the header row is candidateHeaders + ["Hash"] when candidates
// are supplied (the Hash column is not doubled if the caller already ends
// with one), otherwise the built-in default header set. The store marks the
// header row bold and frozen.
func (s *Service) EnsureTable(ctx context.Context, candidateHeaders []string) (*sheet.Table, error) {
	table, err := s.store.Table(ctx, s.def.Table)
	if err == nil {
		return table, nil
	}
	if !errors.Is(err, sheet.ErrTableNotFound) {
		return nil, wrapOpError(ErrCodeStoreAccess, "look up submissions table", err)
	}

	headers := s.def.Headers
	if len(candidateHeaders) > 0 {
		headers = make([]string, 0, len(candidateHeaders)+1)
		headers = append(headers, candidateHeaders...)
		if headers[len(headers)-1] != schema.HashColumn {
			headers = append(headers, schema.HashColumn)
		}
	}

	table, err = s.store.CreateTable(ctx, s.def.Table, headers)
	if errors.Is(err, sheet.ErrTableExists) {
		// Lost a create race; the winner's header row stands.
		table, err = s.store.Table(ctx, s.def.Table)
	}
	if err != nil {
		return nil, wrapOpError(ErrCodeStoreAccess, "create submissions table", err)
	}

	return table, nil
}
