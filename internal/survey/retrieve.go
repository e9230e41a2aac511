package survey

import (
	"context"
	"errors"
	"fmt"

	"github.com/surveyforge/surveyd/internal/schema"
	"github.com/surveyforge/surveyd/internal/sheet"
)

// ActionGetAll is the only recognized retrieve action. An empty action
// defaults to it.
const ActionGetAll = "getAll"

// Submission is one retrieved row: stable output key -> coerced scalar.
type Submission map[string]any

// Retrieve returns every stored submission in insertion order, oldest
// first. Headers are mapped through the rename table (unmapped headers
// pass through as keys) and cells are coerced per the boolean/numeric
// rules. A missing or empty table yields an empty, non-nil slice.
func (s *Service) Retrieve(ctx context.Context, action string) ([]Submission, error) {
	if action != "" && action != ActionGetAll {
		return nil, newOpError(ErrCodeUnknownAction, fmt.Sprintf("unknown action %q", action))
	}

	headers, rows, err := s.store.ReadAll(ctx, s.def.Table)
	if errors.Is(err, sheet.ErrTableNotFound) {
		return []Submission{}, nil
	}
	if err != nil {
		return nil, wrapOpError(ErrCodeStoreAccess, "read submissions table", err)
	}

	out := make([]Submission, 0, len(rows))
	for _, row := range rows {
		sub := make(Submission, len(headers))
		for i, h := range headers {
			if i >= len(row) {
				break
			}
			sub[s.def.Key(h)] = schema.CoerceCell(row[i])
		}
		out = append(out, sub)
	}

	return out, nil
}
