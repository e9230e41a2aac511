package schema

import (
	"fmt"
)

// HashColumn is the reserved name of the deduplication column. It is always
// the last column of a provisioned header row.
const HashColumn = "Hash"

// legacyFieldCount is the fixed width of a legacy payload row.
const legacyFieldCount = 9

// Definition is the decoded table definition: the default header row, the
// header-to-key rename table, and the legacy field order.
type Definition struct {
	Table        string            `json:"table"`
	Headers      []string          `json:"headers"`
	Renames      map[string]string `json:"renames"`
	LegacyFields []string          `json:"legacyFields"`
}

// Key maps a sheet header to its stable output key. Headers not present in
// the rename table pass through unchanged.
func (d *Definition) Key(header string) string {
	if key, ok := d.Renames[header]; ok {
		return key
	}
	return header
}

// validate enforces the structural invariants the CUE constraints cannot
// express: header uniqueness, Hash placement, and the legacy row width.
func (d *Definition) validate() error {
	if d.Table == "" {
		return &LoadError{Code: ErrCodeInvalidDefinition, Message: "table name is empty"}
	}
	if len(d.Headers) == 0 {
		return &LoadError{Code: ErrCodeInvalidDefinition, Message: "header set is empty"}
	}

	seen := make(map[string]bool, len(d.Headers))
	for _, h := range d.Headers {
		if h == "" {
			return &LoadError{Code: ErrCodeInvalidDefinition, Message: "empty header name"}
		}
		if seen[h] {
			return &LoadError{Code: ErrCodeInvalidDefinition, Message: fmt.Sprintf("duplicate header %q", h)}
		}
		seen[h] = true
	}

	if last := d.Headers[len(d.Headers)-1]; last != HashColumn {
		return &LoadError{
			Code:    ErrCodeInvalidDefinition,
			Message: fmt.Sprintf("last header must be %q, got %q", HashColumn, last),
		}
	}

	if len(d.LegacyFields) != legacyFieldCount {
		return &LoadError{
			Code:    ErrCodeInvalidDefinition,
			Message: fmt.Sprintf("legacy field order must have %d entries, got %d", legacyFieldCount, len(d.LegacyFields)),
		}
	}
	if last := d.LegacyFields[len(d.LegacyFields)-1]; last != HashColumn {
		return &LoadError{
			Code:    ErrCodeInvalidDefinition,
			Message: fmt.Sprintf("last legacy field must be %q, got %q", HashColumn, last),
		}
	}

	return nil
}
