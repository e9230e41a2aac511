package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is an ingest request body.
//
// Two forms are accepted. The values form carries an ordered cell array
// (with optional caller-supplied headers for first-ingest provisioning).
// The legacy form has no values array and uses named scalar fields instead;
// it is kept for old front-end builds that predate the array protocol.
type Payload struct {
	Headers []string `json:"headers,omitempty"`
	Values  []any    `json:"values,omitempty"`
	Hash    string   `json:"hash,omitempty"`

	// Legacy fixed-field form.
	Timestamp  any `json:"timestamp,omitempty"`
	Role       any `json:"role,omitempty"`
	Func       any `json:"func,omitempty"`
	Experience any `json:"experience,omitempty"`
	TeamSize   any `json:"teamSize,omitempty"`
	Industry   any `json:"industry,omitempty"`
	OrgSize    any `json:"orgSize,omitempty"`
	Region     any `json:"region,omitempty"`
}

// HasValues reports whether the payload uses the values form. An empty
// values array still counts - only a missing field selects the legacy path.
func (p *Payload) HasValues() bool {
	return p.Values != nil
}

// legacyValue returns the legacy field for a stable key, or nil.
// Timestamp and hash are handled by the row builder, not here.
func (p *Payload) legacyValue(key string) any {
	switch key {
	case "role":
		return p.Role
	case "func":
		return p.Func
	case "experience":
		return p.Experience
	case "teamSize":
		return p.TeamSize
	case "industry":
		return p.Industry
	case "orgSize":
		return p.OrgSize
	case "region":
		return p.Region
	default:
		return nil
	}
}

// ParsePayload decodes an ingest body. Numbers are decoded as json.Number
// so the caller's textual form survives into the stored cell ("42" stays
// "42", not "42.000000"). Cell values must be scalars.
func ParsePayload(body []byte) (*Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var p Payload
	if err := dec.Decode(&p); err != nil {
		return nil, wrapOpError(ErrCodePayloadParse, "malformed submission payload", err)
	}

	for i, v := range p.Values {
		if !isScalar(v) {
			return nil, newOpError(ErrCodePayloadParse,
				fmt.Sprintf("values[%d] is not a scalar", i))
		}
	}

	return &p, nil
}

// isScalar reports whether a decoded JSON value is a cell-storable scalar.
func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, json.Number:
		return true
	default:
		return false
	}
}
