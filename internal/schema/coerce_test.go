package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerceCell(t *testing.T) {
	tests := []struct {
		cell string
		want any
	}{
		{"TRUE", true},
		{"Yes", true},
		{"FALSE", false},
		{"No", false},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"3.5", 3.5},
		{"abc", "abc"},
		{"", ""},
		{"yes", "yes"},   // coercion is exact-match, not case-folded
		{"true", "true"}, // lowercase booleans stay strings
		{"42abc", "42abc"},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceCell(tt.cell))
		})
	}
}

func TestEncodeCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"true", true, "TRUE"},
		{"false", false, "FALSE"},
		{"json number int", json.Number("42"), "42"},
		{"json number float", json.Number("3.50"), "3.50"},
		{"int64", int64(7), "7"},
		{"float64", 2.5, "2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeCell(tt.in))
		})
	}
}

func TestCoerceCell_RoundTripsEncodeCell(t *testing.T) {
	for _, v := range []any{true, false, int64(42), "plain text"} {
		assert.Equal(t, v, CoerceCell(EncodeCell(v)))
	}
}
