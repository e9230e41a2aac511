// Package schema holds the static table definition for the Submissions
// sheet: the default header set, the header-to-key rename table used on
// retrieve, the fixed legacy field order, and the scalar coercion rules.
//
// The definition lives in an embedded CUE document (schema.cue) so the
// mapping literals are data, not conditionals scattered through the I/O
// path. An operator can overlay a replacement document at startup; the
// merged result is validated before use.
package schema
