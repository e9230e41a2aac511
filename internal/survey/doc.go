// Package survey implements the two operations of the submission backend:
// ingest (dedup-by-hash append with lazy table provisioning) and retrieve
// (read-back with header renaming and scalar coercion).
//
// Both operations are pure functions of (payload, store): all state lives
// in the injected sheet.Store, and failures surface as typed OpErrors that
// the HTTP and CLI boundaries convert to JSON status payloads. Nothing
// panics past this package.
package survey
