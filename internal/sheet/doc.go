// Package sheet provides the tabular row store behind the survey backend.
//
// A table is a named header row plus append-only data rows. The store
// interface captures exactly the capabilities the ingest and retrieve
// operations need - get or create a table, append a row, read everything
// back in insertion order, touch a single cell - so any tabular backend can
// substitute for the SQLite one.
//
// Cells are strings at this layer. Type coercion happens above the store,
// in the schema package.
package sheet
