// Package sqlite provides SQLite-backed storage for current document
// records and scheduler state. Version snapshots live in the file-based
// history store, not here; the database only ever holds the latest text
// per identity and is the warm-start source for the in-memory corpus.
package sqlite
