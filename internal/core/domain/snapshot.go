package domain

import "time"

// Snapshot is an immutable stored copy of a document's text at a specific
// version sequence number. Snapshots are written once and never modified;
// the version store keeps one per (identity, seq) pair.
type Snapshot struct {
	// Identity is the document the snapshot belongs to.
	Identity Identity

	// Seq is the version sequence number the text carried while current.
	Seq int

	// Text is the full extracted text of that version.
	Text string

	// CapturedAt is when the snapshot was written.
	CapturedAt time.Time
}
