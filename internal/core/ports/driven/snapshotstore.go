package driven

import (
	"context"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// SnapshotStore persists immutable version snapshots, one artifact per
// (identity, seq) pair. Artifacts are written once and never modified.
type SnapshotStore interface {
	// Write stores a snapshot. Rewriting an existing (identity, seq) with
	// identical text succeeds, so an interrupted commit can be retried.
	// Writing different text for an existing pair is an error; sequence
	// numbers are never reused.
	Write(ctx context.Context, snap domain.Snapshot) error

	// History returns all snapshots for an identity, oldest first.
	// Returns an empty slice for identities that never changed. An
	// unreadable artifact yields domain.ErrCorruptSnapshot alongside the
	// snapshots that could be read.
	History(ctx context.Context, id domain.Identity) ([]domain.Snapshot, error)

	// Purge deletes all snapshots for an identity.
	Purge(ctx context.Context, id domain.Identity) error
}
