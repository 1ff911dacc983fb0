package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore is an in-memory implementation of driven.SnapshotStore.
type SnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string][]domain.Snapshot
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		snaps: make(map[string][]domain.Snapshot),
	}
}

// Write stores a snapshot.
func (s *SnapshotStore) Write(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := snap.Identity.Key()
	for _, existing := range s.snaps[key] {
		if existing.Seq == snap.Seq {
			if existing.Text == snap.Text {
				return nil // retried commit, artifact already in place
			}
			return fmt.Errorf("snapshot %s seq %d already exists", key, snap.Seq)
		}
	}
	s.snaps[key] = append(s.snaps[key], snap)
	return nil
}

// History returns all snapshots for an identity, oldest first.
func (s *SnapshotStore) History(_ context.Context, id domain.Identity) ([]domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.snaps[id.Key()]
	snaps := make([]domain.Snapshot, len(stored))
	copy(snaps, stored)
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Seq < snaps[j].Seq })
	return snaps, nil
}

// Purge deletes all snapshots for an identity.
func (s *SnapshotStore) Purge(_ context.Context, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snaps, id.Key())
	return nil
}
