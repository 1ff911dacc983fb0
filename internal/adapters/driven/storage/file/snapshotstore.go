package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persists version snapshots as one plain-text artifact per
// (identity, seq) pair, named <token>_v<seq>.txt under the history
// directory. Artifacts are written once and never modified.
type SnapshotStore struct {
	mu  sync.Mutex
	dir string
}

// NewSnapshotStore creates a snapshot store rooted at dir, creating the
// directory if missing.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Write stores a snapshot. An existing identical artifact is accepted, so
// a commit that failed after the snapshot step can be retried; an existing
// artifact with different text is an error.
func (s *SnapshotStore) Write(_ context.Context, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.artifactPath(snap.Identity, snap.Seq)
	if existing, err := os.ReadFile(path); err == nil {
		if string(existing) == snap.Text {
			return nil
		}
		return fmt.Errorf("snapshot %s v%d already exists", snap.Identity.Key(), snap.Seq)
	}

	// Temp file plus rename so a crash never leaves a half-written artifact.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(snap.Text), 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	return nil
}

// History returns all snapshots for an identity, oldest first. An
// unreadable artifact is reported as domain.ErrCorruptSnapshot while the
// readable ones are still returned.
func (s *SnapshotStore) History(_ context.Context, id domain.Identity) ([]domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := id.FileToken() + "_v"
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read history dir: %w", err)
	}

	var (
		snaps      []domain.Snapshot
		corruptErr error
	)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		seq, ok := parseSeq(entry.Name(), prefix)
		if !ok {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			corruptErr = fmt.Errorf("%s: %w", entry.Name(), domain.ErrCorruptSnapshot)
			continue
		}

		snap := domain.Snapshot{Identity: id, Seq: seq, Text: string(data)}
		if info, err := entry.Info(); err == nil {
			snap.CapturedAt = info.ModTime()
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Seq < snaps[j].Seq })
	return snaps, corruptErr
}

// Purge deletes all snapshots for an identity.
func (s *SnapshotStore) Purge(_ context.Context, id domain.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := id.FileToken() + "_v"
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read history dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := parseSeq(entry.Name(), prefix); !ok {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("remove snapshot %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// artifactPath returns the on-disk path for one (identity, seq) artifact.
func (s *SnapshotStore) artifactPath(id domain.Identity, seq int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_v%d.txt", id.FileToken(), seq))
}

// parseSeq extracts the sequence number from an artifact filename, or
// reports false when the name does not belong to the given identity.
func parseSeq(name, prefix string) (int, bool) {
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".txt") {
		return 0, false
	}
	seqPart := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".txt")
	seq, err := strconv.Atoi(seqPart)
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}
