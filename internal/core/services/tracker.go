package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// VersionTracker classifies fetched text against the stored current
// version and maintains the snapshot history.
//
// Classify is a pure comparison; Commit applies the store-then-replace
// ordering (read-old, write-snapshot, write-new) so a crash between the
// snapshot and the new text never loses history - at worst the newest
// fetch is lost. ClassifyAndCommit serialises both steps per identity.
type VersionTracker struct {
	docStore  driven.DocumentStore
	snapStore driven.SnapshotStore

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

// NewVersionTracker creates a version tracker.
func NewVersionTracker(docStore driven.DocumentStore, snapStore driven.SnapshotStore) *VersionTracker {
	return &VersionTracker{
		docStore:  docStore,
		snapStore: snapStore,
		locks:     make(map[string]*sync.Mutex),
		now:       time.Now,
	}
}

// Classify compares newText against the stored current text for an
// identity. It never mutates state.
func (t *VersionTracker) Classify(ctx context.Context, id domain.Identity, newText string) (domain.Status, error) {
	current, err := t.docStore.GetDocument(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.StatusNew, nil
		}
		return 0, fmt.Errorf("get document: %w", err)
	}

	// Byte-for-byte comparison; empty-vs-empty is unchanged.
	if current.Text == newText {
		return domain.StatusUnchanged, nil
	}
	return domain.StatusChanged, nil
}

// Commit applies a classified fetch result.
//
// For StatusChanged the prior text is snapshotted before the record is
// replaced and the version bumped. For StatusNew a record is created at
// version 1. For StatusUnchanged only the status field is refreshed; the
// current text and version are left untouched.
func (t *VersionTracker) Commit(
	ctx context.Context,
	id domain.Identity,
	contentURL string,
	newText string,
	status domain.Status,
	category string,
	keywords []string,
) (domain.Document, error) {
	now := t.now()

	switch status {
	case domain.StatusNew:
		doc := domain.Document{
			Identity:   id,
			ContentURL: contentURL,
			Category:   category,
			Keywords:   keywords,
			Text:       newText,
			Status:     domain.StatusNew,
			Version:    1,
			FetchedAt:  now,
			UpdatedAt:  now,
		}
		if err := t.docStore.SaveDocument(ctx, &doc); err != nil {
			return domain.Document{}, fmt.Errorf("save document: %w", err)
		}
		return doc, nil

	case domain.StatusUnchanged:
		doc, err := t.docStore.GetDocument(ctx, id)
		if err != nil {
			return domain.Document{}, fmt.Errorf("get document: %w", err)
		}
		doc.Status = domain.StatusUnchanged
		doc.ContentURL = contentURL
		if err := t.docStore.SaveDocument(ctx, doc); err != nil {
			return domain.Document{}, fmt.Errorf("save document: %w", err)
		}
		return *doc, nil

	case domain.StatusChanged:
		doc, err := t.docStore.GetDocument(ctx, id)
		if err != nil {
			return domain.Document{}, fmt.Errorf("get document: %w", err)
		}

		// Snapshot the prior text before anything is overwritten.
		snap := domain.Snapshot{
			Identity:   id,
			Seq:        doc.Version,
			Text:       doc.Text,
			CapturedAt: now,
		}
		if err := t.snapStore.Write(ctx, snap); err != nil {
			return domain.Document{}, fmt.Errorf("write snapshot: %w", err)
		}

		doc.Text = newText
		doc.Status = domain.StatusChanged
		doc.Version++
		doc.ContentURL = contentURL
		doc.UpdatedAt = now
		if err := t.docStore.SaveDocument(ctx, doc); err != nil {
			return domain.Document{}, fmt.Errorf("save document: %w", err)
		}
		return *doc, nil

	default:
		return domain.Document{}, domain.ErrInvalidInput
	}
}

// ClassifyAndCommit runs classify and commit under the per-identity lock,
// so concurrent pipeline fan-out can never interleave two commits for the
// same document.
func (t *VersionTracker) ClassifyAndCommit(
	ctx context.Context,
	id domain.Identity,
	contentURL string,
	newText string,
	category string,
	keywords []string,
) (domain.Document, domain.Status, error) {
	lock := t.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	status, err := t.Classify(ctx, id, newText)
	if err != nil {
		return domain.Document{}, 0, err
	}

	doc, err := t.Commit(ctx, id, contentURL, newText, status, category, keywords)
	if err != nil {
		return domain.Document{}, 0, err
	}
	return doc, status, nil
}

// History returns the retained snapshots for an identity, oldest first.
// A corrupt artifact is flagged for the operator but does not block the
// snapshots that could be read.
func (t *VersionTracker) History(ctx context.Context, id domain.Identity) ([]domain.Snapshot, error) {
	snaps, err := t.snapStore.History(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCorruptSnapshot) {
			logger.Error("history for %s contains unreadable snapshots: %v", id.Key(), err)
			return snaps, nil
		}
		return nil, fmt.Errorf("read history: %w", err)
	}
	return snaps, nil
}

// Diff returns a unified diff between snapshot seq and the version that
// replaced it (the next snapshot, or the current text when seq is the
// newest snapshot). Returns ErrNotFound when the sequence is not retained.
func (t *VersionTracker) Diff(ctx context.Context, id domain.Identity, seq int) (string, error) {
	snaps, err := t.History(ctx, id)
	if err != nil {
		return "", err
	}

	var oldText string
	found := false
	newText := ""
	newLabel := ""

	for i, snap := range snaps {
		if snap.Seq != seq {
			continue
		}
		found = true
		oldText = snap.Text
		if i+1 < len(snaps) {
			newText = snaps[i+1].Text
			newLabel = fmt.Sprintf("%s v%d", id.Name, snaps[i+1].Seq)
		} else {
			doc, err := t.docStore.GetDocument(ctx, id)
			if err != nil {
				return "", fmt.Errorf("get document: %w", err)
			}
			newText = doc.Text
			newLabel = fmt.Sprintf("%s v%d (current)", id.Name, doc.Version)
		}
		break
	}
	if !found {
		return "", domain.ErrNotFound
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: fmt.Sprintf("%s v%d", id.Name, seq),
		ToFile:   newLabel,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}

// Purge deletes all snapshots for an identity.
func (t *VersionTracker) Purge(ctx context.Context, id domain.Identity) error {
	return t.snapStore.Purge(ctx, id)
}

// lockFor returns the mutex serialising commits for one identity.
func (t *VersionTracker) lockFor(id domain.Identity) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := id.Key()
	lock, ok := t.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[key] = lock
	}
	return lock
}
