package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driving"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// Ensure SourceService implements the interface.
var _ driving.SourceService = (*SourceService)(nil)

// SourceService manages the ordered registry of tracked origins.
// Removing an origin purges its document records and version history so
// untracked sources cannot grow storage without bound.
type SourceService struct {
	sourceStore driven.SourceStore
	docStore    driven.DocumentStore
	tracker     *VersionTracker
	corpus      *Corpus
}

// NewSourceService creates a new source service.
func NewSourceService(
	sourceStore driven.SourceStore,
	docStore driven.DocumentStore,
	tracker *VersionTracker,
	corpus *Corpus,
) *SourceService {
	return &SourceService{
		sourceStore: sourceStore,
		docStore:    docStore,
		tracker:     tracker,
		corpus:      corpus,
	}
}

// Add starts tracking an origin URL.
func (s *SourceService) Add(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)
	if err := domain.ValidateSourceURL(url); err != nil {
		return err
	}

	existing, err := s.sourceStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	for _, tracked := range existing {
		if tracked == url {
			return domain.ErrAlreadyExists
		}
	}

	if err := s.sourceStore.Append(ctx, url); err != nil {
		return fmt.Errorf("append source: %w", err)
	}
	logger.Info("Tracking new source %s", url)
	return nil
}

// Remove stops tracking an origin URL and purges everything it produced:
// document records, corpus entries and version snapshots.
func (s *SourceService) Remove(ctx context.Context, url string) error {
	url = strings.TrimSpace(url)

	existing, err := s.sourceStore.List(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	tracked := false
	for _, t := range existing {
		if t == url {
			tracked = true
			break
		}
	}
	if !tracked {
		return domain.ErrNotFound
	}

	if err := s.sourceStore.Remove(ctx, url); err != nil {
		return fmt.Errorf("remove source: %w", err)
	}

	// Cleanup: purge snapshots per identity, then records, then corpus.
	// Errors are intentionally ignored so cleanup continues; the source
	// itself is already untracked.
	if s.docStore != nil {
		docs, err := s.docStore.ListByOrigin(ctx, url)
		if err == nil && s.tracker != nil {
			for i := range docs {
				_ = s.tracker.Purge(ctx, docs[i].Identity) //nolint:errcheck
			}
		}
		_ = s.docStore.DeleteByOrigin(ctx, url) //nolint:errcheck
	}
	if s.corpus != nil {
		s.corpus.RemoveByOrigin(url)
	}

	logger.Info("Removed source %s", url)
	return nil
}

// List returns all tracked origins in insertion order.
func (s *SourceService) List(ctx context.Context) ([]string, error) {
	return s.sourceStore.List(ctx)
}
