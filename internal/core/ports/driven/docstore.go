package driven

import (
	"context"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// DocumentStore persists current document records.
// Backed by SQLite; also the warm-start source for the in-memory corpus.
type DocumentStore interface {
	// SaveDocument stores or fully replaces a document record.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by identity.
	// Returns domain.ErrNotFound if absent.
	GetDocument(ctx context.Context, id domain.Identity) (*domain.Document, error)

	// ListByOrigin returns documents for one origin, insertion-ordered.
	ListByOrigin(ctx context.Context, origin string) ([]domain.Document, error)

	// ListAll returns every document record, insertion-ordered.
	ListAll(ctx context.Context) ([]domain.Document, error)

	// DeleteByOrigin removes all document records for an origin.
	DeleteByOrigin(ctx context.Context, origin string) error
}
