package driving

import (
	"context"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// QueryService is the read surface exposed to the UI layer.
// Every method returns a typed result or error, never an ambiguous
// empty success.
type QueryService interface {
	// Search returns every paragraph whose lowercase form contains the
	// lowercase query substring. Empty query fails with ErrInvalidInput.
	Search(ctx context.Context, query string) ([]domain.ParagraphMatch, error)

	// Ask answers a question against the corpus, batching oversized
	// context into sequential budgeted calls to the completion service.
	Ask(ctx context.Context, question string, scope domain.AskScope) (domain.Answer, error)

	// ListDocuments returns current document records for a scope.
	// Returns domain.ErrNotFound when the scoped origin has no records.
	ListDocuments(ctx context.Context, scope domain.AskScope) ([]domain.Document, error)

	// History returns the retained version snapshots for a document,
	// oldest first.
	History(ctx context.Context, id domain.Identity) ([]domain.Snapshot, error)

	// Diff returns a unified diff between snapshot seq and the version
	// that replaced it.
	Diff(ctx context.Context, id domain.Identity, seq int) (string, error)
}
