package driving

import "context"

// SourceService manages the ordered set of tracked origin URLs.
type SourceService interface {
	// Add starts tracking an origin URL.
	// Returns domain.ErrInvalidInput for URLs without a recognised scheme
	// and domain.ErrAlreadyExists for URLs already tracked.
	Add(ctx context.Context, url string) error

	// Remove stops tracking an origin URL and purges its document records
	// and version history. Returns domain.ErrNotFound if untracked.
	Remove(ctx context.Context, url string) error

	// List returns all tracked origins in insertion order.
	List(ctx context.Context) ([]string, error)
}
