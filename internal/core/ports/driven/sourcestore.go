package driven

import "context"

// SourceStore persists the ordered set of tracked origin URLs.
// Insertion order is preserved; the store performs no deduplication of its
// own beyond what the registry service enforces at add time.
type SourceStore interface {
	// Append adds a URL to the end of the list.
	Append(ctx context.Context, url string) error

	// Remove deletes a URL from the list.
	// Returns domain.ErrNotFound if the URL is not tracked.
	Remove(ctx context.Context, url string) error

	// List returns all tracked URLs in insertion order.
	List(ctx context.Context) ([]string, error)
}
