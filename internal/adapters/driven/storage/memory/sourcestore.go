package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore is an in-memory implementation of driven.SourceStore.
type SourceStore struct {
	mu   sync.RWMutex
	urls []string
}

// NewSourceStore creates a new in-memory source store.
func NewSourceStore() *SourceStore {
	return &SourceStore{}
}

// Append adds a URL to the end of the list.
func (s *SourceStore) Append(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = append(s.urls, url)
	return nil
}

// Remove deletes a URL from the list.
func (s *SourceStore) Remove(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.urls {
		if u == url {
			s.urls = append(s.urls[:i], s.urls[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

// List returns all tracked URLs in insertion order.
func (s *SourceStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	urls := make([]string, len(s.urls))
	copy(urls, s.urls)
	return urls, nil
}
