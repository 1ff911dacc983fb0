package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[string]domain.Document
	order []string
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]domain.Document),
	}
}

// SaveDocument stores or fully replaces a document record.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := doc.Identity.Key()
	if _, ok := s.docs[key]; !ok {
		s.order = append(s.order, key)
	}
	s.docs[key] = *doc
	return nil
}

// GetDocument retrieves a document by identity.
func (s *DocumentStore) GetDocument(_ context.Context, id domain.Identity) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id.Key()]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListByOrigin returns documents for one origin, insertion-ordered.
func (s *DocumentStore) ListByOrigin(_ context.Context, origin string) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []domain.Document
	for _, key := range s.order {
		if doc := s.docs[key]; doc.Identity.Origin == origin {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// ListAll returns every document record, insertion-ordered.
func (s *DocumentStore) ListAll(_ context.Context) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]domain.Document, 0, len(s.order))
	for _, key := range s.order {
		docs = append(docs, s.docs[key])
	}
	return docs, nil
}

// DeleteByOrigin removes all document records for an origin.
func (s *DocumentStore) DeleteByOrigin(_ context.Context, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.order[:0]
	for _, key := range s.order {
		if s.docs[key].Identity.Origin == origin {
			delete(s.docs, key)
			continue
		}
		kept = append(kept, key)
	}
	s.order = kept
	return nil
}
