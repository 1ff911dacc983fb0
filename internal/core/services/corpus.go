package services

import (
	"strings"
	"sync"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// Corpus is the in-memory collection of current documents, keyed by
// identity and indexed by origin. Updates swap whole records so concurrent
// readers always observe a consistent snapshot of each document; reads may
// run concurrently with each other and with pipeline fan-out.
type Corpus struct {
	mu      sync.RWMutex
	records map[string]domain.Document
	order   []string
}

// NewCorpus creates an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{
		records: make(map[string]domain.Document),
	}
}

// Load replaces the corpus content with persisted records.
// Used to warm-start from the document store at boot.
func (c *Corpus) Load(docs []domain.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = make(map[string]domain.Document, len(docs))
	c.order = c.order[:0]
	for _, doc := range docs {
		key := doc.Identity.Key()
		if _, ok := c.records[key]; !ok {
			c.order = append(c.order, key)
		}
		c.records[key] = cloneDocument(doc)
	}
}

// Upsert inserts or fully replaces the record sharing the identity.
// A replaced record keeps its original insertion position.
func (c *Corpus) Upsert(doc domain.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := doc.Identity.Key()
	if _, ok := c.records[key]; !ok {
		c.order = append(c.order, key)
	}
	c.records[key] = cloneDocument(doc)
}

// Get returns a copy of the record for an identity.
func (c *Corpus) Get(id domain.Identity) (domain.Document, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.records[id.Key()]
	if !ok {
		return domain.Document{}, false
	}
	return cloneDocument(doc), true
}

// All returns every record in insertion order.
func (c *Corpus) All() []domain.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]domain.Document, 0, len(c.order))
	for _, key := range c.order {
		docs = append(docs, cloneDocument(c.records[key]))
	}
	return docs
}

// ByOrigin returns the records discovered on one origin, in insertion order.
// The result may be empty.
func (c *Corpus) ByOrigin(origin string) []domain.Document {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var docs []domain.Document
	for _, key := range c.order {
		if doc := c.records[key]; doc.Identity.Origin == origin {
			docs = append(docs, cloneDocument(doc))
		}
	}
	return docs
}

// RemoveByOrigin deletes every record discovered on one origin.
func (c *Corpus) RemoveByOrigin(origin string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.order[:0]
	for _, key := range c.order {
		if c.records[key].Identity.Origin == origin {
			delete(c.records, key)
			continue
		}
		kept = append(kept, key)
	}
	c.order = kept
}

// Len returns the number of records.
func (c *Corpus) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records)
}

// FindParagraphs scans every record's text, splits on blank-line boundaries
// and returns every paragraph whose lowercase form contains the lowercase
// query substring. Ordering is stable: records in insertion order,
// paragraphs in document order. An empty query fails with ErrInvalidInput.
func (c *Corpus) FindParagraphs(query string) ([]domain.ParagraphMatch, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, domain.ErrInvalidInput
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []domain.ParagraphMatch
	for _, key := range c.order {
		doc := c.records[key]
		for _, paragraph := range domain.SplitParagraphs(doc.Text) {
			if strings.Contains(strings.ToLower(paragraph), needle) {
				matches = append(matches, domain.ParagraphMatch{
					Text:         paragraph,
					DocumentName: doc.Identity.Name,
					Origin:       doc.Identity.Origin,
				})
			}
		}
	}
	return matches, nil
}

// cloneDocument copies a record including its keyword slice so callers
// can never mutate stored state through a returned value.
func cloneDocument(doc domain.Document) domain.Document {
	if doc.Keywords != nil {
		keywords := make([]string, len(doc.Keywords))
		copy(keywords, doc.Keywords)
		doc.Keywords = keywords
	}
	return doc
}
