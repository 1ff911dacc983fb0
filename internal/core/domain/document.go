package domain

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"
)

// Identity is the stable key identifying one tracked document across
// polling cycles. Two documents with the same name under different
// origins are distinct identities.
type Identity struct {
	// Origin is the tracked source URL the document was discovered on.
	Origin string

	// Name is the document's display name as published on the origin page.
	Name string
}

// Key returns the canonical map key for this identity.
func (id Identity) Key() string {
	return id.Origin + "|" + id.Name
}

// FileToken returns a filesystem-safe token for this identity.
// Non-alphanumeric runes are mapped to underscores and an FNV hash of the
// full key is appended so that sanitisation never collides across identities.
func (id Identity) FileToken() string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, id.Name)

	const maxNamePart = 60
	if len(mapped) > maxNamePart {
		mapped = mapped[:maxNamePart]
	}

	h := fnv.New32a()
	h.Write([]byte(id.Key())) //nolint:errcheck // fnv never fails
	return fmt.Sprintf("%s_%08x", mapped, h.Sum32())
}

// Status classifies the outcome of one fetch cycle for a document.
type Status int

const (
	// StatusNew indicates the identity was absent from the prior corpus.
	StatusNew Status = iota

	// StatusChanged indicates the fetched text differs byte-for-byte
	// from the stored current text.
	StatusChanged

	// StatusUnchanged indicates the fetched text is byte-identical to
	// the stored current text.
	StatusUnchanged
)

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusChanged:
		return "changed"
	case StatusUnchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Document represents one tracked document with its current text.
// Exactly one current text exists per identity at any time; updates replace
// the whole record so readers never observe a partially updated document.
type Document struct {
	// Identity is the stable (origin, name) key.
	Identity Identity

	// ContentURL is the absolute URL of the document content (the PDF).
	ContentURL string

	// Category is a coarse classification tag (default "legislation").
	Category string

	// Keywords are free-text tags attached at discovery time.
	Keywords []string

	// Text is the current extracted plain text.
	Text string

	// Status is the classification of the last fetch cycle.
	Status Status

	// Version is the sequence number. Starts at 1 and increments each
	// time a fetch is classified as changed. Never reused.
	Version int

	// FetchedAt is when the document was first seen.
	FetchedAt time.Time

	// UpdatedAt is when the current text was last replaced.
	UpdatedAt time.Time
}

// ParagraphMatch is a single paragraph-level search hit.
type ParagraphMatch struct {
	// Text is the matching paragraph.
	Text string

	// DocumentName is the display name of the containing document.
	DocumentName string

	// Origin is the source URL the document was discovered on.
	Origin string
}

// SplitParagraphs splits text into paragraphs on blank-line boundaries.
// Leading/trailing whitespace of each paragraph is trimmed and empty
// paragraphs are dropped. Document order is preserved.
func SplitParagraphs(text string) []string {
	// Normalise CRLF so blank-line detection works on Windows-style text.
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var paragraphs []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paragraphs = append(paragraphs, block)
		}
	}
	return paragraphs
}
