package services

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// DefaultContextBudget is the default packet size in characters.
const DefaultContextBudget = 12000

// DefaultParagraphCap is the default maximum number of paragraphs per
// packet. Zero means no paragraph-count ceiling.
const DefaultParagraphCap = 50

// Budgeter packs the most relevant slice of the corpus into text blobs
// that never exceed a fixed character budget. The packing is deterministic:
// identical (documents, query, budget) inputs produce byte-identical output.
type Budgeter struct {
	budget       int
	paragraphCap int
}

// BudgeterOption configures the budgeter.
type BudgeterOption func(*Budgeter)

// WithBudget sets the packet size budget in characters.
func WithBudget(budget int) BudgeterOption {
	return func(b *Budgeter) {
		if budget > 0 {
			b.budget = budget
		}
	}
}

// WithParagraphCap sets the maximum paragraphs per packet (0 = unlimited).
func WithParagraphCap(cap int) BudgeterOption {
	return func(b *Budgeter) {
		if cap >= 0 {
			b.paragraphCap = cap
		}
	}
}

// NewBudgeter creates a budgeter with the given options.
func NewBudgeter(opts ...BudgeterOption) *Budgeter {
	b := &Budgeter{
		budget:       DefaultContextBudget,
		paragraphCap: DefaultParagraphCap,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Budget returns the configured packet size in characters.
func (b *Budgeter) Budget() int {
	return b.budget
}

// candidate is one paragraph with its provenance and selection rank.
type candidate struct {
	text  string
	order int // position in document/corpus order
}

// Pack selects and concatenates the most relevant paragraphs for a query
// into a single blob of at most Budget() characters.
//
// Paragraphs containing at least one query keyword are preferred, in
// document order. When no paragraph matches, the longest paragraphs are
// selected instead. If even the first selected paragraph alone exceeds the
// budget, a hard-truncated prefix of exactly the budget length is returned
// rather than nothing.
func (b *Budgeter) Pack(query string, docs []domain.Document) string {
	packets := b.pack(query, docs, true)
	if len(packets) == 0 {
		return ""
	}
	return packets[0]
}

// PackAll is like Pack but covers the whole selected set: when the
// selection exceeds one budget it returns an ordered sequence of packets,
// each at most Budget() characters. Used by the QA facade for batching.
func (b *Budgeter) PackAll(query string, docs []domain.Document) []string {
	return b.pack(query, docs, false)
}

func (b *Budgeter) pack(query string, docs []domain.Document, firstOnly bool) []string {
	selection := b.selectionOrder(query, docs)
	if len(selection) == 0 {
		return nil
	}

	var packets []string
	var current []candidate
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		// Join in original document order regardless of selection order.
		sort.SliceStable(current, func(i, j int) bool {
			return current[i].order < current[j].order
		})
		parts := make([]string, len(current))
		for i, c := range current {
			parts[i] = c.text
		}
		packets = append(packets, strings.Join(parts, "\n\n"))
		current = nil
		currentLen = 0
	}

	for _, cand := range selection {
		addition := len(cand.text)
		if len(current) > 0 {
			addition += len("\n\n")
		}

		if currentLen+addition > b.budget {
			if len(current) == 0 {
				// Single-paragraph overflow: the only place hard
				// truncation is permitted.
				packets = append(packets, truncate(cand.text, b.budget))
				if firstOnly {
					return packets
				}
				continue
			}
			flush()
			if firstOnly {
				return packets
			}
			// Retry the candidate against a fresh packet.
			if len(cand.text) > b.budget {
				packets = append(packets, truncate(cand.text, b.budget))
				continue
			}
			current = append(current, cand)
			currentLen = len(cand.text)
			continue
		}

		current = append(current, cand)
		currentLen += addition

		if b.paragraphCap > 0 && len(current) >= b.paragraphCap {
			flush()
			if firstOnly {
				return packets
			}
		}
	}
	flush()

	if firstOnly && len(packets) > 1 {
		packets = packets[:1]
	}
	return packets
}

// selectionOrder returns the paragraphs to pack, in selection order:
// keyword-matching paragraphs in document order, or - when nothing
// matches - all paragraphs sorted by descending length.
func (b *Budgeter) selectionOrder(query string, docs []domain.Document) []candidate {
	keywords := queryKeywords(query)

	var relevant, fallback []candidate
	order := 0
	for _, doc := range docs {
		for _, paragraph := range domain.SplitParagraphs(doc.Text) {
			cand := candidate{text: paragraph, order: order}
			order++
			if matchesAny(paragraph, keywords) {
				relevant = append(relevant, cand)
			} else {
				fallback = append(fallback, cand)
			}
		}
	}

	if len(relevant) > 0 {
		return relevant
	}

	// No keyword hit: prefer the most substantial excerpts.
	sort.SliceStable(fallback, func(i, j int) bool {
		return len(fallback[i].text) > len(fallback[j].text)
	})
	return fallback
}

// truncate cuts text to at most n bytes without splitting a rune.
func truncate(text string, n int) string {
	if len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}

// queryKeywords tokenizes a query into lowercase whitespace-separated
// keywords, dropping empty tokens.
func queryKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	return fields
}

// matchesAny reports whether the paragraph contains at least one keyword
// as a case-insensitive substring.
func matchesAny(paragraph string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	lower := strings.ToLower(paragraph)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
