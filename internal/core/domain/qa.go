package domain

// AskScope selects which part of the corpus a question runs against.
// The zero value means "all tracked origins".
type AskScope struct {
	// Origin restricts the question to documents discovered on one
	// source URL. Empty means no restriction.
	Origin string
}

// All reports whether the scope covers every tracked origin.
func (s AskScope) All() bool {
	return s.Origin == ""
}

// Answer is the result of one question against the corpus.
type Answer struct {
	// Text is the concatenated answer across all batches, in batch order.
	// Failed batches are represented by an explicit marker segment rather
	// than being silently dropped.
	Text string

	// Batches is the number of budgeted packets the question required.
	Batches int

	// Failed is the 1-based index of the batch that failed, or 0.
	Failed int
}
