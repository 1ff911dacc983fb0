package domain

import "time"

// RunReport summarises one pipeline run over all tracked origins.
type RunReport struct {
	// ID identifies the run.
	ID string

	// StartedAt is when the run began.
	StartedAt time.Time

	// EndedAt is when the run completed. Zero while running.
	EndedAt time.Time

	// Running indicates the run is still in flight.
	Running bool

	// New counts documents seen for the first time.
	New int

	// Changed counts documents whose text differed from the stored version.
	Changed int

	// Unchanged counts documents with byte-identical text.
	Unchanged int

	// Errors counts per-document and per-origin failures that were
	// downgraded to skips.
	Errors int
}

// HasUpdates reports whether the run found anything worth notifying about.
func (r RunReport) HasUpdates() bool {
	return r.New > 0 || r.Changed > 0
}
