package driving

import (
	"context"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// PipelineRunner executes the fetch-classify-commit cycle.
type PipelineRunner interface {
	// Run polls every tracked origin once and updates the corpus and
	// version store. Origins are fetched concurrently; per-document
	// failures are downgraded to skips. A call while a run is already in
	// flight fails with domain.ErrRunInProgress.
	Run(ctx context.Context) (domain.RunReport, error)

	// Status returns the report of the current or most recent run.
	Status() domain.RunReport
}
