package driven

import (
	"context"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// Notifier delivers change alerts after a pipeline run.
// This is an optional service - when nil, runs complete silently.
type Notifier interface {
	// NotifyRun sends an alert for a completed run that found updates.
	// Delivery failures are logged by the caller, never propagated as a
	// pipeline failure.
	NotifyRun(ctx context.Context, report domain.RunReport, changed []domain.Identity) error
}
