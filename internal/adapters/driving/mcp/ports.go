package mcp

import (
	"github.com/custodia-labs/lexwatch/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Query provides search, ask and document listing.
	Query driving.QueryService

	// Source exposes the tracked origin registry.
	Source driving.SourceService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Source is optional; the sources resource degrades to an empty list.
	return nil
}
