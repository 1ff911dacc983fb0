// Package httpapi exposes the query and registry surfaces over HTTP.
// It is a thin JSON layer over the driving ports; all business rules stay
// in the core services.
package httpapi

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driving"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// Server serves the HTTP API.
type Server struct {
	app      *fiber.App
	sources  driving.SourceService
	query    driving.QueryService
	pipeline driving.PipelineRunner
}

// NewServer creates the HTTP API server.
// The pipeline runner is optional; without it the sync and status routes
// respond 503.
func NewServer(
	sources driving.SourceService,
	query driving.QueryService,
	pipeline driving.PipelineRunner,
) *Server {
	s := &Server{
		app: fiber.New(fiber.Config{
			AppName:               "lexwatch",
			DisableStartupMessage: true,
			ErrorHandler:          errorHandler,
		}),
		sources:  sources,
		query:    query,
		pipeline: pipeline,
	}
	s.routes()
	return s
}

// routes registers all API routes.
func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/sources", s.handleListSources)
	api.Post("/sources", s.handleAddSource)
	api.Delete("/sources", s.handleRemoveSource)

	api.Get("/documents", s.handleListDocuments)
	api.Get("/documents/history", s.handleHistory)
	api.Get("/documents/diff", s.handleDiff)

	api.Get("/search", s.handleSearch)
	api.Post("/ask", s.handleAsk)

	api.Post("/sync", s.handleSync)
	api.Get("/status", s.handleStatus)
}

// Listen starts the server on addr and blocks until Shutdown.
func (s *Server) Listen(addr string) error {
	logger.Info("HTTP API listening on %s", addr)
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App returns the underlying fiber app (used by tests).
func (s *Server) App() *fiber.App {
	return s.app
}

// errorHandler maps domain errors to HTTP statuses.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrRunInProgress):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		status = fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrUnreachable), errors.Is(err, domain.ErrDecodeFailed):
		status = fiber.StatusBadGateway
	case errors.Is(err, domain.ErrLLMUnavailable):
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
