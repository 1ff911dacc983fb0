package httpapi

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// sourceRequest is the body for source add/remove.
type sourceRequest struct {
	URL string `json:"url"`
}

// askRequest is the body for question answering.
type askRequest struct {
	Question string `json:"question"`
	Origin   string `json:"origin,omitempty"`
}

// documentView is the JSON shape of one document record.
type documentView struct {
	Name      string   `json:"name"`
	Origin    string   `json:"origin"`
	URL       string   `json:"url"`
	Category  string   `json:"category"`
	Keywords  []string `json:"keywords,omitempty"`
	Status    string   `json:"status"`
	Version   int      `json:"version"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

func (s *Server) handleListSources(c *fiber.Ctx) error {
	urls, err := s.sources.List(c.Context())
	if err != nil {
		return err
	}
	if urls == nil {
		urls = []string{}
	}
	return c.JSON(fiber.Map{"sources": urls})
}

func (s *Server) handleAddSource(c *fiber.Ctx) error {
	var req sourceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.sources.Add(c.Context(), req.URL); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": req.URL})
}

func (s *Server) handleRemoveSource(c *fiber.Ctx) error {
	var req sourceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := s.sources.Remove(c.Context(), req.URL); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleListDocuments(c *fiber.Ctx) error {
	scope := domain.AskScope{Origin: c.Query("origin")}

	docs, err := s.query.ListDocuments(c.Context(), scope)
	if err != nil {
		// An empty corpus on the unscoped route is an empty list, not 404.
		if scope.All() && errors.Is(err, domain.ErrNotFound) {
			return c.JSON(fiber.Map{"documents": []documentView{}})
		}
		return err
	}

	views := make([]documentView, len(docs))
	for i := range docs {
		views[i] = documentView{
			Name:     docs[i].Identity.Name,
			Origin:   docs[i].Identity.Origin,
			URL:      docs[i].ContentURL,
			Category: docs[i].Category,
			Keywords: docs[i].Keywords,
			Status:   docs[i].Status.String(),
			Version:  docs[i].Version,
		}
		if !docs[i].UpdatedAt.IsZero() {
			views[i].UpdatedAt = docs[i].UpdatedAt.Format("2006-01-02T15:04:05Z07:00")
		}
	}
	return c.JSON(fiber.Map{"documents": views})
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	id := domain.Identity{Origin: c.Query("origin"), Name: c.Query("name")}
	if id.Origin == "" || id.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "origin and name are required")
	}

	snaps, err := s.query.History(c.Context(), id)
	if err != nil {
		return err
	}

	type snapView struct {
		Seq        int    `json:"seq"`
		CapturedAt string `json:"captured_at,omitempty"`
		Chars      int    `json:"chars"`
	}
	views := make([]snapView, len(snaps))
	for i := range snaps {
		views[i] = snapView{Seq: snaps[i].Seq, Chars: len(snaps[i].Text)}
		if !snaps[i].CapturedAt.IsZero() {
			views[i].CapturedAt = snaps[i].CapturedAt.Format("2006-01-02T15:04:05Z07:00")
		}
	}
	return c.JSON(fiber.Map{"history": views})
}

func (s *Server) handleDiff(c *fiber.Ctx) error {
	id := domain.Identity{Origin: c.Query("origin"), Name: c.Query("name")}
	if id.Origin == "" || id.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "origin and name are required")
	}
	seq, err := strconv.Atoi(c.Query("seq"))
	if err != nil || seq < 1 {
		return fiber.NewError(fiber.StatusBadRequest, "seq must be a positive integer")
	}

	diff, err := s.query.Diff(c.Context(), id, seq)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"diff": diff})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	matches, err := s.query.Search(c.Context(), c.Query("q"))
	if err != nil {
		return err
	}

	type matchView struct {
		Document  string `json:"document"`
		Origin    string `json:"origin"`
		Paragraph string `json:"paragraph"`
	}
	views := make([]matchView, len(matches))
	for i := range matches {
		views[i] = matchView{
			Document:  matches[i].DocumentName,
			Origin:    matches[i].Origin,
			Paragraph: matches[i].Text,
		}
	}
	return c.JSON(fiber.Map{"matches": views, "count": len(views)})
}

func (s *Server) handleAsk(c *fiber.Ctx) error {
	var req askRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	answer, err := s.query.Ask(c.Context(), req.Question, domain.AskScope{Origin: req.Origin})
	if err != nil && answer.Text == "" {
		return err
	}

	// Partial answers carry explicit gap markers; return them with 200.
	return c.JSON(fiber.Map{
		"answer":  answer.Text,
		"batches": answer.Batches,
		"failed":  answer.Failed,
	})
}

func (s *Server) handleSync(c *fiber.Ctx) error {
	if s.pipeline == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "pipeline not configured")
	}

	report, err := s.pipeline.Run(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(runView(report))
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	if s.pipeline == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "pipeline not configured")
	}
	return c.JSON(runView(s.pipeline.Status()))
}

// runView renders a run report for JSON output.
func runView(report domain.RunReport) fiber.Map {
	return fiber.Map{
		"id":        report.ID,
		"running":   report.Running,
		"new":       report.New,
		"changed":   report.Changed,
		"unchanged": report.Unchanged,
		"errors":    report.Errors,
	}
}
