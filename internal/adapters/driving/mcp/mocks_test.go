package mcp

import (
	"context"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// mockQueryService is a test double for driving.QueryService.
type mockQueryService struct {
	matches []domain.ParagraphMatch
	answer  domain.Answer
	docs    []domain.Document
	err     error

	lastQuestion string
	lastScope    domain.AskScope
}

func (m *mockQueryService) Search(_ context.Context, _ string) ([]domain.ParagraphMatch, error) {
	return m.matches, m.err
}

func (m *mockQueryService) Ask(_ context.Context, question string, scope domain.AskScope) (domain.Answer, error) {
	m.lastQuestion = question
	m.lastScope = scope
	return m.answer, m.err
}

func (m *mockQueryService) ListDocuments(_ context.Context, _ domain.AskScope) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockQueryService) History(_ context.Context, _ domain.Identity) ([]domain.Snapshot, error) {
	return nil, m.err
}

func (m *mockQueryService) Diff(_ context.Context, _ domain.Identity, _ int) (string, error) {
	return "", m.err
}

// mockSourceService is a test double for driving.SourceService.
type mockSourceService struct {
	urls []string
	err  error
}

func (m *mockSourceService) Add(_ context.Context, _ string) error    { return m.err }
func (m *mockSourceService) Remove(_ context.Context, _ string) error { return m.err }
func (m *mockSourceService) List(_ context.Context) ([]string, error) {
	return m.urls, m.err
}
