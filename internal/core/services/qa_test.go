package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

// mockLLM scripts completion responses per call.
type mockLLM struct {
	responses []string
	errs      []error
	prompts   []string
	calls     int
}

func (m *mockLLM) Complete(_ context.Context, prompt string, _ int) (string, error) {
	m.prompts = append(m.prompts, prompt)
	idx := m.calls
	m.calls++
	if idx < len(m.errs) && m.errs[idx] != nil {
		return "", m.errs[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}
	return fmt.Sprintf("answer %d", idx+1), nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func newQAService(llm *mockLLM, docs ...domain.Document) (*QAService, *Corpus) {
	corpus := NewCorpus()
	for _, d := range docs {
		corpus.Upsert(d)
	}
	tracker := NewVersionTracker(memory.NewDocumentStore(), memory.NewSnapshotStore())
	budgeter := NewBudgeter()
	svc := NewQAService(corpus, budgeter, tracker, llm)
	return svc, corpus
}

func TestQAService_Ask_EmptyQuestion(t *testing.T) {
	svc, _ := newQAService(&mockLLM{}, doc("https://a.example", "Reg A", "text"))

	_, err := svc.Ask(context.Background(), "  ", domain.AskScope{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQAService_Ask_NoLLM(t *testing.T) {
	corpus := NewCorpus()
	corpus.Upsert(doc("https://a.example", "Reg A", "text"))
	tracker := NewVersionTracker(memory.NewDocumentStore(), memory.NewSnapshotStore())
	svc := NewQAService(corpus, NewBudgeter(), tracker, nil)

	_, err := svc.Ask(context.Background(), "what are the fees?", domain.AskScope{})
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestQAService_Ask_UnknownScope(t *testing.T) {
	svc, _ := newQAService(&mockLLM{}, doc("https://a.example", "Reg A", "text"))

	_, err := svc.Ask(context.Background(), "fees?", domain.AskScope{Origin: "https://missing.example"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQAService_Ask_EmptyCorpus(t *testing.T) {
	svc, _ := newQAService(&mockLLM{})

	_, err := svc.Ask(context.Background(), "fees?", domain.AskScope{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQAService_Ask_SingleBatch(t *testing.T) {
	llm := &mockLLM{responses: []string{"The fee is 40 euro."}}
	svc, _ := newQAService(llm, doc("https://a.example", "Reg A", "The fees are 40 euro."))

	answer, err := svc.Ask(context.Background(), "what are the fees?", domain.AskScope{})

	require.NoError(t, err)
	assert.Equal(t, "The fee is 40 euro.", answer.Text)
	assert.Equal(t, 1, answer.Batches)
	assert.Zero(t, answer.Failed)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "The fees are 40 euro.")
	assert.Contains(t, llm.prompts[0], "what are the fees?")
}

func TestQAService_Ask_ScopedToOrigin(t *testing.T) {
	llm := &mockLLM{responses: []string{"scoped answer"}}
	svc, _ := newQAService(llm,
		doc("https://a.example", "Reg A", "fees in scope."),
		doc("https://b.example", "Reg B", "fees out of scope."),
	)

	_, err := svc.Ask(context.Background(), "fees?", domain.AskScope{Origin: "https://a.example"})

	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "fees in scope.")
	assert.NotContains(t, llm.prompts[0], "out of scope")
}

func TestQAService_Ask_MultiBatch(t *testing.T) {
	llm := &mockLLM{responses: []string{"part one", "part two"}}
	corpus := NewCorpus()
	corpus.Upsert(doc("https://a.example", "Reg A", "fees aa.\n\nfees bb."))
	tracker := NewVersionTracker(memory.NewDocumentStore(), memory.NewSnapshotStore())
	svc := NewQAService(corpus, NewBudgeter(WithBudget(10)), tracker, llm)

	answer, err := svc.Ask(context.Background(), "fees", domain.AskScope{})

	require.NoError(t, err)
	assert.Equal(t, 2, answer.Batches)
	assert.Equal(t, "part one\n\npart two", answer.Text)
	require.Len(t, llm.prompts, 2)
	assert.Contains(t, llm.prompts[0], "part 1 of 2")
	assert.Contains(t, llm.prompts[1], "part 2 of 2")
}

func TestQAService_Ask_BatchFailureMarksGap(t *testing.T) {
	llm := &mockLLM{
		responses: []string{"part one"},
		errs:      []error{nil, domain.ErrRateLimited},
	}
	corpus := NewCorpus()
	corpus.Upsert(doc("https://a.example", "Reg A", "fees aa.\n\nfees bb."))
	tracker := NewVersionTracker(memory.NewDocumentStore(), memory.NewSnapshotStore())
	svc := NewQAService(corpus, NewBudgeter(WithBudget(10)), tracker, llm)

	answer, err := svc.Ask(context.Background(), "fees", domain.AskScope{})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, 2, answer.Failed)
	assert.Contains(t, answer.Text, "part one")
	assert.Contains(t, answer.Text, "[answer unavailable for part 2:")
	// The failure aborts remaining batches.
	assert.Equal(t, 2, llm.calls)
}

func TestQAService_Ask_TextlessRecordsStillAnswer(t *testing.T) {
	llm := &mockLLM{responses: []string{"no context answer"}}
	svc, _ := newQAService(llm, doc("https://a.example", "Reg A", ""))

	answer, err := svc.Ask(context.Background(), "fees?", domain.AskScope{})

	require.NoError(t, err)
	assert.Equal(t, "no context answer", answer.Text)
	assert.Equal(t, 1, answer.Batches)
}

func TestQAService_ListDocuments(t *testing.T) {
	svc, _ := newQAService(&mockLLM{},
		doc("https://a.example", "Reg A", "a"),
		doc("https://b.example", "Reg B", "b"),
	)

	all, err := svc.ListDocuments(context.Background(), domain.AskScope{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := svc.ListDocuments(context.Background(), domain.AskScope{Origin: "https://b.example"})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, "Reg B", scoped[0].Identity.Name)

	_, err = svc.ListDocuments(context.Background(), domain.AskScope{Origin: "https://missing.example"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestQAService_Search(t *testing.T) {
	svc, _ := newQAService(&mockLLM{},
		doc("https://a.example", "Reg A", "Para1.\n\nPara2 mentions fees."),
	)

	matches, err := svc.Search(context.Background(), "fees")

	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Para2 mentions fees.", matches[0].Text)
}
