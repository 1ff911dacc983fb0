package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driving"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.QueryService = (*QAService)(nil)

// DefaultMaxAnswerChars bounds the size of each batch answer.
const DefaultMaxAnswerChars = 4000

// answerPrompt frames one budgeted context packet for the completion
// service. Part numbering is included only for multi-batch questions.
const answerPrompt = `You are answering a question about tracked regulatory documents.
Use only the context below. If the context does not contain the answer, say so.

Context:
%s

Question: %s

Answer:`

const answerPromptPart = `You are answering a question about tracked regulatory documents.
This is part %d of %d; answer using only this part's context.
Use only the context below. If the context does not contain the answer, say so.

Context:
%s

Question: %s

Answer:`

// QAService orchestrates corpus selection, context budgeting and the
// external completion calls. Oversized context is split into sequential
// budgeted batches; a batch failure aborts the remainder and is surfaced
// as an explicit marker in the partial answer, never silently dropped.
type QAService struct {
	corpus         *Corpus
	budgeter       *Budgeter
	tracker        *VersionTracker
	llm            driven.LLMService
	maxAnswerChars int
}

// NewQAService creates a new QA service.
// The llm parameter is optional (can be nil); Ask then fails with
// ErrLLMUnavailable while the other query operations keep working.
func NewQAService(
	corpus *Corpus,
	budgeter *Budgeter,
	tracker *VersionTracker,
	llm driven.LLMService,
) *QAService {
	return &QAService{
		corpus:         corpus,
		budgeter:       budgeter,
		tracker:        tracker,
		llm:            llm,
		maxAnswerChars: DefaultMaxAnswerChars,
	}
}

// Search returns paragraph-level matches across the whole corpus.
func (s *QAService) Search(_ context.Context, query string) ([]domain.ParagraphMatch, error) {
	return s.corpus.FindParagraphs(query)
}

// ListDocuments returns current document records for a scope.
func (s *QAService) ListDocuments(_ context.Context, scope domain.AskScope) ([]domain.Document, error) {
	docs, err := s.scopedDocuments(scope)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// History returns the retained snapshots for a document, oldest first.
func (s *QAService) History(ctx context.Context, id domain.Identity) ([]domain.Snapshot, error) {
	return s.tracker.History(ctx, id)
}

// Diff returns a unified diff between snapshot seq and its successor.
func (s *QAService) Diff(ctx context.Context, id domain.Identity, seq int) (string, error) {
	return s.tracker.Diff(ctx, id, seq)
}

// Ask answers a question against the scoped corpus.
func (s *QAService) Ask(ctx context.Context, question string, scope domain.AskScope) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, domain.ErrInvalidInput
	}
	if s.llm == nil {
		return domain.Answer{}, domain.ErrLLMUnavailable
	}

	docs, err := s.scopedDocuments(scope)
	if err != nil {
		return domain.Answer{}, err
	}

	logger.Section("Question Answering")
	logger.Debug("Question: %q, scope: %q, documents: %d", question, scope.Origin, len(docs))

	packets := s.budgeter.PackAll(question, docs)
	if len(packets) == 0 {
		// Records exist but carry no text; ask without context rather
		// than failing a legitimate scope.
		packets = []string{""}
	}
	logger.Debug("Context packed into %d batch(es) of budget %d", len(packets), s.budgeter.Budget())

	answer := domain.Answer{Batches: len(packets)}
	var parts []string

	for i, packet := range packets {
		if err := ctx.Err(); err != nil {
			parts = append(parts, batchFailureMarker(i+1, err))
			answer.Failed = i + 1
			answer.Text = strings.Join(parts, "\n\n")
			return answer, fmt.Errorf("batch %d: %w", i+1, err)
		}

		var prompt string
		if len(packets) > 1 {
			prompt = fmt.Sprintf(answerPromptPart, i+1, len(packets), packet, question)
		} else {
			prompt = fmt.Sprintf(answerPrompt, packet, question)
		}

		text, err := s.llm.Complete(ctx, prompt, s.maxAnswerChars)
		if err != nil {
			logger.Warn("Batch %d/%d failed: %v", i+1, len(packets), err)
			parts = append(parts, batchFailureMarker(i+1, err))
			answer.Failed = i + 1
			answer.Text = strings.Join(parts, "\n\n")
			return answer, fmt.Errorf("batch %d: %w", i+1, err)
		}
		parts = append(parts, strings.TrimSpace(text))
	}

	answer.Text = strings.Join(parts, "\n\n")
	return answer, nil
}

// scopedDocuments resolves an AskScope to corpus records.
func (s *QAService) scopedDocuments(scope domain.AskScope) ([]domain.Document, error) {
	var docs []domain.Document
	if scope.All() {
		docs = s.corpus.All()
	} else {
		docs = s.corpus.ByOrigin(scope.Origin)
	}
	if len(docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return docs, nil
}

// batchFailureMarker renders the explicit gap marker for a failed batch.
func batchFailureMarker(batch int, err error) string {
	return fmt.Sprintf("[answer unavailable for part %d: %v]", batch, err)
}
