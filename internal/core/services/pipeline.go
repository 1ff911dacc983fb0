package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driving"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// Ensure PipelineOrchestrator implements the interface.
var _ driving.PipelineRunner = (*PipelineOrchestrator)(nil)

// DefaultFetchConcurrency bounds how many origins are fetched in parallel.
const DefaultFetchConcurrency = 4

// PipelineOrchestrator runs the fetch-classify-commit cycle over every
// tracked origin. A round is best-effort per source: fetch failures on one
// origin or document never abort the rest. Only one run may be in flight
// at a time; classify+commit is serialised per identity by the tracker.
type PipelineOrchestrator struct {
	sourceStore driven.SourceStore
	fetcher     driven.PageFetcher
	tracker     *VersionTracker
	corpus      *Corpus
	notifier    driven.Notifier

	category    string
	keywords    []string
	concurrency int

	mu      sync.Mutex
	running bool
	last    domain.RunReport
}

// PipelineOption configures the orchestrator.
type PipelineOption func(*PipelineOrchestrator)

// WithCategory sets the category tag applied to discovered documents.
func WithCategory(category string) PipelineOption {
	return func(p *PipelineOrchestrator) {
		if category != "" {
			p.category = category
		}
	}
}

// WithKeywords sets the keyword tags applied to discovered documents.
func WithKeywords(keywords []string) PipelineOption {
	return func(p *PipelineOrchestrator) {
		if len(keywords) > 0 {
			p.keywords = keywords
		}
	}
}

// WithFetchConcurrency bounds parallel origin fetches.
func WithFetchConcurrency(n int) PipelineOption {
	return func(p *PipelineOrchestrator) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithNotifier sets the change-alert notifier (optional).
func WithNotifier(n driven.Notifier) PipelineOption {
	return func(p *PipelineOrchestrator) {
		p.notifier = n
	}
}

// NewPipelineOrchestrator creates a pipeline orchestrator.
func NewPipelineOrchestrator(
	sourceStore driven.SourceStore,
	fetcher driven.PageFetcher,
	tracker *VersionTracker,
	corpus *Corpus,
	opts ...PipelineOption,
) *PipelineOrchestrator {
	p := &PipelineOrchestrator{
		sourceStore: sourceStore,
		fetcher:     fetcher,
		tracker:     tracker,
		corpus:      corpus,
		category:    "legislation",
		keywords:    []string{"regulations"},
		concurrency: DefaultFetchConcurrency,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls every tracked origin once.
func (p *PipelineOrchestrator) Run(ctx context.Context) (domain.RunReport, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return domain.RunReport{}, domain.ErrRunInProgress
	}
	report := domain.RunReport{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Running:   true,
	}
	p.running = true
	p.last = report
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	origins, err := p.sourceStore.List(ctx)
	if err != nil {
		p.finish(&report)
		return report, err
	}

	logger.Section("Poll Round")
	logger.Info("Polling %d source(s)", len(origins))

	var (
		countMu sync.Mutex
		changed []domain.Identity
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, origin := range origins {
		g.Go(func() error {
			refs, err := p.fetcher.ListDocuments(gctx, origin)
			if err != nil {
				logger.Warn("Skipping source %s this cycle: %v", origin, err)
				countMu.Lock()
				report.Errors++
				countMu.Unlock()
				return nil // best-effort per source
			}

			for _, ref := range refs {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				id := domain.Identity{Origin: origin, Name: ref.Name}
				text, err := p.fetcher.ExtractText(gctx, ref.URL)
				if err != nil {
					logger.Warn("No update for %q this cycle: %v", id.Key(), err)
					countMu.Lock()
					report.Errors++
					countMu.Unlock()
					continue
				}

				doc, status, err := p.tracker.ClassifyAndCommit(
					gctx, id, ref.URL, text, p.category, p.keywords)
				if err != nil {
					logger.Warn("Commit failed for %q: %v", id.Key(), err)
					countMu.Lock()
					report.Errors++
					countMu.Unlock()
					continue
				}

				p.corpus.Upsert(doc)

				countMu.Lock()
				switch status {
				case domain.StatusNew:
					report.New++
					changed = append(changed, id)
				case domain.StatusChanged:
					report.Changed++
					changed = append(changed, id)
				case domain.StatusUnchanged:
					report.Unchanged++
				}
				countMu.Unlock()
				logger.Debug("%s: %s (v%d)", id.Key(), status, doc.Version)
			}
			return nil
		})
	}

	waitErr := g.Wait()
	p.finish(&report)

	logger.Info("Round complete: %d new, %d changed, %d unchanged, %d errors",
		report.New, report.Changed, report.Unchanged, report.Errors)

	if waitErr == nil && p.notifier != nil && report.HasUpdates() {
		if err := p.notifier.NotifyRun(ctx, report, changed); err != nil {
			logger.Warn("Notification failed: %v", err)
		}
	}

	return report, waitErr
}

// Status returns the report of the current or most recent run.
func (p *PipelineOrchestrator) Status() domain.RunReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// finish stamps the report and publishes it as the latest.
func (p *PipelineOrchestrator) finish(report *domain.RunReport) {
	report.EndedAt = time.Now()
	report.Running = false

	p.mu.Lock()
	p.last = *report
	p.mu.Unlock()
}
