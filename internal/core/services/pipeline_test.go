package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

// mockFetcher serves scripted listings and document texts.
type mockFetcher struct {
	mu       sync.Mutex
	listings map[string][]driven.DocumentRef
	listErr  map[string]error
	texts    map[string]string
	textErr  map[string]error
	block    chan struct{}
}

func (m *mockFetcher) ListDocuments(_ context.Context, origin string) ([]driven.DocumentRef, error) {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.listErr[origin]; err != nil {
		return nil, err
	}
	return m.listings[origin], nil
}

func (m *mockFetcher) ExtractText(_ context.Context, url string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.textErr[url]; err != nil {
		return "", err
	}
	return m.texts[url], nil
}

func (m *mockFetcher) setText(url, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.texts[url] = text
}

// mockNotifier records notifications.
type mockNotifier struct {
	mu      sync.Mutex
	calls   int
	changed []domain.Identity
}

func (m *mockNotifier) NotifyRun(_ context.Context, _ domain.RunReport, changed []domain.Identity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.changed = append(m.changed, changed...)
	return nil
}

func newPipeline(t *testing.T, fetcher *mockFetcher, origins []string, opts ...PipelineOption) (*PipelineOrchestrator, *Corpus, *VersionTracker) {
	t.Helper()
	ctx := context.Background()
	sourceStore := memory.NewSourceStore()
	for _, origin := range origins {
		require.NoError(t, sourceStore.Append(ctx, origin))
	}
	tracker := NewVersionTracker(memory.NewDocumentStore(), memory.NewSnapshotStore())
	corpus := NewCorpus()
	p := NewPipelineOrchestrator(sourceStore, fetcher, tracker, corpus, opts...)
	return p, corpus, tracker
}

func TestPipeline_FirstRunAllNew(t *testing.T) {
	fetcher := &mockFetcher{
		listings: map[string][]driven.DocumentRef{
			"https://a.example": {
				{Name: "Reg A", URL: "https://a.example/a.pdf"},
				{Name: "Reg B", URL: "https://a.example/b.pdf"},
			},
		},
		texts: map[string]string{
			"https://a.example/a.pdf": "text a",
			"https://a.example/b.pdf": "text b",
		},
	}
	p, corpus, _ := newPipeline(t, fetcher, []string{"https://a.example"})

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.New)
	assert.Zero(t, report.Changed)
	assert.Zero(t, report.Unchanged)
	assert.Zero(t, report.Errors)
	assert.Equal(t, 2, corpus.Len())
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.Running)
	assert.False(t, report.EndedAt.Before(report.StartedAt))
}

func TestPipeline_SecondRunUnchangedThenChanged(t *testing.T) {
	fetcher := &mockFetcher{
		listings: map[string][]driven.DocumentRef{
			"https://a.example": {{Name: "Reg A", URL: "https://a.example/a.pdf"}},
		},
		texts: map[string]string{"https://a.example/a.pdf": "v1"},
	}
	p, corpus, tracker := newPipeline(t, fetcher, []string{"https://a.example"})
	ctx := context.Background()

	_, err := p.Run(ctx)
	require.NoError(t, err)

	report, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Unchanged)
	assert.False(t, report.HasUpdates())

	fetcher.setText("https://a.example/a.pdf", "v2")
	report, err = p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Changed)
	assert.True(t, report.HasUpdates())

	got, ok := corpus.Get(domain.Identity{Origin: "https://a.example", Name: "Reg A"})
	require.True(t, ok)
	assert.Equal(t, "v2", got.Text)
	assert.Equal(t, 2, got.Version)

	history, err := tracker.History(ctx, got.Identity)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "v1", history[0].Text)
}

func TestPipeline_SourceFailureSkipsNotAborts(t *testing.T) {
	fetcher := &mockFetcher{
		listings: map[string][]driven.DocumentRef{
			"https://ok.example": {{Name: "Reg A", URL: "https://ok.example/a.pdf"}},
		},
		listErr: map[string]error{"https://down.example": domain.ErrUnreachable},
		texts:   map[string]string{"https://ok.example/a.pdf": "text"},
	}
	p, corpus, _ := newPipeline(t, fetcher, []string{"https://down.example", "https://ok.example"})

	report, err := p.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, report.New)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 1, corpus.Len())
}

func TestPipeline_DocumentFailureKeepsLastGood(t *testing.T) {
	fetcher := &mockFetcher{
		listings: map[string][]driven.DocumentRef{
			"https://a.example": {{Name: "Reg A", URL: "https://a.example/a.pdf"}},
		},
		texts: map[string]string{"https://a.example/a.pdf": "good text"},
	}
	p, corpus, _ := newPipeline(t, fetcher, []string{"https://a.example"})
	ctx := context.Background()

	_, err := p.Run(ctx)
	require.NoError(t, err)

	fetcher.mu.Lock()
	fetcher.textErr = map[string]error{"https://a.example/a.pdf": domain.ErrDecodeFailed}
	fetcher.mu.Unlock()

	report, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Errors)
	assert.Zero(t, report.Changed)

	got, ok := corpus.Get(domain.Identity{Origin: "https://a.example", Name: "Reg A"})
	require.True(t, ok)
	assert.Equal(t, "good text", got.Text)
	assert.Equal(t, 1, got.Version)
}

func TestPipeline_RunInProgress(t *testing.T) {
	block := make(chan struct{})
	fetcher := &mockFetcher{
		listings: map[string][]driven.DocumentRef{"https://a.example": {}},
		texts:    map[string]string{},
		block:    block,
	}
	p, _, _ := newPipeline(t, fetcher, []string{"https://a.example"})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Run(context.Background()) //nolint:errcheck
	}()

	// Wait until the first run is visibly in flight.
	require.Eventually(t, func() bool {
		return p.Status().Running
	}, time.Second, 5*time.Millisecond)

	_, err := p.Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrRunInProgress)

	close(block)
	<-done

	// A finished run frees the slot.
	_, err = p.Run(context.Background())
	assert.NoError(t, err)
}

func TestPipeline_CategoryAndKeywordsApplied(t *testing.T) {
	fetcher := &mockFetcher{
		listings: map[string][]driven.DocumentRef{
			"https://a.example": {{Name: "Reg A", URL: "https://a.example/a.pdf"}},
		},
		texts: map[string]string{"https://a.example/a.pdf": "text"},
	}
	p, corpus, _ := newPipeline(t, fetcher, []string{"https://a.example"},
		WithCategory("finance"), WithKeywords([]string{"levies", "fees"}))

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	got, ok := corpus.Get(domain.Identity{Origin: "https://a.example", Name: "Reg A"})
	require.True(t, ok)
	assert.Equal(t, "finance", got.Category)
	assert.Equal(t, []string{"levies", "fees"}, got.Keywords)
}

func TestPipeline_NotifierOnlyOnUpdates(t *testing.T) {
	fetcher := &mockFetcher{
		listings: map[string][]driven.DocumentRef{
			"https://a.example": {{Name: "Reg A", URL: "https://a.example/a.pdf"}},
		},
		texts: map[string]string{"https://a.example/a.pdf": "v1"},
	}
	notifier := &mockNotifier{}
	p, _, _ := newPipeline(t, fetcher, []string{"https://a.example"}, WithNotifier(notifier))
	ctx := context.Background()

	_, err := p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
	require.Len(t, notifier.changed, 1)
	assert.Equal(t, "Reg A", notifier.changed[0].Name)

	// Unchanged round: no notification.
	_, err = p.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.calls)
}

func TestPipeline_StatusReflectsLastRun(t *testing.T) {
	fetcher := &mockFetcher{
		listings: map[string][]driven.DocumentRef{
			"https://a.example": {{Name: "Reg A", URL: "https://a.example/a.pdf"}},
		},
		texts: map[string]string{"https://a.example/a.pdf": "text"},
	}
	p, _, _ := newPipeline(t, fetcher, []string{"https://a.example"})

	assert.Empty(t, p.Status().ID)

	report, err := p.Run(context.Background())
	require.NoError(t, err)

	status := p.Status()
	assert.Equal(t, report.ID, status.ID)
	assert.Equal(t, 1, status.New)
	assert.False(t, status.Running)
}
