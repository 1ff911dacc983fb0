package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

func newSourceService() (*SourceService, *VersionTracker, *Corpus, *memory.DocumentStore) {
	docStore := memory.NewDocumentStore()
	snapStore := memory.NewSnapshotStore()
	tracker := NewVersionTracker(docStore, snapStore)
	corpus := NewCorpus()
	svc := NewSourceService(memory.NewSourceStore(), docStore, tracker, corpus)
	return svc, tracker, corpus, docStore
}

func TestSourceService_AddAndList(t *testing.T) {
	svc, _, _, _ := newSourceService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "https://example.org/regs.html"))
	require.NoError(t, svc.Add(ctx, "http://other.example/laws"))

	urls, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/regs.html", "http://other.example/laws"}, urls)
}

func TestSourceService_Add_RejectsBadScheme(t *testing.T) {
	svc, _, _, _ := newSourceService()
	ctx := context.Background()

	for _, url := range []string{"", "   ", "ftp://example.org", "example.org/regs", "file:///etc/hosts"} {
		err := svc.Add(ctx, url)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "url %q", url)
	}
}

func TestSourceService_Add_TrimsWhitespace(t *testing.T) {
	svc, _, _, _ := newSourceService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "  https://example.org/regs.html\n"))

	urls, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.org/regs.html"}, urls)
}

func TestSourceService_Add_Duplicate(t *testing.T) {
	svc, _, _, _ := newSourceService()
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "https://example.org/regs.html"))
	err := svc.Add(ctx, "https://example.org/regs.html")

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestSourceService_Remove_NotTracked(t *testing.T) {
	svc, _, _, _ := newSourceService()

	err := svc.Remove(context.Background(), "https://example.org/regs.html")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSourceService_Remove_PurgesEverything(t *testing.T) {
	svc, tracker, corpus, docStore := newSourceService()
	ctx := context.Background()
	origin := "https://example.org/regs.html"
	id := domain.Identity{Origin: origin, Name: "Reg A"}

	require.NoError(t, svc.Add(ctx, origin))

	doc, _, err := tracker.ClassifyAndCommit(ctx, id, "u", "v1", "legislation", nil)
	require.NoError(t, err)
	corpus.Upsert(doc)
	doc, _, err = tracker.ClassifyAndCommit(ctx, id, "u", "v2", "legislation", nil)
	require.NoError(t, err)
	corpus.Upsert(doc)

	require.NoError(t, svc.Remove(ctx, origin))

	urls, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, urls)

	_, err = docStore.GetDocument(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	history, err := tracker.History(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)

	assert.Equal(t, 0, corpus.Len())
}

func TestSourceService_Remove_KeepsOtherOrigins(t *testing.T) {
	svc, tracker, corpus, _ := newSourceService()
	ctx := context.Background()
	keep := domain.Identity{Origin: "https://keep.example", Name: "Reg K"}

	require.NoError(t, svc.Add(ctx, "https://keep.example"))
	require.NoError(t, svc.Add(ctx, "https://drop.example"))

	doc, _, err := tracker.ClassifyAndCommit(ctx, keep, "u", "text", "legislation", nil)
	require.NoError(t, err)
	corpus.Upsert(doc)

	require.NoError(t, svc.Remove(ctx, "https://drop.example"))

	urls, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://keep.example"}, urls)
	assert.Equal(t, 1, corpus.Len())
}
