package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/lexwatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/services"
)

// stubPipeline is a test double for the pipeline runner.
type stubPipeline struct {
	report domain.RunReport
	err    error
}

func (p *stubPipeline) Run(context.Context) (domain.RunReport, error) {
	return p.report, p.err
}

func (p *stubPipeline) Status() domain.RunReport {
	return p.report
}

// setupTestServices swaps the package-level services for in-memory ones
// and returns a cleanup restoring the originals.
func setupTestServices() func() {
	oldConfig := configStore
	oldSource := sourceService
	oldQuery := queryService
	oldPipeline := pipeline
	oldCorpus := corpus
	oldTracker := tracker

	docStore := memory.NewDocumentStore()
	corpus = services.NewCorpus()
	tracker = services.NewVersionTracker(docStore, memory.NewSnapshotStore())
	configStore = memory.NewConfigStore()
	sourceService = services.NewSourceService(memory.NewSourceStore(), docStore, tracker, corpus)
	queryService = services.NewQAService(corpus, services.NewBudgeter(), tracker, nil)
	pipeline = &stubPipeline{}

	return func() {
		configStore = oldConfig
		sourceService = oldSource
		queryService = oldQuery
		pipeline = oldPipeline
		corpus = oldCorpus
		tracker = oldTracker
	}
}

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}
