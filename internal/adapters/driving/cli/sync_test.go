package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

func TestSyncCmd_Short(t *testing.T) {
	assert.Equal(t, "Poll every tracked source once", syncCmd.Short)
}

func TestSyncCmd_PrintsReport(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	pipeline = &stubPipeline{report: domain.RunReport{New: 2, Changed: 1, Unchanged: 4}}

	out, err := executeCommand(t, "sync")

	require.NoError(t, err)
	assert.Contains(t, out, "Sync complete")
	assert.Contains(t, out, "2")
	assert.Contains(t, out, "4")
}

func TestSyncCmd_ReportsErrors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	pipeline = &stubPipeline{report: domain.RunReport{Unchanged: 1, Errors: 3}}

	out, err := executeCommand(t, "sync")

	require.NoError(t, err)
	assert.Contains(t, out, "errors:")
}

func TestSyncCmd_RunInProgress(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	pipeline = &stubPipeline{err: domain.ErrRunInProgress}

	_, err := executeCommand(t, "sync")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRunInProgress)
}

func TestSyncCmd_PipelineNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	pipeline = nil

	_, err := executeCommand(t, "sync")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline not available")
}
