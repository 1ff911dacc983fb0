package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
)

func TestDocsCmd_ListsDocuments(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	corpus.Upsert(domain.Document{
		Identity: domain.Identity{Origin: "https://example.gov", Name: "Reg A"},
		Text:     "text",
		Status:   domain.StatusChanged,
		Version:  3,
	})

	out, err := executeCommand(t, "docs")

	require.NoError(t, err)
	assert.Contains(t, out, "Reg A")
	assert.Contains(t, out, "v3")
	assert.Contains(t, out, "changed")
}

func TestDocsCmd_ScopedToOrigin(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		docsOrigin = ""
	}()

	corpus.Upsert(domain.Document{
		Identity: domain.Identity{Origin: "https://a.example", Name: "Reg A"},
		Text:     "a",
	})
	corpus.Upsert(domain.Document{
		Identity: domain.Identity{Origin: "https://b.example", Name: "Reg B"},
		Text:     "b",
	})

	out, err := executeCommand(t, "docs", "--origin", "https://a.example")

	require.NoError(t, err)
	assert.Contains(t, out, "Reg A")
	assert.NotContains(t, out, "Reg B")
}

func TestDocsCmd_UnknownOrigin(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	defer func() {
		docsOrigin = ""
	}()

	_, err := executeCommand(t, "docs", "--origin", "https://missing.example")

	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
