package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

func newTestConfigStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestConfigStore_SetAndGet(t *testing.T) {
	store := newTestConfigStore(t)

	require.NoError(t, store.Set(driven.ConfigKeyContextBudget, 9000))
	require.NoError(t, store.Set(driven.ConfigKeyDefaultCategory, "finance"))
	require.NoError(t, store.Set("scheduler.enabled", true))
	require.NoError(t, store.Set(driven.ConfigKeyDefaultKeywords, []string{"fees", "levies"}))

	assert.Equal(t, 9000, store.GetInt(driven.ConfigKeyContextBudget))
	assert.Equal(t, "finance", store.GetString(driven.ConfigKeyDefaultCategory))
	assert.True(t, store.GetBool("scheduler.enabled"))
	assert.Equal(t, []string{"fees", "levies"}, store.GetStringSlice(driven.ConfigKeyDefaultKeywords))
}

func TestConfigStore_MissingKeysReturnZeroValues(t *testing.T) {
	store := newTestConfigStore(t)

	assert.Equal(t, 0, store.GetInt("nope"))
	assert.Equal(t, "", store.GetString("nope"))
	assert.False(t, store.GetBool("nope"))
	assert.Nil(t, store.GetStringSlice("nope"))
}

func TestConfigStore_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(driven.ConfigKeyContextBudget, 8000))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 8000, reopened.GetInt(driven.ConfigKeyContextBudget))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[qa]\ncontext_budget = 12000\n\n[poll]\ninterval = \"1h\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 12000, store.GetInt("qa.context_budget"))
	assert.Equal(t, "1h", store.GetString("poll.interval"))
}

func TestConfigStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}
