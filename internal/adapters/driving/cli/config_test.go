package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
)

func TestConfigCmd_SetAndShow(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand(t, "config", "set", driven.ConfigKeyContextBudget, "16000")
	require.NoError(t, err)
	assert.Contains(t, out, "Set qa.context_budget = 16000")

	out, err = executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "16000")
}

func TestConfigCmd_SetStoresIntegersAsIntegers(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "config", "set", driven.ConfigKeyPollInterval, "30")
	require.NoError(t, err)

	assert.Equal(t, 30, configStore.GetInt(driven.ConfigKeyPollInterval))
}

func TestConfigCmd_SetStoresStrings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand(t, "config", "set", "llm.provider", "anthropic")
	require.NoError(t, err)

	assert.Equal(t, "anthropic", configStore.GetString("llm.provider"))
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "****", maskKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskKey("sk-abcdefghijklmnopqrstuvwxyz"))
}
