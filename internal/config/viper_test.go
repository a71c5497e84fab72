package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes into dir for the duration of the test (t.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestInitializeConfigDefaults(t *testing.T) {
	// Run from an empty directory so no config.yaml is picked up.
	chdir(t, t.TempDir())

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "gemini-1.5-flash", cfg.AI.Model)
	assert.Equal(t, 60, cfg.AI.TimeoutSeconds)
	assert.Equal(t, 3, cfg.AI.MaxPractices)
	assert.Equal(t, "practices.yaml", cfg.Data.PracticesFile)
	assert.Equal(t, ",", cfg.Export.Delimiter)
	assert.True(t, cfg.Export.IncludeHeaders)
}

func TestInitializeConfigEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ETHICHECK_AI_MODEL", "gemini-1.5-pro")
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := InitializeConfig()
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", cfg.AI.Model)
	assert.Equal(t, "test-key", cfg.AI.APIKey)
}

func TestInitializeConfigRejectsBadLevel(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ETHICHECK_LOG_LEVEL", "verbose")

	_, err := InitializeConfig()
	assert.Error(t, err)
}

func TestGetGeminiAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	assert.Equal(t, "env-key", GetGeminiAPIKey())
}

func TestGetGeminiAPIKeyEmpty(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	assert.Equal(t, "", GetGeminiAPIKey())
}

func TestConfigureLoggingLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	logger := ConfigureLogging()
	assert.Equal(t, "debug", logger.GetLevel().String())
}
