package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithRequiredEnv(t *testing.T) {
	t.Setenv("SPEAKSPACE_AUTH_API_KEY", "test_key_123")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "test_key_123", cfg.Auth.APIKey)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.ModelName)
	assert.Equal(t, 3, cfg.LLM.MaxRetries)
	assert.True(t, cfg.Transcription.LocalEnabled)
	assert.Equal(t, "uploads", cfg.Transcription.UploadDir)
	assert.Equal(t, 700, cfg.Worker.TickIntervalMS)
	assert.Equal(t, 700*time.Millisecond, cfg.Worker.TickInterval())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SPEAKSPACE_AUTH_API_KEY", "test_key_123")
	t.Setenv("SPEAKSPACE_SERVER_PORT", "8080")
	t.Setenv("SPEAKSPACE_SERVER_LOG_LEVEL", "debug")
	t.Setenv("SPEAKSPACE_WORKER_TICK_INTERVAL_MS", "50")
	t.Setenv("SPEAKSPACE_TRANSCRIPTION_COMMAND", "whisper --model tiny")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 50, cfg.Worker.TickIntervalMS)
	assert.Equal(t, "whisper --model tiny", cfg.Transcription.Command)
}

func TestLoad_ValidationFailures(t *testing.T) {
	t.Run("missing api key", func(t *testing.T) {
		t.Setenv("SPEAKSPACE_AUTH_API_KEY", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validation")
	})

	t.Run("short api key", func(t *testing.T) {
		t.Setenv("SPEAKSPACE_AUTH_API_KEY", "short")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad log level", func(t *testing.T) {
		t.Setenv("SPEAKSPACE_AUTH_API_KEY", "test_key_123")
		t.Setenv("SPEAKSPACE_SERVER_LOG_LEVEL", "loud")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("SPEAKSPACE_AUTH_API_KEY", "test_key_123")
		t.Setenv("SPEAKSPACE_SERVER_PORT", "70000")

		_, err := Load()
		assert.Error(t, err)
	})
}
