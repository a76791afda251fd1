package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Run("Should expose defaults through typed sections", func(t *testing.T) {
		cfg := NewFromViper(NewEmptyViper())

		assert.Equal(t, "gemini", cfg.GetLLM().Provider)
		assert.Equal(t, "gemini-1.5-flash", cfg.GetGemini().ModelName)
		assert.Equal(t, "es", cfg.GetAssessment().Language)
		assert.Equal(t, "NetSereno", cfg.GetReport().Brand)

		server, err := cfg.GetServer()
		require.NoError(t, err)
		assert.Equal(t, 60*time.Second, server.AnalysisTimeout)
		assert.Equal(t, int64(10*1024*1024), server.MaxUploadBytes)
	})

	t.Run("Should reject an invalid analysis timeout", func(t *testing.T) {
		v := NewEmptyViper()
		v.Set("server.analysis_timeout", "soon")
		_, err := NewFromViper(v).GetServer()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.analysis_timeout")
	})

	t.Run("Should reject a non-positive upload limit", func(t *testing.T) {
		v := NewEmptyViper()
		v.Set("server.max_upload_bytes", 0)
		_, err := NewFromViper(v).GetServer()
		require.Error(t, err)
	})
}

func TestEnvironment(t *testing.T) {
	t.Run("Should read prefixed environment variables", func(t *testing.T) {
		t.Setenv("NETSERENO_LLM_PROVIDER", "openai")
		t.Setenv("NETSERENO_OPENAI_MODEL_NAME", "gpt-test")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.GetLLM().Provider)
		assert.Equal(t, "gpt-test", cfg.GetOpenAI().ModelName)
	})

	t.Run("Should accept GOOGLE_API_KEY for gemini", func(t *testing.T) {
		t.Setenv("NETSERENO_GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "google-key")

		cfg, err := New()
		require.NoError(t, err)
		assert.Equal(t, "google-key", cfg.GetGemini().APIKey)
	})
}

func TestNewFromFile(t *testing.T) {
	t.Run("Should load values from an explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "netsereno.yaml")
		content := "llm:\n  provider: bedrock\nbedrock:\n  region: eu-west-1\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		cfg, err := NewFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "bedrock", cfg.GetLLM().Provider)
		assert.Equal(t, "eu-west-1", cfg.GetBedrock().Region)
		assert.Equal(t, 1000, cfg.GetBedrock().MaxTokens)
	})

	t.Run("Should fail on a missing file", func(t *testing.T) {
		_, err := NewFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
