package di

import (
	"flag"
	"io"
	"testing"

	"github.com/mikey/netsereno/internal/adapters/cli"
	"github.com/mikey/netsereno/internal/config"
	"github.com/mikey/netsereno/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContainer(t *testing.T) {
	t.Run("Should resolve the HTTP front-end", func(t *testing.T) {
		t.Setenv("NETSERENO_LLM_PROVIDER", "openai")
		t.Setenv("NETSERENO_OPENAI_API_KEY", "sk-test")
		t.Setenv("NETSERENO_SERVER_MODE", "test")

		container, err := BuildContainer()
		require.NoError(t, err)

		err = container.Invoke(func(frontend ports.Frontend) {
			assert.NotNil(t, frontend)
		})
		require.NoError(t, err)
	})

	t.Run("Should fail to resolve with an unknown language", func(t *testing.T) {
		t.Setenv("NETSERENO_LLM_PROVIDER", "openai")
		t.Setenv("NETSERENO_OPENAI_API_KEY", "sk-test")
		t.Setenv("NETSERENO_ASSESSMENT_LANGUAGE", "klingon")

		container, err := BuildContainer()
		require.NoError(t, err)

		err = container.Invoke(func(frontend ports.Frontend) {})
		assert.Error(t, err)
	})
}

func TestCLIContainer(t *testing.T) {
	newFlags := func(t *testing.T, args ...string) *CLIFlags {
		t.Helper()
		fs := flag.NewFlagSet("netsereno-cli", flag.ContinueOnError)
		fs.SetOutput(io.Discard)
		return parseFlags(fs, args)
	}

	t.Run("Should map flags onto configuration keys", func(t *testing.T) {
		flags := newFlags(t,
			"-provider", "openai",
			"-openai-api-key", "sk-flag",
			"-openai-base-url", "http://localhost:11434/v1",
			"-lang", "en",
			"-report-lang", "en",
		)

		cfg, err := createConfigFromFlags(flags)
		require.NoError(t, err)
		assert.Equal(t, "openai", cfg.GetLLM().Provider)
		assert.Equal(t, config.OpenAIConfig{
			APIKey:      "sk-flag",
			BaseURL:     "http://localhost:11434/v1",
			ModelName:   "gpt-4o-mini",
			MaxTokens:   1000,
			Temperature: 0.2,
			TopP:        0.9,
		}, cfg.GetOpenAI())
		assert.Equal(t, "en", cfg.GetAssessment().Language)
		assert.Equal(t, "en", cfg.GetReport().Language)
	})

	t.Run("Should fall back to the environment for API keys", func(t *testing.T) {
		t.Setenv("NETSERENO_GEMINI_API_KEY", "")
		t.Setenv("GOOGLE_API_KEY", "env-key")

		cfg, err := createConfigFromFlags(newFlags(t, "-provider", "gemini"))
		require.NoError(t, err)
		assert.Equal(t, "env-key", cfg.GetGemini().APIKey)
	})

	t.Run("Should read stdin only without file or text", func(t *testing.T) {
		assert.NotNil(t, newFlags(t).Request().Stdin)
		assert.Nil(t, newFlags(t, "-text", "hola").Request().Stdin)
		assert.Equal(t, "a.eml", newFlags(t, "-file", "a.eml").Request().File)
	})

	t.Run("Should resolve the CLI runner", func(t *testing.T) {
		container, err := BuildCLIContainer(newFlags(t, "-provider", "openai", "-openai-api-key", "sk-test"))
		require.NoError(t, err)

		err = container.Invoke(func(runner *cli.Runner) {
			assert.NotNil(t, runner)
		})
		require.NoError(t, err)
	})
}
