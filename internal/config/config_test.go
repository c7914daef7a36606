package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
llm:
  base_url: https://api.example.com
  api_key: dummy
  model: gpt-4o-mini
search:
  base_url: http://search.local
  timeout: 5s
agent:
  max_rounds: 5
server:
  host: 127.0.0.1
  port: "9090"
log_level: debug
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	tmp, err := os.CreateTemp(t.TempDir(), "cfg-*.yaml")
	require.NoError(t, err)
	_, err = tmp.WriteString(body)
	require.NoError(t, err)
	require.NoError(t, tmp.Close())
	return tmp.Name()
}

// TestLoad_File verifies that Load unmarshals every section of the file.
func TestLoad_File(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleConfig))
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("BRAVE_SEARCH_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "https://api.example.com", cfg.LLM.BaseURL)
	require.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	require.Equal(t, "http://search.local", cfg.Search.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Search.Timeout)
	require.Equal(t, 5, cfg.Agent.MaxRounds)
	require.Equal(t, "127.0.0.1:9090", cfg.Server.Addr())
	require.Equal(t, "debug", cfg.LogLevel)
}

// TestLoad_Defaults runs from an empty directory with only credentials in the environment.
func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("BRAVE_SEARCH_API_KEY", "brave-test")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "sk-test", cfg.LLM.APIKey)
	require.Equal(t, "brave-test", cfg.Search.APIKey)
	require.Equal(t, DefaultModel, cfg.LLM.Model)
	require.Equal(t, DefaultSearchBaseURL, cfg.Search.BaseURL)
	require.Equal(t, DefaultMaxRounds, cfg.Agent.MaxRounds)
	require.Zero(t, cfg.Search.Timeout)
	require.Equal(t, "history.db", cfg.History.DBPath)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, sampleConfig))
	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("REACT_MODEL", "gpt-4o")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.LLM.APIKey)
	require.Equal(t, "gpt-4o", cfg.LLM.Model)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_NonPositiveRoundsFallsBack(t *testing.T) {
	t.Setenv("CONFIG_PATH", writeConfig(t, "agent:\n  max_rounds: 0\n"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultMaxRounds, cfg.Agent.MaxRounds)
}
