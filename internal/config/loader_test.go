package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hpn/hpn-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"PORT", "CORS_ORIGIN", "RELAY_SERVER_PORT", "RELAY_SERVER_CORS_ORIGIN", "RELAY_LOGGING_LEVEL"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	for _, p := range domain.AllProviders() {
		t.Setenv(p.APIKeyEnv(), "")
		os.Unsetenv(p.APIKeyEnv())
	}
}

// chdir switches the working directory for the test and restores it on cleanup
// (stand-in for testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "*", cfg.Server.CORSOrigin)
	assert.Equal(t, int64(DefaultBodyLimitBytes), cfg.Server.BodyLimitBytes)
	assert.Equal(t, time.Duration(0), cfg.HTTP.Timeout())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.ConfiguredProviders())
}

func TestLoad_BareEnvironmentVariables(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("CORS_ORIGIN", "https://chat.example.com")
	t.Setenv("OPENAI_API_KEY", " sk-openai ")
	t.Setenv("GEMINI_API_KEY", "AIza-gemini")
	t.Setenv("RELAY_PROVIDERS_GROQ_BASE_URL", "http://localhost:9999/openai/v1")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, "https://chat.example.com", cfg.Server.CORSOrigin)

	openai, ok := cfg.Provider(domain.ProviderOpenAI)
	require.True(t, ok)
	assert.Equal(t, "sk-openai", openai.APIKey, "keys are trimmed")

	groq, _ := cfg.Provider(domain.ProviderGroq)
	assert.Equal(t, "http://localhost:9999/openai/v1", groq.BaseURL)

	assert.Equal(t, []domain.ProviderType{domain.ProviderOpenAI, domain.ProviderGemini}, cfg.ConfiguredProviders())
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "relay.yaml", `
server:
  port: 4000
http:
  timeout_seconds: 20
providers:
  anthropic:
    api_key: sk-ant-file
    base_url: https://proxy.internal/anthropic/v1
logging:
  level: debug
  console: true
`)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Server.Port)
	assert.Equal(t, 20*time.Second, cfg.HTTP.Timeout())
	assert.True(t, cfg.Logging.Console)

	anthropic, _ := cfg.Provider(domain.ProviderAnthropic)
	assert.Equal(t, "sk-ant-env", anthropic.APIKey, "environment wins over file")
	assert.Equal(t, "https://proxy.internal/anthropic/v1", anthropic.BaseURL)
}

func TestLoad_ValidationErrors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.yaml", `
server:
  port: 70000
providers:
  xai:
    base_url: not-a-url
logging:
  level: verbose
`)

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.True(t, vErr.HasError("server.port"))
	assert.True(t, vErr.HasError("providers.xai.base_url"))
	assert.True(t, vErr.HasError("logging.level"))
	assert.Len(t, vErr.Errors, 3)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, ".env", "MISTRAL_API_KEY=from-dotenv\nXAI_API_KEY=from-dotenv\n")
	t.Setenv("XAI_API_KEY", "already-set")

	require.NoError(t, LoadDotEnv(path, filepath.Join(dir, "absent.env")))
	t.Cleanup(func() { os.Unsetenv("MISTRAL_API_KEY") })

	assert.Equal(t, "from-dotenv", os.Getenv("MISTRAL_API_KEY"))
	assert.Equal(t, "already-set", os.Getenv("XAI_API_KEY"), "existing variables are not overridden")
}

func TestValidationError_Message(t *testing.T) {
	single := &ValidationError{}
	single.add("server.port", "must be between 1 and 65535, got %d", 0)
	assert.Equal(t, "invalid configuration: server.port must be between 1 and 65535, got 0", single.Error())
	assert.False(t, single.HasError("server"), "fields match exactly")

	multi := &ValidationError{Errors: []FieldError{{"a", "bad"}, {"b", "worse"}}}
	assert.Contains(t, multi.Error(), "(2 fields)")
	assert.Contains(t, multi.Error(), "b worse")
}
