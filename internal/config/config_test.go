package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, env := range []string{EnvNewsAPIKey, EnvGuardianKey, EnvGeminiKey, EnvOpenRouterKey} {
		t.Setenv(env, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "India politics", cfg.Query)
	assert.Equal(t, 12, cfg.TargetCount)
	assert.Equal(t, 10, cfg.HTTP.TimeoutSecs)
	assert.Equal(t, "gemini", cfg.Analyzer.Provider)
	assert.Equal(t, "gemini-3-flash-preview", cfg.Analyzer.Model)
	assert.Zero(t, cfg.Analyzer.Temperature)
	assert.Zero(t, cfg.Analyzer.MaxTokens)
	assert.Equal(t, "openai", cfg.Validator.Provider)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.Validator.BaseURL)
	assert.Equal(t, "mistralai/mistral-7b-instruct", cfg.Validator.Model)
	assert.InDelta(t, 0.3, cfg.Validator.Temperature, 0.0001)
	assert.Equal(t, 500, cfg.Validator.MaxTokens)
	assert.False(t, cfg.Enrich.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoad_CredentialEnv(t *testing.T) {
	isolate(t)
	t.Setenv(EnvNewsAPIKey, "news-key")
	t.Setenv(EnvGuardianKey, "guardian-key")
	t.Setenv(EnvGeminiKey, "gemini-key")
	t.Setenv(EnvOpenRouterKey, "router-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "news-key", cfg.Sources.NewsAPI.APIKey)
	assert.Equal(t, "guardian-key", cfg.Sources.Guardian.APIKey)
	assert.Equal(t, "gemini-key", cfg.Analyzer.APIKey)
	assert.Equal(t, "router-key", cfg.Validator.APIKey)
}

func TestLoad_PrefixedEnv(t *testing.T) {
	isolate(t)
	t.Setenv("NEWSLENS_QUERY", "climate")
	t.Setenv("NEWSLENS_TARGET_COUNT", "6")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "climate", cfg.Query)
	assert.Equal(t, 6, cfg.TargetCount)
}

func TestLoad_File(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "newslens.yaml")
	content := "query: elections\ntarget_count: 4\nlog:\n  level: debug\n  format: json\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "elections", cfg.Query)
	assert.Equal(t, 4, cfg.TargetCount)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "output", cfg.OutputDir)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty query", func(c *Config) { c.Query = "" }},
		{"target below two", func(c *Config) { c.TargetCount = 1 }},
		{"no output dir", func(c *Config) { c.OutputDir = "" }},
		{"unknown provider", func(c *Config) { c.Analyzer.Provider = "bard" }},
		{"zero timeout", func(c *Config) { c.HTTP.TimeoutSecs = 0 }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad source url", func(c *Config) { c.Sources.Guardian.BaseURL = "not a url" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_ProviderAliases(t *testing.T) {
	for _, name := range []string{"gemini", "google", "openai", "openrouter", "anthropic", "claude", "ollama"} {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			cfg.Analyzer.Provider = name
			cfg.Validator.Provider = name
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.Sources.NewsAPI.APIKey = "abcdef123456"
	cfg.Analyzer.APIKey = "xyz"

	r := cfg.Redacted()
	assert.Equal(t, "****3456", r.Sources.NewsAPI.APIKey)
	assert.Equal(t, "****", r.Analyzer.APIKey)
	assert.Equal(t, "", r.Validator.APIKey)
	assert.Equal(t, "abcdef123456", cfg.Sources.NewsAPI.APIKey)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	_, err = NewLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}
