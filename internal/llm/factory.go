package llm

import (
	"context"
	"strings"
	"time"

	"github.com/ppiankov/newslens/internal/cache"
	"github.com/ppiankov/newslens/internal/config"
	"github.com/ppiankov/newslens/internal/util"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "gemini", "google":
		return NewGeminiProvider(ctx, cfg)

	case "openai", "openrouter":
		return NewOpenAIProvider(cfg)

	case "anthropic", "claude":
		return NewAnthropicProvider(cfg)

	case "ollama":
		return NewOllamaProvider(cfg)

	default:
		return nil, eris.Wrapf(ErrUnknownProvider, "%q (supported: gemini, openai, anthropic, ollama)", cfg.Provider)
	}
}

// ConfigFrom converts one configured LLM role to a provider Config
func ConfigFrom(role config.LLMConfig, http config.HTTPConfig) Config {
	return Config{
		Provider:    role.Provider,
		Model:       role.Model,
		APIKey:      role.APIKey,
		BaseURL:     role.BaseURL,
		Timeout:     role.TimeoutSecs,
		Temperature: role.Temperature,
		MaxTokens:   role.MaxTokens,
		HTTPProxy:   http.HTTPProxy,
		HTTPSProxy:  http.HTTPSProxy,
		NoProxy:     http.NoProxy,
	}
}

// Options adds caching and rate limiting around a provider
type Options struct {
	Cache    cache.Cache
	CacheTTL time.Duration
	Limiter  *util.Limiter
	Logger   *zap.Logger
}

// Open creates a provider and wraps it according to opts.
// Cache hits are answered before the limiter is consulted.
func Open(ctx context.Context, cfg Config, opts Options) (Provider, error) {
	p, err := NewProvider(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var wrapped Provider = p
	if opts.Limiter != nil {
		wrapped = WithRateLimit(wrapped, opts.Limiter, Endpoint(cfg))
	}
	if opts.Cache != nil {
		wrapped = WithCache(wrapped, opts.Cache, opts.CacheTTL, opts.Logger)
	}
	return wrapped, nil
}

// Endpoint returns the base URL a provider talks to
func Endpoint(cfg Config) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	switch strings.ToLower(cfg.Provider) {
	case "gemini", "google":
		return "https://generativelanguage.googleapis.com"
	case "anthropic", "claude":
		return "https://api.anthropic.com"
	case "ollama":
		return "http://localhost:11434"
	default:
		return "https://api.openai.com/v1"
	}
}
