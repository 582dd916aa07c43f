package llm

import (
	"context"

	"github.com/rotisserie/eris"
)

// Errors shared by all providers
var (
	ErrMissingAPIKey   = eris.New("llm: API key is required")
	ErrUnknownProvider = eris.New("llm: unknown provider")
	ErrEmptyResponse   = eris.New("llm: empty response")
	ErrTruncatedReply  = eris.New("llm: reply hit the output token limit")
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the default model used when a request does not name one
	Model() string

	// Complete sends a single prompt and returns the raw reply text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Close releases any resources held by the provider
	Close() error
}

// CompletionRequest is one prompt sent to a provider
type CompletionRequest struct {
	// System is an optional system instruction
	System string

	// Prompt is the user message
	Prompt string

	// Model overrides the provider's configured model
	Model string

	// MaxTokens limits the response length (0 uses the provider config)
	MaxTokens int

	// JSON asks providers that support it to constrain output to JSON
	JSON bool
}

// CompletionResponse contains the raw reply
type CompletionResponse struct {
	// Text is the reply with surrounding whitespace trimmed
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption when the provider reports it
	TokensUsed int

	// Cached is true when the reply was served from cache
	Cached bool
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "gemini", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for hosted providers
	APIKey string

	// BaseURL for custom endpoints (OpenRouter, Ollama, test servers)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// Temperature for generation
	Temperature float32

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout:     30,
		Temperature: 0.3,
		MaxTokens:   1000,
	}
}

func (c Config) model(override, fallback string) string {
	if override != "" {
		return override
	}
	if c.Model != "" {
		return c.Model
	}
	return fallback
}

// outputLimit returns the configured token cap, or 0 when none is set.
func (c Config) outputLimit(override int) int {
	if override > 0 {
		return override
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 0
}

func (c Config) maxTokens(override int) int {
	if n := c.outputLimit(override); n > 0 {
		return n
	}
	return 1000
}
