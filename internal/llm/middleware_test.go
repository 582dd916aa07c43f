package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/newslens/internal/cache"
	"github.com/ppiankov/newslens/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	calls int
	reply string
	err   error
}

func (p *countingProvider) Name() string  { return "counting" }
func (p *countingProvider) Model() string { return "m1" }
func (p *countingProvider) Close() error  { return nil }

func (p *countingProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &CompletionResponse{Text: p.reply + ":" + req.Prompt, Model: "m1"}, nil
}

func TestCachedProvider(t *testing.T) {
	inner := &countingProvider{reply: "r"}
	p := WithCache(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, nil)
	ctx := context.Background()

	first, err := p.Complete(ctx, CompletionRequest{Prompt: "a"})
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := p.Complete(ctx, CompletionRequest{Prompt: "a"})
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)

	_, err = p.Complete(ctx, CompletionRequest{Prompt: "b"})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProvider_ErrorsNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("boom")}
	p := WithCache(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, nil)

	_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "a"})
	require.Error(t, err)
	_, err = p.Complete(context.Background(), CompletionRequest{Prompt: "a"})
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestThrottledProvider_ContextCancelled(t *testing.T) {
	inner := &countingProvider{reply: "r"}
	limiter := util.NewLimiter(0.001, 1)
	p := WithRateLimit(inner, limiter, "https://openrouter.ai/api/v1")

	_, err := p.Complete(context.Background(), CompletionRequest{Prompt: "a"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = p.Complete(ctx, CompletionRequest{Prompt: "b"})
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestNewProvider(t *testing.T) {
	ctx := context.Background()

	_, err := NewProvider(ctx, Config{Provider: "bard"})
	assert.True(t, errors.Is(err, ErrUnknownProvider), "got %v", err)

	_, err = NewProvider(ctx, Config{Provider: "gemini"})
	assert.True(t, errors.Is(err, ErrMissingAPIKey), "got %v", err)

	_, err = NewProvider(ctx, Config{Provider: "openai"})
	assert.True(t, errors.Is(err, ErrMissingAPIKey), "got %v", err)

	p, err := NewProvider(ctx, Config{Provider: "OpenRouter", APIKey: "k", BaseURL: "https://openrouter.ai/api/v1"})
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())

	p, err = NewProvider(ctx, Config{Provider: "ollama", Model: "mistral"})
	require.NoError(t, err)
	assert.Equal(t, "mistral", p.Model())
}

func TestOpen_WrapsProvider(t *testing.T) {
	p, err := Open(context.Background(), Config{Provider: "anthropic", APIKey: "k"}, Options{
		Cache:   cache.NewMemoryCache(time.Minute, time.Minute),
		Limiter: util.NewLimiter(1, 1),
	})
	require.NoError(t, err)

	cached, ok := p.(*CachedProvider)
	require.True(t, ok)
	_, ok = cached.Provider.(*ThrottledProvider)
	assert.True(t, ok)
	assert.Equal(t, "anthropic", p.Name())
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "https://openrouter.ai/api/v1", Endpoint(Config{Provider: "openai", BaseURL: "https://openrouter.ai/api/v1"}))
	assert.Equal(t, "https://generativelanguage.googleapis.com", Endpoint(Config{Provider: "gemini"}))
	assert.Equal(t, "http://localhost:11434", Endpoint(Config{Provider: "ollama"}))
}
