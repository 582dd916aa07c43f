package llm

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/ppiankov/newslens/internal/cache"
	"github.com/ppiankov/newslens/internal/util"
	"go.uber.org/zap"
)

// CachedProvider serves repeated prompts from a cache
type CachedProvider struct {
	Provider
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// WithCache wraps p so identical requests are answered from c
func WithCache(p Provider, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{Provider: p, cache: c, ttl: ttl, logger: logger}
}

// Complete returns a cached reply when one exists, otherwise calls the provider
func (p *CachedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	key := cache.Key(cache.NamespaceLLM,
		p.Name(),
		p.Provider.Model(),
		req.Model,
		strconv.Itoa(req.MaxTokens),
		strconv.FormatBool(req.JSON),
		req.System,
		req.Prompt,
	)

	if data, ok := p.cache.Get(key); ok {
		var resp CompletionResponse
		if err := json.Unmarshal(data, &resp); err == nil {
			resp.Cached = true
			p.logger.Debug("llm cache hit", zap.String("provider", p.Name()))
			return &resp, nil
		}
		_ = p.cache.Delete(key)
	}

	resp, err := p.Provider.Complete(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := p.cache.Set(key, data, p.ttl); err != nil {
			p.logger.Warn("llm cache write failed", zap.Error(err))
		}
	}
	return resp, nil
}

// ThrottledProvider waits on a shared limiter before each call
type ThrottledProvider struct {
	Provider
	limiter *util.Limiter
	key     string
}

// WithRateLimit wraps p so calls are paced by limiter.
// key identifies the upstream endpoint (usually its base URL).
func WithRateLimit(p Provider, limiter *util.Limiter, key string) *ThrottledProvider {
	return &ThrottledProvider{Provider: p, limiter: limiter, key: key}
}

// Complete waits for the limiter and then calls the provider
func (p *ThrottledProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := p.limiter.Wait(ctx, p.key); err != nil {
		return nil, err
	}
	return p.Provider.Complete(ctx, req)
}
