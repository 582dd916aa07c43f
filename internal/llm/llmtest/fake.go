// Package llmtest provides a scripted llm.Provider for tests
package llmtest

import (
	"context"
	"sync"

	"github.com/ppiankov/newslens/internal/llm"
)

// Provider replays canned replies in order. The last reply repeats once the
// script runs out. Respond, when set, takes precedence over Replies.
type Provider struct {
	Replies []string
	Err     error
	Respond func(req llm.CompletionRequest) (string, error)

	mu    sync.Mutex
	calls []llm.CompletionRequest
}

// Name returns "fake"
func (p *Provider) Name() string { return "fake" }

// Model returns "fake-model"
func (p *Provider) Model() string { return "fake-model" }

// Close is a no-op
func (p *Provider) Close() error { return nil }

// Complete records req and returns the next scripted reply
func (p *Provider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	n := len(p.calls)
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Respond != nil {
		text, err := p.Respond(req)
		if err != nil {
			return nil, err
		}
		return &llm.CompletionResponse{Text: text, Model: p.Model()}, nil
	}
	if p.Err != nil {
		return nil, p.Err
	}
	if len(p.Replies) == 0 {
		return nil, llm.ErrEmptyResponse
	}
	if n >= len(p.Replies) {
		n = len(p.Replies) - 1
	}
	return &llm.CompletionResponse{Text: p.Replies[n], Model: p.Model()}, nil
}

// Calls returns the requests received so far
func (p *Provider) Calls() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.CompletionRequest(nil), p.calls...)
}
