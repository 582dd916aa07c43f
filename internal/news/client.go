package news

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/newslens/internal/cache"
	"github.com/ppiankov/newslens/internal/util"
	"github.com/rotisserie/eris"
)

// defaultMaxBodyBytes bounds a response body when MaxBodyBytes is unset
const defaultMaxBodyBytes = 10 << 20

// Client is the HTTP plumbing shared by every news source
type Client struct {
	HTTP         *http.Client
	UserAgent    string
	MaxBodyBytes int64
	Cache        cache.Cache // optional
	CacheTTL     time.Duration
	Limiter      *util.Limiter // optional
}

// payload is implemented by response bodies that carry their own status
// field. A payload whose check fails is returned as an error and never cached.
type payload interface {
	check() error
}

func checkPayload(out any) error {
	if p, ok := out.(payload); ok {
		return p.check()
	}
	return nil
}

func (c *Client) maxBodyBytes() int64 {
	if c.MaxBodyBytes > 0 {
		return c.MaxBodyBytes
	}
	return defaultMaxBodyBytes
}

// getJSON performs a GET and decodes the body into out.
// cacheID identifies the request without credentials; an empty cacheID disables caching.
// errorMessage extracts an API-specific message from a non-2xx body.
func (c *Client) getJSON(ctx context.Context, reqURL, cacheID string, header http.Header, out any, errorMessage func([]byte) string) error {
	var key string
	if c.Cache != nil && cacheID != "" {
		key = cache.Key(cache.NamespaceNews, cacheID)
		if data, ok := c.Cache.Get(key); ok {
			if err := json.Unmarshal(data, out); err == nil && checkPayload(out) == nil {
				return nil
			}
			_ = c.Cache.Delete(key)
		}
	}

	if err := c.Limiter.Wait(ctx, reqURL); err != nil {
		return eris.Wrap(err, "rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	for name, values := range header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return eris.Wrap(err, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	limit := c.maxBodyBytes()
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return eris.Wrap(err, "read body")
	}
	if int64(len(body)) > limit {
		return eris.Wrapf(ErrBodyTooLarge, "more than %d bytes", limit)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := ""
		if errorMessage != nil {
			msg = errorMessage(body)
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return eris.Wrapf(ErrBadStatus, "HTTP %d: %s", resp.StatusCode, msg)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "decode response")
	}
	if err := checkPayload(out); err != nil {
		return err
	}

	if key != "" {
		_ = c.Cache.Set(key, body, c.CacheTTL)
	}
	return nil
}
