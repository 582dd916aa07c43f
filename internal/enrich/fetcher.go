package enrich

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/rotisserie/eris"
)

// maxRedirects caps redirect chains on article pages
const maxRedirects = 3

// Page is a fetched HTML document
type Page struct {
	HTML     string
	FinalURL string
}

// PageFetcher fetches article HTML
type PageFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

// NewPageFetcher wraps client with a redirect cap and body limit
func NewPageFetcher(client *http.Client, userAgent string, maxBytes int64) *PageFetcher {
	c := *client
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return eris.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	return &PageFetcher{httpClient: &c, userAgent: userAgent, maxBytes: maxBytes}
}

// Fetch retrieves an HTML page. Non-HTML responses are rejected.
func (f *PageFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "fetch")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Errorf("unexpected status: %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return nil, eris.Errorf("unexpected content type: %s", ct)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, eris.Wrap(err, "read body")
	}

	return &Page{
		HTML:     string(body),
		FinalURL: resp.Request.URL.String(),
	}, nil
}
