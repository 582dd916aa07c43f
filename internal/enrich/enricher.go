// Package enrich fills in article text for records the news APIs returned
// without content, by fetching and extracting the article page.
package enrich

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	readability "github.com/go-shiori/go-readability"
	"github.com/ppiankov/newslens/internal/extract"
	"github.com/ppiankov/newslens/internal/model"
	"github.com/ppiankov/newslens/internal/util"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = eris.New("enrich: disallowed by robots.txt")

// Enricher fetches full text for content-less records
type Enricher struct {
	fetcher  *PageFetcher
	robots   *util.RobotsChecker // nil skips robots.txt checks
	limiter  *util.Limiter
	minChars int
	logger   *zap.Logger
}

// NewEnricher creates an Enricher. robots and limiter may be nil.
func NewEnricher(fetcher *PageFetcher, robots *util.RobotsChecker, limiter *util.Limiter, minChars int, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		fetcher:  fetcher,
		robots:   robots,
		limiter:  limiter,
		minChars: minChars,
		logger:   logger,
	}
}

// EnrichAll replaces empty content in place and returns how many records changed.
// Failures leave the record untouched.
func (e *Enricher) EnrichAll(ctx context.Context, records []model.ArticleRecord) int {
	enriched := 0
	for i := range records {
		if strings.TrimSpace(records[i].Content) != "" || records[i].URL == "" {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		text, err := e.Text(ctx, records[i].URL)
		if err != nil {
			e.logger.Debug("enrichment skipped", zap.String("url", records[i].URL), zap.Error(err))
			continue
		}

		records[i].Content = text
		enriched++
		e.logger.Info("enriched article", zap.String("url", records[i].URL), zap.Int("chars", utf8.RuneCountInString(text)))
	}
	return enriched
}

// Text fetches rawURL and returns its main readable text
func (e *Enricher) Text(ctx context.Context, rawURL string) (string, error) {
	delay := e.robotsDelay(ctx, rawURL)
	if delay < 0 {
		return "", eris.Wrapf(ErrDisallowed, "%s", rawURL)
	}
	if err := e.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
		return "", eris.Wrap(err, "enrich: rate limit")
	}

	page, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", eris.Wrap(err, "enrich")
	}

	text := readableText(page)
	if utf8.RuneCountInString(text) < e.minChars {
		if fallback, err := extract.VisibleText(page.HTML); err == nil && len(fallback) > len(text) {
			text = fallback
		}
	}

	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) < e.minChars {
		return "", eris.Errorf("enrich: extracted text too short (%d chars)", utf8.RuneCountInString(text))
	}
	return text, nil
}

// robotsDelay returns the crawl delay for rawURL, or -1 when fetching is disallowed
func (e *Enricher) robotsDelay(ctx context.Context, rawURL string) time.Duration {
	if e.robots == nil {
		return 0
	}
	allowed, crawlDelay, err := e.robots.CanFetch(ctx, rawURL)
	if err != nil || !allowed {
		return -1
	}
	return crawlDelay
}

func readableText(page *Page) string {
	pageURL, err := url.Parse(page.FinalURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(page.HTML), pageURL)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(article.TextContent)
}
