package news

import (
	"context"

	"github.com/ppiankov/newslens/internal/model"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Fetcher splits a target count across sources and concatenates their results
type Fetcher struct {
	sources []Source
	logger  *zap.Logger
}

// NewFetcher creates a Fetcher over sources in the given order
func NewFetcher(logger *zap.Logger, sources ...Source) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{sources: sources, logger: logger}
}

// PerSource is the number of items requested from each of two sources
func PerSource(target int) int {
	return target / 2
}

// FetchAll asks each source for target/2 items. A failing source contributes
// nothing; an empty combined result returns ErrNoArticles.
func (f *Fetcher) FetchAll(ctx context.Context, query string, target int) ([]model.ArticleRecord, error) {
	perSource := PerSource(target)

	var records []model.ArticleRecord
	for _, src := range f.sources {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "news: fetch cancelled")
		}

		log := f.logger.With(zap.String("source", string(src.Name())), zap.String("query", query))
		if perSource <= 0 {
			log.Warn("target too small, nothing requested", zap.Int("target", target))
			continue
		}

		items, err := src.Search(ctx, query, perSource)
		if err != nil {
			log.Warn("source failed, continuing without it", zap.Error(err))
			continue
		}
		if len(items) == 0 {
			log.Warn("source returned no articles")
			continue
		}

		log.Info("fetched articles", zap.Int("count", len(items)))
		records = append(records, items...)
	}

	if len(records) == 0 {
		return nil, ErrNoArticles
	}
	return records, nil
}
