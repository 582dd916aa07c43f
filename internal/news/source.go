package news

import (
	"context"

	"github.com/ppiankov/newslens/internal/model"
	"github.com/rotisserie/eris"
)

// Errors reported by sources and the fetcher
var (
	ErrMissingCredential = eris.New("news: missing API credential")
	ErrBadStatus         = eris.New("news: unsuccessful response")
	ErrBodyTooLarge      = eris.New("news: response body too large")
	ErrNoArticles        = eris.New("news: no articles fetched from any source")
)

// Source is one upstream news search API
type Source interface {
	// Name identifies the source in records and logs
	Name() model.APISource

	// Search returns up to pageSize normalized records for query
	Search(ctx context.Context, query string, pageSize int) ([]model.ArticleRecord, error)
}

// firstNonEmpty returns the first argument that is not empty
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
