package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/newslens/internal/model"
	"github.com/rotisserie/eris"
)

// NewsAPI searches https://newsapi.org/v2/everything
type NewsAPI struct {
	client  *Client
	baseURL string
	apiKey  string
}

type newsAPIResponse struct {
	Status       string `json:"status"`
	Code         string `json:"code"`
	Message      string `json:"message"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// NewNewsAPI creates a NewsAPI source. An empty baseURL uses the public endpoint.
func NewNewsAPI(client *Client, baseURL, apiKey string) *NewsAPI {
	if baseURL == "" {
		baseURL = "https://newsapi.org"
	}
	return &NewsAPI{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Name returns the record tag for this source
func (s *NewsAPI) Name() model.APISource {
	return model.SourceNewsAPI
}

// Search queries English articles sorted by publication date
func (s *NewsAPI) Search(ctx context.Context, query string, pageSize int) ([]model.ArticleRecord, error) {
	if s.apiKey == "" {
		return nil, eris.Wrap(ErrMissingCredential, "newsapi")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize))
	reqURL := s.baseURL + "/v2/everything?" + params.Encode()

	header := http.Header{}
	header.Set("X-Api-Key", s.apiKey)

	var resp newsAPIResponse
	if err := s.client.getJSON(ctx, reqURL, reqURL, header, &resp, newsAPIError); err != nil {
		return nil, eris.Wrap(err, "newsapi")
	}

	records := make([]model.ArticleRecord, 0, len(resp.Articles))
	for _, a := range resp.Articles {
		records = append(records, model.ArticleRecord{
			Title:       firstNonEmpty(a.Title, "No title"),
			Source:      firstNonEmpty(a.Source.Name, "Unknown"),
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
			Content:     firstNonEmpty(a.Description, a.Content),
			APISource:   model.SourceNewsAPI,
		})
	}
	return records, nil
}

func (r *newsAPIResponse) check() error {
	if r.Status != "ok" {
		return eris.Wrapf(ErrBadStatus, "status %q: %s", r.Status, r.Message)
	}
	return nil
}

func newsAPIError(body []byte) string {
	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	if resp.Code != "" {
		return resp.Code + ": " + resp.Message
	}
	return resp.Message
}
