package news

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/newslens/internal/model"
	"github.com/rotisserie/eris"
)

// GuardianPublisher is the fixed publisher name for Guardian records
const GuardianPublisher = "The Guardian"

// Guardian searches the Guardian Open Platform content API
type Guardian struct {
	client  *Client
	baseURL string
	apiKey  string
}

type guardianResponse struct {
	Message  string `json:"message"`
	Response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Total   int    `json:"total"`
		Results []struct {
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				BodyText  string `json:"bodyText"`
				TrailText string `json:"trailText"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

// NewGuardian creates a Guardian source. An empty baseURL uses the public endpoint.
func NewGuardian(client *Client, baseURL, apiKey string) *Guardian {
	if baseURL == "" {
		baseURL = "https://content.guardianapis.com"
	}
	return &Guardian{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Name returns the record tag for this source
func (s *Guardian) Name() model.APISource {
	return model.SourceGuardian
}

// Search queries the newest articles with body and trail text
func (s *Guardian) Search(ctx context.Context, query string, pageSize int) ([]model.ArticleRecord, error) {
	if s.apiKey == "" {
		return nil, eris.Wrap(ErrMissingCredential, "guardian")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page-size", strconv.Itoa(pageSize))
	params.Set("order-by", "newest")
	params.Set("show-fields", "bodyText,trailText")
	cacheID := s.baseURL + "/search?" + params.Encode()

	params.Set("api-key", s.apiKey)
	reqURL := s.baseURL + "/search?" + params.Encode()

	var resp guardianResponse
	if err := s.client.getJSON(ctx, reqURL, cacheID, nil, &resp, guardianError); err != nil {
		return nil, eris.Wrap(err, "guardian")
	}

	records := make([]model.ArticleRecord, 0, len(resp.Response.Results))
	for _, r := range resp.Response.Results {
		records = append(records, model.ArticleRecord{
			Title:       firstNonEmpty(r.WebTitle, "No title"),
			Source:      GuardianPublisher,
			URL:         r.WebURL,
			PublishedAt: r.WebPublicationDate,
			Content:     firstNonEmpty(r.Fields.BodyText, r.Fields.TrailText),
			APISource:   model.SourceGuardian,
		})
	}
	return records, nil
}

func (r *guardianResponse) check() error {
	if r.Response.Status != "ok" {
		return eris.Wrapf(ErrBadStatus, "status %q: %s", r.Response.Status, r.Response.Message)
	}
	return nil
}

func guardianError(body []byte) string {
	var resp guardianResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return firstNonEmpty(resp.Response.Message, resp.Message)
}
