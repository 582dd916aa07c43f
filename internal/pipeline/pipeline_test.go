package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/newslens/internal/config"
	"github.com/ppiankov/newslens/internal/llm"
	"github.com/ppiankov/newslens/internal/llm/llmtest"
	"github.com/ppiankov/newslens/internal/model"
	"github.com/ppiankov/newslens/internal/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newsServer serves both upstream APIs. The query "nothing" yields no articles.
func newsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/everything", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") == "nothing" {
			_, _ = w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":2,"articles":[
			{"source":{"name":"Reuters"},"title":"Budget passes","url":"https://example.com/a","publishedAt":"2026-01-01T00:00:00Z","description":"The budget passed <b>easily</b>."},
			{"source":{"name":"AP"},"title":"Empty item","url":"https://example.com/b","publishedAt":"2026-01-01T01:00:00Z"}
		]}`))
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("q") == "nothing" {
			_, _ = w.Write([]byte(`{"response":{"status":"ok","total":0,"results":[]}}`))
			return
		}
		_, _ = w.Write([]byte(`{"response":{"status":"ok","total":2,"results":[
			{"webTitle":"Opposition walks out","webUrl":"https://theguardian.com/c","webPublicationDate":"2026-01-02T00:00:00Z","fields":{"bodyText":"The opposition walked out of parliament."}},
			{"webTitle":"Broken reply","webUrl":"https://theguardian.com/d","webPublicationDate":"2026-01-02T01:00:00Z","fields":{"trailText":"Trail only."}}
		]}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.Sources.NewsAPI.BaseURL = baseURL
	cfg.Sources.NewsAPI.APIKey = "news-key"
	cfg.Sources.Guardian.BaseURL = baseURL
	cfg.Sources.Guardian.APIKey = "guardian-key"
	cfg.Cache.Enabled = false
	cfg.RateLimit.RequestsPerSecond = 1000
	cfg.RateLimit.Burst = 100
	return &cfg
}

func analyzerFake() *llmtest.Provider {
	return &llmtest.Provider{Respond: func(req llm.CompletionRequest) (string, error) {
		switch {
		case strings.Contains(req.Prompt, "Broken reply"):
			return "I cannot answer that", nil
		case strings.Contains(req.Prompt, "Opposition"):
			return `{"gist":"Opposition left.","sentiment":"Negative","tone":"critical","key_entities":["Opposition"]}`, nil
		default:
			return `{"gist":"Budget passed.","sentiment":"positive","tone":"informative","key_entities":["Parliament"]}`, nil
		}
	}}
}

func validatorFake() *llmtest.Provider {
	return &llmtest.Provider{Respond: func(req llm.CompletionRequest) (string, error) {
		if strings.Contains(req.Prompt, "Opposition") {
			return `{"is_valid": false, "justification": "Tone overstated.", "suggested_corrections": ["Use analytical"]}`, nil
		}
		return `{"is_valid": true, "justification": "Accurate.", "suggested_corrections": []}`, nil
	}}
}

func TestRun_EndToEnd(t *testing.T) {
	srv := newsServer(t)
	out := filepath.Join(t.TempDir(), "output")
	analyzer, validator := analyzerFake(), validatorFake()
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	p := New(context.Background(), testConfig(srv.URL), nil,
		WithAnalyzerProvider(analyzer),
		WithValidatorProvider(validator),
		WithClock(func() time.Time { return fixed }))
	defer func() { _ = p.Close() }()

	res, err := p.Run(context.Background(), "India politics", 4, out)
	require.NoError(t, err)

	require.Len(t, res.Records, 4)
	assert.NotEmpty(t, res.RunID)
	for _, r := range res.Records {
		assert.NotNil(t, r.Analysis, r.Title)
		assert.NotNil(t, r.Validation, r.Title)
	}

	// NewsAPI records come first
	assert.Equal(t, model.SourceNewsAPI, res.Records[0].APISource)
	assert.Equal(t, model.SourceGuardian, res.Records[3].APISource)

	s := res.Stats
	assert.Equal(t, 4, s.TotalArticles)
	assert.Equal(t, 3, s.AnalysisSuccess)
	assert.Equal(t, 1, s.AnalysisFailed)
	assert.Equal(t, 3, s.ValidationSuccess)
	assert.Equal(t, 1, s.ValidationFailed)
	assert.Equal(t, 2, s.ValidationCorrect)
	assert.Equal(t, 1, s.ValidationIncorrect)
	assert.Equal(t, 1, s.SentimentCounts[model.SentimentNegative])
	assert.Equal(t, 1, s.ToneCounts[model.ToneUnknown])

	// The empty article never reaches the analyzer; the failed one never reaches the validator
	assert.Len(t, analyzer.Calls(), 3)
	assert.Len(t, validator.Calls(), 3)

	for _, path := range []string{res.Outputs.RawArticles, res.Outputs.AnalysisReports, res.Outputs.FinalReport} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	raw, err := os.ReadFile(res.Outputs.RawArticles)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"analysis"`)
	assert.NotContains(t, string(raw), `"validation"`)
	assert.Contains(t, string(raw), "<b>easily</b>")

	full, err := ReadFullJSON(res.Outputs.AnalysisReports)
	require.NoError(t, err)
	require.Len(t, full, 4)
	assert.Equal(t, model.AnalysisFailed, full[3].Analysis.Status)
	assert.Equal(t, model.ValidationSkipped, full[3].Validation.Status)

	md, err := os.ReadFile(res.Outputs.FinalReport)
	require.NoError(t, err)
	assert.Contains(t, string(md), "**Run ID:** "+res.RunID)
	assert.Contains(t, string(md), "**Date:** 2026-03-01 12:00:00")
	assert.Contains(t, string(md), "**Analysis Success Rate:** 3/4 (75.0%)")
}

func TestRun_NoArticlesIsFatal(t *testing.T) {
	srv := newsServer(t)
	out := filepath.Join(t.TempDir(), "output")

	p := New(context.Background(), testConfig(srv.URL), nil,
		WithAnalyzerProvider(analyzerFake()),
		WithValidatorProvider(validatorFake()))

	res, err := p.Run(context.Background(), "nothing", 4, out)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, news.ErrNoArticles))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output directory on a failed fetch")
}

func TestRun_HTTPMaxBodyBytesApplies(t *testing.T) {
	srv := newsServer(t)
	cfg := testConfig(srv.URL)
	cfg.HTTP.MaxBodyBytes = 8

	p := New(context.Background(), cfg, nil,
		WithAnalyzerProvider(analyzerFake()),
		WithValidatorProvider(validatorFake()))

	_, err := p.Run(context.Background(), "India politics", 4, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, news.ErrNoArticles))
}

func TestRun_MissingLLMKeysDegrade(t *testing.T) {
	srv := newsServer(t)
	cfg := testConfig(srv.URL)
	cfg.Analyzer.APIKey = ""
	cfg.Validator.APIKey = ""

	p := New(context.Background(), cfg, nil)
	res, err := p.Run(context.Background(), "India politics", 4, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Stats.AnalysisSuccess)
	assert.Equal(t, 4, res.Stats.AnalysisFailed)
	assert.Equal(t, 0, res.Stats.ValidationSuccess)
	assert.Equal(t, 4, res.Stats.ValidationFailed)
	for _, r := range res.Records {
		assert.Contains(t, r.Analysis.Error, "analyzer_unavailable")
		assert.Equal(t, model.ValidationSkipped, r.Validation.Status)
	}
}

func TestRun_MissingNewsKeyUsesOtherSource(t *testing.T) {
	srv := newsServer(t)
	cfg := testConfig(srv.URL)
	cfg.Sources.NewsAPI.APIKey = ""

	p := New(context.Background(), cfg, nil,
		WithAnalyzerProvider(analyzerFake()),
		WithValidatorProvider(validatorFake()))
	res, err := p.Run(context.Background(), "India politics", 4, t.TempDir())
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	for _, r := range res.Records {
		assert.Equal(t, model.SourceGuardian, r.APISource)
	}
}

func TestFetch_WritesRawOnly(t *testing.T) {
	srv := newsServer(t)
	out := t.TempDir()

	p := New(context.Background(), testConfig(srv.URL), nil,
		WithAnalyzerProvider(analyzerFake()),
		WithValidatorProvider(validatorFake()))
	records, path, err := p.Fetch(context.Background(), "India politics", 4, out)
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, filepath.Join(out, RawArticlesFile), path)

	var decoded []map[string]any
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Len(t, decoded, 4)

	_, err = os.Stat(filepath.Join(out, AnalysisReportsFile))
	assert.True(t, os.IsNotExist(err))
}
