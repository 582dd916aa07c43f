// Package pipeline wires fetching, enrichment, both LLM passes, statistics
// and rendering into one sequential run.
package pipeline

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ppiankov/newslens/internal/analyze"
	"github.com/ppiankov/newslens/internal/cache"
	"github.com/ppiankov/newslens/internal/config"
	"github.com/ppiankov/newslens/internal/enrich"
	"github.com/ppiankov/newslens/internal/llm"
	"github.com/ppiankov/newslens/internal/model"
	"github.com/ppiankov/newslens/internal/news"
	"github.com/ppiankov/newslens/internal/stats"
	"github.com/ppiankov/newslens/internal/util"
	"github.com/ppiankov/newslens/internal/validate"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Pipeline orchestrates the complete run
type Pipeline struct {
	cfg      *config.Config
	fetcher  *news.Fetcher
	enricher *enrich.Enricher // nil when enrichment is disabled
	renderer *Renderer
	logger   *zap.Logger

	analyzerLLM     llm.Provider
	analyzerReason  string
	validatorLLM    llm.Provider
	validatorReason string

	now func() time.Time
}

// Option customizes a Pipeline
type Option func(*Pipeline)

// WithAnalyzerProvider replaces the configured analyzer LLM
func WithAnalyzerProvider(p llm.Provider) Option {
	return func(pl *Pipeline) { pl.analyzerLLM = p }
}

// WithValidatorProvider replaces the configured validator LLM
func WithValidatorProvider(p llm.Provider) Option {
	return func(pl *Pipeline) { pl.validatorLLM = p }
}

// WithClock sets the time source used for report headers
func WithClock(now func() time.Time) Option {
	return func(pl *Pipeline) { pl.now = now }
}

// New builds a pipeline from cfg. LLM providers that cannot be created
// (usually a missing API key) leave their stage degraded rather than failing.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pipeline{
		cfg:      cfg,
		renderer: NewRenderer(),
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	httpClient := util.NewHTTPClient(cfg.HTTP.Timeout(), cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
	limiter := util.NewLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	var c cache.Cache
	if cfg.Cache.Enabled {
		c = cache.New(cfg.Cache.Dir, cfg.Cache.TTL())
	}

	p.fetcher = news.NewFetcher(logger.Named("fetch"), sources(cfg, httpClient, c, limiter)...)

	if cfg.Enrich.Enabled {
		var robots *util.RobotsChecker
		if cfg.Enrich.RespectRobots {
			robots = util.NewRobotsChecker(cfg.HTTP.UserAgent, httpClient)
		}
		fetcher := enrich.NewPageFetcher(httpClient, cfg.HTTP.UserAgent, cfg.Enrich.MaxBodyBytes)
		p.enricher = enrich.NewEnricher(fetcher, robots, limiter, cfg.Enrich.MinChars, logger.Named("enrich"))
	}

	llmOpts := llm.Options{Limiter: limiter, Logger: logger.Named("llm")}
	if c != nil {
		llmOpts.Cache = c
		llmOpts.CacheTTL = cfg.Cache.TTL()
	}
	if p.analyzerLLM == nil {
		p.analyzerLLM, p.analyzerReason = open(ctx, llm.ConfigFrom(cfg.Analyzer, cfg.HTTP), llmOpts)
	}
	if p.validatorLLM == nil {
		p.validatorLLM, p.validatorReason = open(ctx, llm.ConfigFrom(cfg.Validator, cfg.HTTP), llmOpts)
	}

	return p
}

func open(ctx context.Context, cfg llm.Config, opts llm.Options) (llm.Provider, string) {
	p, err := llm.Open(ctx, cfg, opts)
	if err != nil {
		return nil, err.Error()
	}
	return p, ""
}

func sources(cfg *config.Config, httpClient *http.Client, c cache.Cache, limiter *util.Limiter) []news.Source {
	client := &news.Client{
		HTTP:         httpClient,
		UserAgent:    cfg.HTTP.UserAgent,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
		Cache:        c,
		CacheTTL:     cfg.Cache.TTL(),
		Limiter:      limiter,
	}

	var out []news.Source
	if s := cfg.Sources.NewsAPI; s.Enabled {
		out = append(out, news.NewNewsAPI(client, s.BaseURL, s.APIKey))
	}
	if s := cfg.Sources.Guardian; s.Enabled {
		out = append(out, news.NewGuardian(client, s.BaseURL, s.APIKey))
	}
	return out
}

// Close releases LLM clients
func (p *Pipeline) Close() error {
	var firstErr error
	for _, prov := range []llm.Provider{p.analyzerLLM, p.validatorLLM} {
		if prov == nil {
			continue
		}
		if err := prov.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// RunResult is everything a run produced
type RunResult struct {
	RunID      string
	Query      string
	Records    []model.ArticleRecord
	Stats      model.SummaryStats
	Enriched   int
	Analysis   analyze.Summary
	Validation validate.Summary
	Outputs    Outputs
	Duration   time.Duration
}

// Run executes fetch, enrich, analyze, validate and report for query,
// writing artifacts to outputDir. Zero fetched articles is the only fatal
// stage failure.
func (p *Pipeline) Run(ctx context.Context, query string, target int, outputDir string) (*RunResult, error) {
	start := p.now()
	res := &RunResult{
		RunID:   uuid.NewString(),
		Query:   query,
		Outputs: OutputsIn(outputDir),
	}
	log := p.logger.With(zap.String("run_id", res.RunID))

	records, err := p.fetch(ctx, query, target, res.Outputs.RawArticles)
	if err != nil {
		return nil, err
	}
	log.Info("fetch complete", zap.Int("articles", len(records)))

	if p.enricher != nil {
		res.Enriched = p.enricher.EnrichAll(ctx, records)
		log.Info("enrichment complete", zap.Int("enriched", res.Enriched))
	}

	var analyzer *analyze.Analyzer
	if p.analyzerLLM != nil {
		analyzer = analyze.New(p.analyzerLLM, query, log.Named("analyze"))
	} else {
		analyzer = analyze.Unavailable(p.analyzerReason, log.Named("analyze"))
	}
	res.Analysis = analyzer.AnalyzeAll(ctx, records)

	var validator *validate.Validator
	if p.validatorLLM != nil {
		validator = validate.New(p.validatorLLM, log.Named("validate"))
	} else {
		validator = validate.Unavailable(p.validatorReason, log.Named("validate"))
	}
	res.Validation = validator.ValidateAll(ctx, records)

	res.Records = records
	res.Stats = stats.Calculate(records)

	if err := p.renderer.WriteFullJSON(res.Outputs.AnalysisReports, records); err != nil {
		return nil, err
	}
	meta := ReportMeta{RunID: res.RunID, Query: query, GeneratedAt: p.now()}
	if err := p.renderer.WriteMarkdown(res.Outputs.FinalReport, records, res.Stats, meta); err != nil {
		return nil, err
	}

	res.Duration = p.now().Sub(start)
	log.Info("run complete",
		zap.Int("articles", res.Stats.TotalArticles),
		zap.Int("analysis_success", res.Stats.AnalysisSuccess),
		zap.Int("validation_success", res.Stats.ValidationSuccess),
		zap.Duration("duration", res.Duration))
	return res, nil
}

// Fetch runs only the fetch stage and writes raw_articles.json to outputDir
func (p *Pipeline) Fetch(ctx context.Context, query string, target int, outputDir string) ([]model.ArticleRecord, string, error) {
	path := OutputsIn(outputDir).RawArticles
	records, err := p.fetch(ctx, query, target, path)
	if err != nil {
		return nil, "", err
	}
	return records, path, nil
}

func (p *Pipeline) fetch(ctx context.Context, query string, target int, rawPath string) ([]model.ArticleRecord, error) {
	records, err := p.fetcher.FetchAll(ctx, query, target)
	if err != nil {
		return nil, eris.Wrap(err, "fetch")
	}
	if err := p.renderer.WriteRawJSON(rawPath, records); err != nil {
		return nil, err
	}
	return records, nil
}

// Report recomputes statistics from a saved analysis_reports.json and
// writes the Markdown report to outPath
func Report(inPath, outPath string, now time.Time) (model.SummaryStats, error) {
	records, err := ReadFullJSON(inPath)
	if err != nil {
		return model.SummaryStats{}, err
	}
	summary := stats.Calculate(records)
	if err := NewRenderer().WriteMarkdown(outPath, records, summary, ReportMeta{GeneratedAt: now}); err != nil {
		return model.SummaryStats{}, err
	}
	return summary, nil
}
