// Package analyze runs the first LLM pass: a structured gist, sentiment,
// tone and entity extraction for every article.
package analyze

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/newslens/internal/llm"
	"github.com/ppiankov/newslens/internal/model"
	"go.uber.org/zap"
)

// MaxContentChars caps the article text embedded in the prompt
const MaxContentChars = 4000

var analysisSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["gist", "sentiment", "tone", "key_entities"],
	"properties": {
		"gist": {"type": "string", "minLength": 1},
		"sentiment": {"type": "string", "enum": ["positive", "negative", "neutral"]},
		"tone": {"type": "string", "enum": ["urgent", "analytical", "satirical", "balanced", "critical", "optimistic", "informative"]},
		"key_entities": {"type": "array", "items": {"type": "string"}}
	}
}`)

// Analyzer attaches an AnalysisResult to each record
type Analyzer struct {
	provider    llm.Provider
	unavailable string
	topic       string
	logger      *zap.Logger
}

// Summary counts the outcomes of one AnalyzeAll call
type Summary struct {
	Succeeded int
	NoContent int
	Failed    int
}

// New creates an Analyzer. topic is the search query the articles were fetched for.
func New(provider llm.Provider, topic string, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{provider: provider, topic: topic, logger: logger}
}

// Unavailable creates an Analyzer that marks every record failed with reason
func Unavailable(reason string, logger *zap.Logger) *Analyzer {
	a := New(nil, "", logger)
	a.unavailable = reason
	return a
}

// AnalyzeAll analyzes records in order, in place
func (a *Analyzer) AnalyzeAll(ctx context.Context, records []model.ArticleRecord) Summary {
	var sum Summary
	if a.provider == nil {
		a.logger.Warn("analyzer unavailable, marking all articles failed", zap.String("reason", a.unavailable))
	}

	for i := range records {
		res := a.Analyze(ctx, records[i])
		records[i].Analysis = res

		log := a.logger.With(zap.Int("article", i+1), zap.String("title", llm.Clip(records[i].Title, 60)))
		switch {
		case !res.Succeeded():
			sum.Failed++
			log.Warn("analysis failed", zap.String("reason", res.Error))
		case res.Analysis.Error == model.ErrorNoContent:
			sum.NoContent++
			sum.Succeeded++
			log.Warn("article has no content, skipped LLM")
		default:
			sum.Succeeded++
			log.Info("analyzed",
				zap.String("sentiment", string(res.Analysis.Sentiment)),
				zap.String("tone", string(res.Analysis.Tone)))
		}
	}
	return sum
}

// Analyze returns the analysis outcome for one record. It never returns nil.
func (a *Analyzer) Analyze(ctx context.Context, record model.ArticleRecord) *model.AnalysisResult {
	if a.provider == nil {
		return model.AnalysisError("analyzer_unavailable: " + a.unavailable)
	}

	content := llm.Truncate(record.Content, MaxContentChars)
	if strings.TrimSpace(content) == "" || content == "No content" {
		return model.AnalysisOK(model.NoContentAnalysis())
	}

	resp, err := a.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: BuildPrompt(a.topic, record.Title, content),
		JSON:   true,
	})
	if err != nil {
		return model.AnalysisError(err.Error())
	}

	var analysis model.Analysis
	if err := llm.DecodeReply(resp.Text, analysisSchema, llm.DecodeOptions{Lowercase: []string{"sentiment", "tone"}}, &analysis); err != nil {
		return model.AnalysisError(err.Error())
	}
	if analysis.KeyEntities == nil {
		analysis.KeyEntities = []string{}
	}
	analysis.Error = ""

	return model.AnalysisOK(analysis)
}

// BuildPrompt renders the analysis instruction for one article.
// content is expected to be truncated already.
func BuildPrompt(topic, title, content string) string {
	if topic == "" {
		topic = "current affairs"
	}
	return fmt.Sprintf(`Analyze the following news article about %s and provide a structured JSON response.

Article Title: %s

Article Content:
%s

Provide your analysis in the following JSON format (respond ONLY with valid JSON, no other text):
{
    "gist": "A concise 1-2 sentence summary of the article",
    "sentiment": "positive OR negative OR neutral",
    "tone": "One of: urgent, analytical, satirical, balanced, critical, optimistic, informative",
    "key_entities": ["List of important people, organizations, or places mentioned"]
}

Rules:
- Sentiment: positive (favorable/good news), negative (unfavorable/bad news), neutral (factual/balanced)
- Tone: Choose the most appropriate tone that matches the article's writing style
- Key entities: Extract 3-5 most important names/organizations
- Respond ONLY with valid JSON, no markdown formatting or additional text`, topic, title, content)
}
