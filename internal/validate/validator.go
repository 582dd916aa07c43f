// Package validate runs the second LLM pass: an independent model critiques
// each analysis against the article it was produced from.
package validate

import (
	"context"
	"fmt"

	"github.com/ppiankov/newslens/internal/llm"
	"github.com/ppiankov/newslens/internal/model"
	"go.uber.org/zap"
)

// MaxContentChars caps the article text shown to the validator
const MaxContentChars = 2000

var verdictSchema = llm.MustSchema(`{
	"type": "object",
	"required": ["is_valid", "justification", "suggested_corrections"],
	"properties": {
		"is_valid": {"type": "boolean"},
		"justification": {"type": "string"},
		"suggested_corrections": {"type": "array", "items": {"type": "string"}}
	}
}`)

type verdict struct {
	IsValid              bool     `json:"is_valid"`
	Justification        string   `json:"justification"`
	SuggestedCorrections []string `json:"suggested_corrections"`
}

// Validator attaches a ValidationResult to each record
type Validator struct {
	provider    llm.Provider
	unavailable string
	logger      *zap.Logger
}

// Summary counts the outcomes of one ValidateAll call
type Summary struct {
	Valid   int
	Invalid int
	Skipped int
	Failed  int
}

// New creates a Validator backed by provider
func New(provider llm.Provider, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{provider: provider, logger: logger}
}

// Unavailable creates a Validator that skips every record with reason
func Unavailable(reason string, logger *zap.Logger) *Validator {
	v := New(nil, logger)
	v.unavailable = reason
	return v
}

// ValidateAll validates records in order, in place
func (v *Validator) ValidateAll(ctx context.Context, records []model.ArticleRecord) Summary {
	var sum Summary
	if v.provider == nil {
		v.logger.Warn("validator unavailable, skipping validation", zap.String("reason", v.unavailable))
	}

	for i := range records {
		res := v.Validate(ctx, records[i])
		records[i].Validation = res

		log := v.logger.With(zap.Int("article", i+1), zap.String("title", llm.Clip(records[i].Title, 60)))
		switch res.Status {
		case model.ValidationCompleted:
			if res.Validation.IsValid {
				sum.Valid++
			} else {
				sum.Invalid++
			}
			log.Info("validated", zap.String("verdict", res.Validation.Symbol))
		case model.ValidationSkipped:
			sum.Skipped++
			log.Debug("validation skipped", zap.String("reason", res.Validation.Justification))
		default:
			sum.Failed++
			log.Warn("validation failed", zap.String("reason", res.Error))
		}
	}
	return sum
}

// Validate returns the validation outcome for one record. It never returns nil.
func (v *Validator) Validate(ctx context.Context, record model.ArticleRecord) *model.ValidationResult {
	if v.provider == nil {
		return model.ValidationSkip("validator_unavailable: " + v.unavailable)
	}
	if !record.Analysis.Succeeded() {
		return model.ValidationSkip("")
	}

	a := record.Analysis.Analysis
	resp, err := v.provider.Complete(ctx, llm.CompletionRequest{
		Prompt: BuildPrompt(record.Title, llm.Clip(record.Content, MaxContentChars), *a),
		JSON:   true,
	})
	if err != nil {
		return model.ValidationError(err.Error())
	}

	var out verdict
	if err := llm.DecodeReply(resp.Text, verdictSchema, llm.DecodeOptions{}, &out); err != nil {
		return model.ValidationError(err.Error())
	}

	return model.ValidationOK(model.NewValidation(out.IsValid, out.Justification, out.SuggestedCorrections))
}

// BuildPrompt renders the validation instruction for one analysis.
// content is expected to be clipped already.
func BuildPrompt(title, content string, a model.Analysis) string {
	return fmt.Sprintf(`You are a fact-checking validator. Review the following news article analysis and determine if it's accurate.

Original Article:
Title: %s
Content: %s

Analysis to Validate:
- Gist: %s
- Sentiment: %s
- Tone: %s

Your task:
1. Check if the gist accurately summarizes the article
2. Verify if the sentiment (positive/negative/neutral) matches the article's content
3. Confirm if the tone classification is appropriate
4. Identify any errors or misinterpretations

Respond ONLY with valid JSON in this exact format:
{
    "is_valid": true or false,
    "justification": "Brief explanation of why the analysis is correct or incorrect",
    "suggested_corrections": ["List any specific corrections needed, empty list if none"]
}

Rules:
- is_valid: true if analysis is mostly accurate, false if there are significant errors
- justification: 1-2 sentences explaining your assessment
- suggested_corrections: specific issues found, or empty list if analysis is correct`, title, content, a.Gist, a.Sentiment, a.Tone)
}
