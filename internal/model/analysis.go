package model

// Sentiment is the overall emotional direction of an article
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Sentiments lists the sentiment values in report order
var Sentiments = []Sentiment{SentimentPositive, SentimentNegative, SentimentNeutral}

// Tone is the writing style of an article
type Tone string

const (
	ToneUrgent      Tone = "urgent"
	ToneAnalytical  Tone = "analytical"
	ToneSatirical   Tone = "satirical"
	ToneBalanced    Tone = "balanced"
	ToneCritical    Tone = "critical"
	ToneOptimistic  Tone = "optimistic"
	ToneInformative Tone = "informative"

	// ToneUnknown is only produced for records that had nothing to analyze
	ToneUnknown Tone = "unknown"
)

// Tones lists the tone values an analyzer may return
var Tones = []Tone{
	ToneUrgent, ToneAnalytical, ToneSatirical, ToneBalanced,
	ToneCritical, ToneOptimistic, ToneInformative,
}

// ErrorNoContent marks the fixed analysis used for empty articles
const ErrorNoContent = "no_content"

// Analysis is the structured output of the first LLM
type Analysis struct {
	Gist        string    `json:"gist"`
	Sentiment   Sentiment `json:"sentiment"`
	Tone        Tone      `json:"tone"`
	KeyEntities []string  `json:"key_entities"`
	Error       string    `json:"error,omitempty"` // Set to "no_content" for the short-circuit analysis
}

// NoContentAnalysis returns the fixed analysis for an article without content
func NoContentAnalysis() Analysis {
	return Analysis{
		Gist:        "No content available for analysis",
		Sentiment:   SentimentNeutral,
		Tone:        ToneUnknown,
		KeyEntities: []string{},
		Error:       ErrorNoContent,
	}
}

// AnalysisStatus tags the outcome of an analysis attempt
type AnalysisStatus string

const (
	AnalysisSucceeded AnalysisStatus = "succeeded"
	AnalysisFailed    AnalysisStatus = "failed"
)

// AnalysisResult is either a succeeded Analysis or a failure reason
type AnalysisResult struct {
	Status   AnalysisStatus `json:"status"`
	Analysis *Analysis      `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// AnalysisOK wraps a successful analysis
func AnalysisOK(a Analysis) *AnalysisResult {
	return &AnalysisResult{Status: AnalysisSucceeded, Analysis: &a}
}

// AnalysisError records a failed analysis
func AnalysisError(reason string) *AnalysisResult {
	return &AnalysisResult{Status: AnalysisFailed, Error: reason}
}

// Succeeded reports whether r holds a usable Analysis.
// A nil result counts as failed.
func (r *AnalysisResult) Succeeded() bool {
	return r != nil && r.Status == AnalysisSucceeded && r.Analysis != nil
}
