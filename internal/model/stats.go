package model

// SummaryStats holds the aggregate counts for one run
type SummaryStats struct {
	TotalArticles       int               `json:"total_articles"`
	SentimentCounts     map[Sentiment]int `json:"sentiment_counts"`
	ToneCounts          map[Tone]int      `json:"tone_counts"`
	AnalysisSuccess     int               `json:"analysis_success"`
	AnalysisFailed      int               `json:"analysis_failed"`
	ValidationSuccess   int               `json:"validation_success"`
	ValidationFailed    int               `json:"validation_failed"`
	ValidationCorrect   int               `json:"validation_correct"`
	ValidationIncorrect int               `json:"validation_incorrect"`
}

// NewSummaryStats returns zeroed stats with every sentiment key present
func NewSummaryStats() SummaryStats {
	counts := make(map[Sentiment]int, len(Sentiments))
	for _, s := range Sentiments {
		counts[s] = 0
	}
	return SummaryStats{
		SentimentCounts: counts,
		ToneCounts:      make(map[Tone]int),
	}
}
