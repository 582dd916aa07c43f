// Package stats aggregates per-article outcomes into run-level counts.
package stats

import (
	"sort"

	"github.com/ppiankov/newslens/internal/model"
)

// Calculate folds records into a SummaryStats in a single pass.
// Records without an analysis count as failed; records without a completed
// validation count toward ValidationFailed.
func Calculate(records []model.ArticleRecord) model.SummaryStats {
	s := model.NewSummaryStats()
	s.TotalArticles = len(records)

	for _, r := range records {
		if r.Analysis.Succeeded() {
			s.AnalysisSuccess++
			a := r.Analysis.Analysis
			// only the pre-filled sentiment keys are counted
			if _, ok := s.SentimentCounts[a.Sentiment]; ok {
				s.SentimentCounts[a.Sentiment]++
			}
			s.ToneCounts[a.Tone]++
		} else {
			s.AnalysisFailed++
		}

		if !r.Validation.Completed() {
			s.ValidationFailed++
			continue
		}
		s.ValidationSuccess++
		if r.Validation.Validation.IsValid {
			s.ValidationCorrect++
		} else {
			s.ValidationIncorrect++
		}
	}
	return s
}

// Percent returns part as a percentage of whole, or 0 when whole is 0
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// ToneCount is one row of a tone histogram
type ToneCount struct {
	Tone  model.Tone
	Count int
}

// RankTones orders the tone histogram by descending count, ties by name
func RankTones(counts map[model.Tone]int) []ToneCount {
	out := make([]ToneCount, 0, len(counts))
	for tone, n := range counts {
		if n > 0 {
			out = append(out, ToneCount{Tone: tone, Count: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tone < out[j].Tone
	})
	return out
}
