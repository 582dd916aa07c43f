package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ppiankov/newslens/internal/model"
	"github.com/ppiankov/newslens/internal/stats"
	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Output file names inside the output directory
const (
	RawArticlesFile     = "raw_articles.json"
	AnalysisReportsFile = "analysis_reports.json"
	FinalReportFile     = "final_report.md"
)

// Outputs holds the paths written by a run
type Outputs struct {
	RawArticles     string `json:"raw_articles"`
	AnalysisReports string `json:"analysis_reports"`
	FinalReport     string `json:"final_report"`
}

// OutputsIn returns the standard output paths under dir
func OutputsIn(dir string) Outputs {
	return Outputs{
		RawArticles:     filepath.Join(dir, RawArticlesFile),
		AnalysisReports: filepath.Join(dir, AnalysisReportsFile),
		FinalReport:     filepath.Join(dir, FinalReportFile),
	}
}

// ReportMeta is the run information printed in the Markdown header
type ReportMeta struct {
	RunID       string
	Query       string
	GeneratedAt time.Time
}

// Renderer writes the JSON and Markdown artifacts
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// WriteRawJSON writes records without analysis or validation
func (r *Renderer) WriteRawJSON(path string, records []model.ArticleRecord) error {
	return writeJSON(path, model.RawRecords(records))
}

// WriteFullJSON writes records with every field
func (r *Renderer) WriteFullJSON(path string, records []model.ArticleRecord) error {
	return writeJSON(path, records)
}

// ReadFullJSON loads a file written by WriteFullJSON
func ReadFullJSON(path string) ([]model.ArticleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var records []model.ArticleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	return records, nil
}

// WriteMarkdown renders the report and writes it to path
func (r *Renderer) WriteMarkdown(path string, records []model.ArticleRecord, summary model.SummaryStats, meta ReportMeta) error {
	return writeFile(path, []byte(r.Markdown(records, summary, meta)))
}

// Markdown renders the human-readable report
func (r *Renderer) Markdown(records []model.ArticleRecord, summary model.SummaryStats, meta ReportMeta) string {
	title := cases.Title(language.English)
	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("# News Analysis Report")
	line("")
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = time.Now()
	}
	line("**Date:** %s", meta.GeneratedAt.Format(time.DateTime))
	if meta.RunID != "" {
		line("**Run ID:** %s", meta.RunID)
	}
	if meta.Query != "" {
		line("**Query:** %s", meta.Query)
	}
	line("**Articles Analyzed:** %d", summary.TotalArticles)
	line("**Source:** NewsAPI + Guardian API")
	line("")

	line("## Summary")
	line("")
	for _, s := range model.Sentiments {
		line("- **%s:** %d articles", title.String(string(s)), summary.SentimentCounts[s])
	}
	line("")
	line("**Analysis Success Rate:** %s", ratio(summary.AnalysisSuccess, summary.TotalArticles))
	line("**Validation Success Rate:** %s", ratio(summary.ValidationSuccess, summary.TotalArticles))
	if summary.ValidationSuccess > 0 {
		line("**Validation Accuracy:** %s", ratio(summary.ValidationCorrect, summary.ValidationSuccess))
	}
	line("")

	if ranked := stats.RankTones(summary.ToneCounts); len(ranked) > 0 {
		line("### Tone Distribution")
		line("")
		for _, tc := range ranked {
			line("- **%s:** %d articles", title.String(string(tc.Tone)), tc.Count)
		}
		line("")
	}

	line("---")
	line("")
	line("## Detailed Analysis")
	line("")

	for i, rec := range records {
		line("### Article %d: \"%s\"", i+1, rec.Title)
		line("")
		line("- **Source:** %s", rec.Source)
		line("- **URL:** [%s](%s)", rec.URL, rec.URL)
		line("")

		if rec.Analysis.Succeeded() {
			a := rec.Analysis.Analysis
			line("- **Gist:** %s", a.Gist)
			line("- **LLM#1 Sentiment:** %s", title.String(string(a.Sentiment)))
			line("- **Tone:** %s", title.String(string(a.Tone)))
			if len(a.KeyEntities) > 0 {
				line("- **Key Entities:** %s", strings.Join(a.KeyEntities, ", "))
			}
		} else {
			line("- **Analysis:** [FAILED]")
		}
		line("")

		switch v := rec.Validation; {
		case v.Completed():
			verdict := "Incorrect"
			if v.Validation.IsValid {
				verdict = "Correct"
			}
			line("- **LLM#2 Validation:** %s %s", v.Validation.Symbol, verdict)
			line("- **Justification:** %s", v.Validation.Justification)
			if len(v.Validation.SuggestedCorrections) > 0 {
				line("- **Suggested Corrections:**")
				for _, c := range v.Validation.SuggestedCorrections {
					line("  - %s", c)
				}
			}
		case v.Skipped():
			line("- **Validation:** %s", model.SymbolSkipped)
		default:
			line("- **Validation:** [FAILED]")
		}
		line("")
		line("---")
		line("")
	}

	return b.String()
}

// ratio formats "n/total (x.y%)"
func ratio(n, total int) string {
	return fmt.Sprintf("%d/%d (%.1f%%)", n, total, stats.Percent(n, total))
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrapf(err, "encode %s", filepath.Base(path))
	}
	return writeFile(path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "create output directory")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", path)
	}
	return nil
}
