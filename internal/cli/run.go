package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/newslens/internal/config"
	"github.com/ppiankov/newslens/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	query     string
	count     int
	outputDir string
	noCache   bool
	enrich    bool
	timeout   time.Duration
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, analyze and validate articles, then write reports",
	Long: `Run executes the whole pipeline once:
- Fetch up to count/2 articles from each of NewsAPI and the Guardian
- Optionally fetch full text for articles that arrived without content
- Analyze every article with the analyzer LLM
- Validate every successful analysis with the validator LLM
- Write raw_articles.json, analysis_reports.json and final_report.md

Example:
  newslens run
  newslens run --query "climate policy" --count 20 --output-dir ./reports
  newslens run --no-cache --enrich`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&enrich, "enrich", false, "fetch article pages for records without content")
}

// addRunFlags registers the flags shared by run and fetch
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&query, "query", "q", "", "search query (default from config)")
	cmd.Flags().IntVarP(&count, "count", "n", 0, "target number of articles across both sources (default from config)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "output directory (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response cache (force fresh requests)")
	cmd.Flags().DurationVar(&timeout, "timeout", 15*time.Minute, "overall run timeout")
}

// applyRunFlags copies explicitly set flags over the loaded config
func applyRunFlags(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("query") {
			cfg.Query = query
		}
		if flags.Changed("count") {
			cfg.TargetCount = count
		}
		if flags.Changed("output-dir") {
			cfg.OutputDir = outputDir
		}
		if noCache {
			cfg.Cache.Enabled = false
		}
		if flags.Changed("enrich") {
			cfg.Enrich.Enabled = enrich
		}
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(applyRunFlags(cmd))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	banner("Newslens Dual-LLM News Analysis")
	fmt.Fprintf(os.Stderr, "  Query:        %s\n", cfg.Query)
	fmt.Fprintf(os.Stderr, "  Target:       %d articles\n", cfg.TargetCount)
	fmt.Fprintf(os.Stderr, "  Analyzer:     %s/%s\n", cfg.Analyzer.Provider, cfg.Analyzer.Model)
	fmt.Fprintf(os.Stderr, "  Validator:    %s/%s\n", cfg.Validator.Provider, cfg.Validator.Model)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.OutputDir)
	fmt.Fprintf(os.Stderr, "  Cache:        %v\n", cfg.Cache.Enabled)
	fmt.Fprintf(os.Stderr, "  Enrich:       %v\n", cfg.Enrich.Enabled)
	fmt.Fprintf(os.Stderr, "  Start time:   %s\n", time.Now().Format(time.DateTime))
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.New(ctx, cfg, logger)
	defer func() { _ = p.Close() }()

	res, err := p.Run(ctx, cfg.Query, cfg.TargetCount, cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("pipeline failed: %w", err)
	}

	printRunSummary(res)
	return nil
}

func printRunSummary(res *pipeline.RunResult) {
	s := res.Stats
	banner("Pipeline Complete")
	fmt.Fprintf(os.Stderr, "  Run ID:              %s\n", res.RunID)
	fmt.Fprintf(os.Stderr, "  End time:            %s\n", time.Now().Format(time.DateTime))
	fmt.Fprintf(os.Stderr, "  Duration:            %v\n", res.Duration.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  Articles processed:  %d\n", s.TotalArticles)
	if res.Enriched > 0 {
		fmt.Fprintf(os.Stderr, "  Enriched:            %d\n", res.Enriched)
	}
	fmt.Fprintf(os.Stderr, "  Analysis success:    %d/%d\n", s.AnalysisSuccess, s.TotalArticles)
	fmt.Fprintf(os.Stderr, "  Validation success:  %d/%d\n", s.ValidationSuccess, s.TotalArticles)
	fmt.Fprintf(os.Stderr, "\n")

	fmt.Printf("✓ Wrote raw articles: %s\n", res.Outputs.RawArticles)
	fmt.Printf("✓ Wrote analysis reports: %s\n", res.Outputs.AnalysisReports)
	fmt.Printf("✓ Wrote Markdown report: %s\n", res.Outputs.FinalReport)
}
