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

var batchTimeout time.Duration

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Run the pipeline for every query in a file",
	Long: `Batch runs the full pipeline once per query, one query after another:
- Read queries from the input file (one per line, # starts a comment)
- Skip duplicate queries
- Write each query's reports to its own subdirectory of the output directory
- Keep going when a query fails

Example:
  newslens batch queries.txt
  newslens batch queries.txt --count 8 --output-dir ./reports --timeout 1h`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVarP(&count, "count", "n", 0, "target number of articles per query (default from config)")
	batchCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "root output directory (default from config)")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable response cache (force fresh requests)")
	batchCmd.Flags().BoolVar(&enrich, "enrich", false, "fetch article pages for records without content")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", time.Hour, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	queries, err := pipeline.ReadQueries(file)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return fmt.Errorf("no queries found in %s", file)
	}

	cfg, logger, err := loadConfig(func(c *config.Config) {
		// batch has no --query flag; the file supplies them
		applyRunFlags(cmd)(c)
		c.Query = queries[0]
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	banner("Newslens Batch Processing")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Queries:      %d\n", len(queries))
	fmt.Fprintf(os.Stderr, "  Target:       %d articles per query\n", cfg.TargetCount)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", cfg.OutputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	p := pipeline.New(ctx, cfg, logger)
	defer func() { _ = p.Close() }()

	start := time.Now()
	results := p.RunBatch(ctx, queries, cfg.TargetCount, cfg.OutputDir)

	succeeded, failed := 0, 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Query, r.Error)
			continue
		}
		succeeded++
		s := r.Result.Stats
		fmt.Printf("✓ %s: %d articles, analysis %d/%d, validation %d/%d -> %s\n",
			r.Query, s.TotalArticles, s.AnalysisSuccess, s.TotalArticles,
			s.ValidationSuccess, s.TotalArticles, r.OutputDir)
	}

	banner("Batch Complete")
	fmt.Fprintf(os.Stderr, "  Total queries:  %d\n", len(results))
	fmt.Fprintf(os.Stderr, "  Successful:     %d\n", succeeded)
	fmt.Fprintf(os.Stderr, "  Failed:         %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Duration:       %v\n", time.Since(start).Round(time.Second))
	fmt.Fprintf(os.Stderr, "\n")

	if succeeded == 0 {
		return fmt.Errorf("all %d queries failed", failed)
	}
	return nil
}
