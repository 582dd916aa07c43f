package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/newslens/internal/pipeline"
	"github.com/spf13/cobra"
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch articles only and write raw_articles.json",
	Long: `Fetch queries NewsAPI and the Guardian and writes the normalized articles
without calling either LLM. Useful for checking credentials and queries.

Example:
  newslens fetch --query "India politics" --count 6`,
	Args: cobra.NoArgs,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	addRunFlags(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(applyRunFlags(cmd))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	p := pipeline.New(ctx, cfg, logger)
	defer func() { _ = p.Close() }()

	records, path, err := p.Fetch(ctx, cfg.Query, cfg.TargetCount, cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Fetched %d articles for %q\n", len(records), cfg.Query)
	fmt.Printf("✓ Wrote raw articles: %s\n", path)
	return nil
}
