package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/newslens/internal/pipeline"
	"github.com/spf13/cobra"
)

var reportOut string

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <analysis_reports.json>",
	Short: "Re-render the Markdown report from a saved analysis file",
	Long: `Report recomputes summary statistics from an analysis_reports.json written
by a previous run and renders final_report.md again. No network calls are made.

Example:
  newslens report output/analysis_reports.json
  newslens report output/analysis_reports.json --md /tmp/report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportOut, "md", "", "output Markdown path (default: final_report.md next to the input)")
}

func runReport(cmd *cobra.Command, args []string) error {
	in := args[0]
	out := reportOut
	if out == "" {
		out = filepath.Join(filepath.Dir(in), pipeline.FinalReportFile)
	}

	summary, err := pipeline.Report(in, out, time.Now())
	if err != nil {
		return fmt.Errorf("report failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Articles: %d, analysis success: %d, validation success: %d\n",
			summary.TotalArticles, summary.AnalysisSuccess, summary.ValidationSuccess)
	}
	fmt.Printf("✓ Wrote Markdown report: %s\n", out)
	return nil
}
