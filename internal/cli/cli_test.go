package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ppiankov/newslens/internal/model"
	"github.com/ppiankov/newslens/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetOut(nil)

	require.NoError(t, Execute())
	assert.Equal(t, "newslens "+Version+"\n", out.String())
}

func TestReportCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, pipeline.AnalysisReportsFile)
	records := []model.ArticleRecord{{
		Title:      "Budget passes",
		Source:     "Reuters",
		URL:        "https://example.com/a",
		Analysis:   model.AnalysisOK(model.NoContentAnalysis()),
		Validation: model.ValidationSkip(""),
	}}
	require.NoError(t, pipeline.NewRenderer().WriteFullJSON(in, records))

	rootCmd.SetArgs([]string{"report", in})
	require.NoError(t, Execute())

	md, err := os.ReadFile(filepath.Join(dir, pipeline.FinalReportFile))
	require.NoError(t, err)
	assert.Contains(t, string(md), "### Article 1: \"Budget passes\"")
	assert.Contains(t, string(md), "- **Validation:** [SKIPPED]")
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfgFile = path
	defer func() { cfgFile = "" }()

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	require.NoError(t, Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "target_count: 12")
	assert.Contains(t, string(data), "OPEN_ROUTER_API")

	rootCmd.SetArgs([]string{"config", "init", "--config", path})
	assert.Error(t, Execute(), "refuses to overwrite")
}

func TestBatchCommand_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n\n"), 0o644))

	rootCmd.SetArgs([]string{"batch", path})
	assert.Error(t, Execute())
}
