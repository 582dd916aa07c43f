package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadQueries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queries.txt")
	content := "# topics\nIndia politics\n\n  climate policy  \nIndia politics\n# trailing comment\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	queries, err := ReadQueries(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"India politics", "climate policy"}, queries)
}

func TestReadQueries_MissingFile(t *testing.T) {
	_, err := ReadQueries(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestQueryDir(t *testing.T) {
	tests := map[string]string{
		"India politics":       "india-politics",
		"  AI / Regulation!! ": "ai-regulation",
		"café 2026":            "café-2026",
		"???":                  "query",
	}
	for in, want := range tests {
		assert.Equal(t, want, QueryDir(in), in)
	}
}

func TestRunBatch_ContinuesPastFailures(t *testing.T) {
	srv := newsServer(t)
	root := t.TempDir()

	p := New(context.Background(), testConfig(srv.URL), nil,
		WithAnalyzerProvider(analyzerFake()),
		WithValidatorProvider(validatorFake()))

	results := p.RunBatch(context.Background(), []string{"India politics", "nothing", "india  politics"}, 4, root)
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Error)
	assert.Equal(t, filepath.Join(root, "india-politics"), results[0].OutputDir)
	assert.Error(t, results[1].Error)
	assert.Nil(t, results[1].Result)
	assert.NoError(t, results[2].Error)
	assert.Equal(t, filepath.Join(root, "india-politics-2"), results[2].OutputDir)

	_, err := os.Stat(filepath.Join(root, "india-politics", FinalReportFile))
	assert.NoError(t, err)
}
