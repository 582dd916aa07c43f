package pipeline

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// BatchResult is the outcome of one query in a batch
type BatchResult struct {
	Query     string
	OutputDir string
	Result    *RunResult
	Error     error
}

// RunBatch runs the pipeline once per query, one after another, each into
// its own subdirectory of outputRoot. A failing query does not stop the batch.
func (p *Pipeline) RunBatch(ctx context.Context, queries []string, target int, outputRoot string) []BatchResult {
	results := make([]BatchResult, 0, len(queries))
	used := make(map[string]int)

	for _, q := range queries {
		if err := ctx.Err(); err != nil {
			results = append(results, BatchResult{Query: q, Error: eris.Wrap(err, "batch cancelled")})
			continue
		}

		dir := QueryDir(q)
		used[dir]++
		if n := used[dir]; n > 1 {
			dir = dir + "-" + strconv.Itoa(n)
		}
		out := filepath.Join(outputRoot, dir)

		p.logger.Info("batch query", zap.String("query", q), zap.String("output_dir", out))
		res, err := p.Run(ctx, q, target, out)
		if err != nil {
			p.logger.Warn("batch query failed", zap.String("query", q), zap.Error(err))
		}
		results = append(results, BatchResult{Query: q, OutputDir: out, Result: res, Error: err})
	}
	return results
}

// ReadQueries reads one query per line, skipping blanks and # comments
// and dropping duplicates
func ReadQueries(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open queries file")
	}
	defer func() { _ = file.Close() }()

	var queries []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			queries = append(queries, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, eris.Wrap(err, "scan queries file")
	}

	return queries, nil
}

// QueryDir turns a query into a directory name: lowercase letters and
// digits joined by single dashes
func QueryDir(query string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(query) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "query"
	}
	return b.String()
}
