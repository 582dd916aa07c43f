package analyze

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/newslens/internal/llm"
	"github.com/ppiankov/newslens/internal/llm/llmtest"
	"github.com/ppiankov/newslens/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodReply = "```json\n" + `{
	"gist": "Parliament passed the budget.",
	"sentiment": "Positive",
	"tone": "informative",
	"key_entities": ["Parliament", "Finance Ministry", "Opposition"]
}` + "\n```"

func TestAnalyze_Success(t *testing.T) {
	fake := &llmtest.Provider{Replies: []string{goodReply}}
	a := New(fake, "India politics", nil)

	res := a.Analyze(context.Background(), model.ArticleRecord{Title: "Budget", Content: "The budget passed."})
	require.True(t, res.Succeeded(), "error: %s", res.Error)

	assert.Equal(t, "Parliament passed the budget.", res.Analysis.Gist)
	assert.Equal(t, model.SentimentPositive, res.Analysis.Sentiment)
	assert.Equal(t, model.ToneInformative, res.Analysis.Tone)
	assert.Equal(t, []string{"Parliament", "Finance Ministry", "Opposition"}, res.Analysis.KeyEntities)
	assert.Empty(t, res.Analysis.Error)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.True(t, calls[0].JSON)
	assert.Contains(t, calls[0].Prompt, "news article about India politics")
	assert.Contains(t, calls[0].Prompt, "Article Title: Budget")
	assert.Contains(t, calls[0].Prompt, "The budget passed.")
}

func TestAnalyze_NoContentSkipsLLM(t *testing.T) {
	fake := &llmtest.Provider{Replies: []string{goodReply}}
	a := New(fake, "q", nil)

	for _, content := range []string{"", "   \n", "No content"} {
		res := a.Analyze(context.Background(), model.ArticleRecord{Title: "t", Content: content})
		require.True(t, res.Succeeded())
		assert.Equal(t, model.NoContentAnalysis(), *res.Analysis)
	}
	assert.Empty(t, fake.Calls())
}

func TestAnalyze_TruncatesContent(t *testing.T) {
	fake := &llmtest.Provider{Replies: []string{goodReply}}
	long := strings.Repeat("x", MaxContentChars+500)

	New(fake, "q", nil).Analyze(context.Background(), model.ArticleRecord{Title: "t", Content: long})

	prompt := fake.Calls()[0].Prompt
	assert.Contains(t, prompt, strings.Repeat("x", MaxContentChars)+llm.TruncatedSuffix)
	assert.NotContains(t, prompt, strings.Repeat("x", MaxContentChars+1))
}

func TestAnalyze_Failures(t *testing.T) {
	tests := []struct {
		name  string
		fake  *llmtest.Provider
		inErr string
	}{
		{"llm error", &llmtest.Provider{Err: errors.New("quota exceeded")}, "quota exceeded"},
		{"not json", &llmtest.Provider{Replies: []string{"I think it is positive."}}, "not a JSON object"},
		{"missing field", &llmtest.Provider{Replies: []string{`{"gist": "g", "sentiment": "neutral", "tone": "balanced"}`}}, "key_entities"},
		{"unknown tone", &llmtest.Provider{Replies: []string{`{"gist": "g", "sentiment": "neutral", "tone": "sarcastic", "key_entities": []}`}}, "does not match schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := New(tt.fake, "q", nil).Analyze(context.Background(), model.ArticleRecord{Title: "t", Content: "c"})
			assert.False(t, res.Succeeded())
			assert.Equal(t, model.AnalysisFailed, res.Status)
			assert.Nil(t, res.Analysis)
			assert.Contains(t, res.Error, tt.inErr)
		})
	}
}

func TestAnalyzeAll(t *testing.T) {
	fake := &llmtest.Provider{Replies: []string{goodReply, "garbage", goodReply}}
	records := []model.ArticleRecord{
		{Title: "a", Content: "one"},
		{Title: "b", Content: "two"},
		{Title: "c"},
		{Title: "d", Content: "four"},
	}

	sum := New(fake, "q", nil).AnalyzeAll(context.Background(), records)

	assert.Equal(t, Summary{Succeeded: 3, NoContent: 1, Failed: 1}, sum)
	assert.True(t, records[0].Analysis.Succeeded())
	assert.False(t, records[1].Analysis.Succeeded())
	assert.Equal(t, model.ErrorNoContent, records[2].Analysis.Analysis.Error)
	assert.True(t, records[3].Analysis.Succeeded())
	assert.Len(t, fake.Calls(), 3)
}

func TestUnavailable(t *testing.T) {
	records := []model.ArticleRecord{{Title: "a", Content: "one"}, {Title: "b"}}

	sum := Unavailable("GEMINI_API_KEY not set", nil).AnalyzeAll(context.Background(), records)

	assert.Equal(t, 2, sum.Failed)
	for _, r := range records {
		require.NotNil(t, r.Analysis)
		assert.Equal(t, model.AnalysisFailed, r.Analysis.Status)
		assert.Contains(t, r.Analysis.Error, "analyzer_unavailable")
	}
}
