package model

// APISource identifies which upstream news API produced a record
type APISource string

const (
	SourceNewsAPI  APISource = "newsapi"
	SourceGuardian APISource = "guardian"
)

// ArticleRecord is one normalized news item.
// Fetch fills the article fields; Analysis and Validation are attached later
// by the analyzer and validator, each exactly once.
type ArticleRecord struct {
	Title       string    `json:"title"`
	Source      string    `json:"source"`       // Publisher name (e.g., "The Guardian")
	URL         string    `json:"url"`
	PublishedAt string    `json:"published_at"` // As reported by the upstream API
	Content     string    `json:"content"`
	APISource   APISource `json:"api_source"`

	Analysis   *AnalysisResult   `json:"analysis,omitempty"`
	Validation *ValidationResult `json:"validation,omitempty"`
}

// Raw returns a copy of the record without analysis or validation attached
func (r ArticleRecord) Raw() ArticleRecord {
	r.Analysis = nil
	r.Validation = nil
	return r
}

// RawRecords strips analysis and validation from every record
func RawRecords(records []ArticleRecord) []ArticleRecord {
	raw := make([]ArticleRecord, len(records))
	for i, r := range records {
		raw[i] = r.Raw()
	}
	return raw
}
