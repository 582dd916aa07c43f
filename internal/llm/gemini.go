package llm

import (
	"context"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"google.golang.org/api/option"
)

const geminiDefaultModel = "gemini-3-flash-preview"

// GeminiProvider implements the Provider interface for Google Gemini
type GeminiProvider struct {
	client *genai.Client
	config Config
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, config Config) (*GeminiProvider, error) {
	if config.APIKey == "" {
		return nil, eris.Wrap(ErrMissingAPIKey, "gemini")
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(config.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "gemini: create client")
	}

	return &GeminiProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the configured model
func (p *GeminiProvider) Model() string {
	return p.config.model("", geminiDefaultModel)
}

// Close releases the underlying client
func (p *GeminiProvider) Close() error {
	if p.client != nil {
		return p.client.Close()
	}
	return nil
}

// Complete generates content for a single prompt
func (p *GeminiProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	modelName := p.config.model(req.Model, geminiDefaultModel)

	model := p.client.GenerativeModel(modelName)
	p.configure(model, req)

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctxWithTimeout, genai.Text(req.Prompt))
	if err != nil {
		return nil, eris.Wrap(err, "gemini: generate content")
	}

	text, err := geminiText(resp)
	if err != nil {
		return nil, err
	}

	var tokens int
	if resp.UsageMetadata != nil {
		tokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &CompletionResponse{
		Text:       text,
		Model:      modelName,
		TokensUsed: tokens,
	}, nil
}

// configure applies the request settings to model. Temperature and the
// output cap are left at the model defaults unless configured; thinking
// models spend part of maxOutputTokens before any text is produced.
func (p *GeminiProvider) configure(model *genai.GenerativeModel, req CompletionRequest) {
	if p.config.Temperature > 0 {
		model.SetTemperature(p.config.Temperature)
	}
	if n := p.config.outputLimit(req.MaxTokens); n > 0 {
		model.SetMaxOutputTokens(int32(n))
	}
	if req.System != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(req.System))
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}
}

// geminiText joins the text parts of the first candidate
func geminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", eris.Wrap(ErrEmptyResponse, "gemini: no candidates")
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonMaxTokens {
		return "", eris.Wrap(ErrTruncatedReply, "gemini: finish reason MAX_TOKENS")
	}
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", eris.Wrap(ErrEmptyResponse, "gemini: no content")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", eris.Wrap(ErrEmptyResponse, "gemini: no text parts")
	}
	return text, nil
}
