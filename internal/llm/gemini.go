package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is the Gemini model used when none is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements Backend for Google's Gemini API.
type GeminiProvider struct {
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiProvider creates a Gemini backend. OpenAI model names are not
// valid here, so a "gpt-" model falls back to DefaultGeminiModel.
func NewGeminiProvider(cfg ProviderConfig) *GeminiProvider {
	p := &GeminiProvider{
		model:   cfg.Model,
		baseURL: cfg.BaseURL,
		client:  cfg.HTTPClient,
	}
	if p.model == "" || strings.HasPrefix(p.model, "gpt-") {
		p.model = DefaultGeminiModel
	}
	return p
}

func (p *GeminiProvider) Name() string  { return ProviderGemini }
func (p *GeminiProvider) Model() string { return p.model }

// Complete sends prompt as one user turn and returns the first candidate.
func (p *GeminiProvider) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if apiKey == "" {
		return "", ErrNoAPIKey
	}

	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.client,
	}
	if p.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return extractTextFromResponse(result)
}

// extractTextFromResponse joins the text parts of the first candidate.
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}
