package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// DefaultOpenAIModel is the chat model used when none is configured.
const DefaultOpenAIModel = "gpt-4o"

// OpenAIProvider implements Backend for OpenAI's Chat Completions API.
type OpenAIProvider struct {
	model   openai.ChatModel
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates an OpenAI backend.
func NewOpenAIProvider(cfg ProviderConfig) *OpenAIProvider {
	p := &OpenAIProvider{
		model:   openai.ChatModel(cfg.Model),
		baseURL: cfg.BaseURL,
		client:  cfg.HTTPClient,
	}
	if p.model == "" {
		p.model = openai.ChatModel(DefaultOpenAIModel)
	}
	return p
}

func (p *OpenAIProvider) Name() string  { return ProviderOpenAI }
func (p *OpenAIProvider) Model() string { return string(p.model) }

// Complete sends prompt as a single user message. The client is built per
// call since each request carries its own key; retries are disabled.
func (p *OpenAIProvider) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	if apiKey == "" {
		return "", ErrNoAPIKey
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	if p.client != nil {
		opts = append(opts, option.WithHTTPClient(p.client))
	}
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: p.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
