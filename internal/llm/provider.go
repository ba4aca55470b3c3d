// Package llm summarizes filing text with a hosted language model. Two
// backends are supported, OpenAI and Gemini. The API key is supplied with
// every request by the end user and is never stored on the backend.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Provider names for configuration.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Common errors returned by LLM providers.
var (
	ErrNoAPIKey       = errors.New("llm: API key not configured")
	ErrEmptyResponse  = errors.New("llm: model returned no choices")
	ErrUnknownBackend = errors.New("llm: unknown backend")
)

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 120 * time.Second

// Backend sends a single-turn prompt to a model and returns its top answer
// verbatim.
type Backend interface {
	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string

	// Model returns the model the backend calls.
	Model() string

	// Complete issues exactly one request authenticated with apiKey.
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// ProviderConfig holds common configuration for creating a backend.
type ProviderConfig struct {
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// NewBackend creates the backend named by name.
func NewBackend(name string, cfg ProviderConfig) (Backend, error) {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	switch name {
	case ProviderOpenAI, "":
		return NewOpenAIProvider(cfg), nil
	case ProviderGemini:
		return NewGeminiProvider(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}
