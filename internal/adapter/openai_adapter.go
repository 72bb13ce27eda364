package adapter

import (
	"context"

	"github.com/hpn/hpn-relay/internal/domain"
)

// Default endpoints for the OpenAI-compatible vendors.
const (
	DefaultOpenAIBaseURL  = "https://api.openai.com/v1"
	DefaultGroqBaseURL    = "https://api.groq.com/openai/v1"
	DefaultMistralBaseURL = "https://api.mistral.ai/v1"
	DefaultXAIBaseURL     = "https://api.x.ai/v1"
)

// OpenAICompatAdapter implements AIProvider for any vendor exposing the
// OpenAI chat completions API with Bearer authentication.
type OpenAICompatAdapter struct {
	client
}

// NewOpenAIAdapter creates an adapter for api.openai.com.
func NewOpenAIAdapter(apiKey string, opts ...Option) *OpenAICompatAdapter {
	return newOpenAICompatAdapter(domain.ProviderOpenAI, apiKey, DefaultOpenAIBaseURL, opts)
}

// NewGroqAdapter creates an adapter for Groq's OpenAI-compatible endpoint.
func NewGroqAdapter(apiKey string, opts ...Option) *OpenAICompatAdapter {
	return newOpenAICompatAdapter(domain.ProviderGroq, apiKey, DefaultGroqBaseURL, opts)
}

// NewMistralAdapter creates an adapter for Mistral.
func NewMistralAdapter(apiKey string, opts ...Option) *OpenAICompatAdapter {
	return newOpenAICompatAdapter(domain.ProviderMistral, apiKey, DefaultMistralBaseURL, opts)
}

// NewXAIAdapter creates an adapter for xAI.
func NewXAIAdapter(apiKey string, opts ...Option) *OpenAICompatAdapter {
	return newOpenAICompatAdapter(domain.ProviderXAI, apiKey, DefaultXAIBaseURL, opts)
}

func newOpenAICompatAdapter(provider domain.ProviderType, apiKey, baseURL string, opts []Option) *OpenAICompatAdapter {
	return &OpenAICompatAdapter{client: newClient(provider, apiKey, baseURL, opts)}
}

// ChatCompletion performs a POST {baseURL}/chat/completions call.
func (a *OpenAICompatAdapter) ChatCompletion(ctx context.Context, params domain.ChatParams) (domain.ChatResponse, error) {
	if err := a.requireCredential(); err != nil {
		return domain.ChatResponse{}, err
	}

	var resp OpenAIResponse
	headers := map[string]string{"Authorization": "Bearer " + a.apiKey}
	if err := a.postJSON(ctx, a.baseURL+"/chat/completions", headers, a.buildRequest(params), &resp); err != nil {
		return domain.ChatResponse{}, err
	}

	return domain.ChatResponse{
		Provider: a.provider,
		Model:    params.Model,
		Text:     resp.text(),
	}, nil
}

func (a *OpenAICompatAdapter) buildRequest(params domain.ChatParams) OpenAIRequest {
	return OpenAIRequest{
		Model:       params.Model,
		Messages:    ToOpenAIMessages(params.Messages, params.System),
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
}
