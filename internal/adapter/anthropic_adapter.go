package adapter

import (
	"context"

	"github.com/hpn/hpn-relay/internal/domain"
)

const (
	// DefaultAnthropicBaseURL is the default Anthropic API endpoint.
	DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"

	// AnthropicVersion is sent in the anthropic-version header on every call.
	AnthropicVersion = "2023-06-01"
)

// AnthropicAdapter implements AIProvider for the Anthropic Messages API.
type AnthropicAdapter struct {
	client
}

// NewAnthropicAdapter creates a new AnthropicAdapter with the given API key.
func NewAnthropicAdapter(apiKey string, opts ...Option) *AnthropicAdapter {
	return &AnthropicAdapter{client: newClient(domain.ProviderAnthropic, apiKey, DefaultAnthropicBaseURL, opts)}
}

// ChatCompletion performs a POST {baseURL}/messages call.
func (a *AnthropicAdapter) ChatCompletion(ctx context.Context, params domain.ChatParams) (domain.ChatResponse, error) {
	if err := a.requireCredential(); err != nil {
		return domain.ChatResponse{}, err
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": AnthropicVersion,
	}

	var resp AnthropicResponse
	if err := a.postJSON(ctx, a.baseURL+"/messages", headers, a.mapToAnthropicRequest(params), &resp); err != nil {
		return domain.ChatResponse{}, err
	}

	return domain.ChatResponse{
		Provider: a.provider,
		Model:    params.Model,
		Text:     resp.text(),
	}, nil
}

// mapToAnthropicRequest converts neutral params to the Messages API format.
// Any role other than "user" is sent as "assistant"; the system prompt goes
// in the top-level field.
func (a *AnthropicAdapter) mapToAnthropicRequest(params domain.ChatParams) AnthropicRequest {
	messages := make([]AnthropicMessage, 0, len(params.Messages))
	for _, m := range params.Messages {
		role := domain.RoleAssistant
		if m.Role == domain.RoleUser {
			role = domain.RoleUser
		}
		messages = append(messages, AnthropicMessage{
			Role:    role,
			Content: []AnthropicContentBlock{{Type: "text", Text: m.Content}},
		})
	}

	return AnthropicRequest{
		Model:       params.Model,
		MaxTokens:   params.MaxTokens,
		Temperature: params.Temperature,
		Messages:    messages,
		System:      params.System,
	}
}

// ============================================================================
// Anthropic API Types
// ============================================================================

// AnthropicRequest represents a Messages API request.
type AnthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	Messages    []AnthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
}

// AnthropicMessage is one conversation turn.
type AnthropicMessage struct {
	Role    string                  `json:"role"`
	Content []AnthropicContentBlock `json:"content"`
}

// AnthropicContentBlock is a typed content block; only "text" is produced.
type AnthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// AnthropicResponse represents a Messages API response.
type AnthropicResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Model      string                  `json:"model"`
	Content    []AnthropicContentBlock `json:"content"`
	StopReason string                  `json:"stop_reason"`
	Usage      AnthropicUsage          `json:"usage"`
}

// AnthropicUsage contains token usage information.
type AnthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// text returns content[0].text, or "" when absent.
func (r AnthropicResponse) text() string {
	if len(r.Content) == 0 {
		return ""
	}
	return r.Content[0].Text
}
