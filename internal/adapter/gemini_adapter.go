package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hpn/hpn-relay/internal/domain"
)

// DefaultGeminiBaseURL is the default Gemini API endpoint.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAdapter implements AIProvider for Google Gemini API.
// The whole conversation is flattened into labelled text parts of a single
// content block.
type GeminiAdapter struct {
	client
}

// NewGeminiAdapter creates a new GeminiAdapter with the given API key.
func NewGeminiAdapter(apiKey string, opts ...Option) *GeminiAdapter {
	return &GeminiAdapter{client: newClient(domain.ProviderGemini, apiKey, DefaultGeminiBaseURL, opts)}
}

// ChatCompletion performs a generateContent request using Gemini API.
// The API key travels in the "key" query parameter.
func (g *GeminiAdapter) ChatCompletion(ctx context.Context, params domain.ChatParams) (domain.ChatResponse, error) {
	if err := g.requireCredential(); err != nil {
		return domain.ChatResponse{}, err
	}

	var resp GeminiResponse
	if err := g.postJSON(ctx, g.endpoint(params.Model), nil, g.mapToGeminiRequest(params), &resp); err != nil {
		return domain.ChatResponse{}, err
	}

	return domain.ChatResponse{
		Provider: g.provider,
		Model:    params.Model,
		Text:     resp.text(),
	}, nil
}

func (g *GeminiAdapter) endpoint(model string) string {
	return fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(model), url.QueryEscape(g.apiKey))
}

// mapToGeminiRequest flattens the system prompt and every message into
// "<ROLE>: <content>" parts, in order.
func (g *GeminiAdapter) mapToGeminiRequest(params domain.ChatParams) GeminiRequest {
	parts := make([]GeminiPart, 0, len(params.Messages)+1)
	if params.System != "" {
		parts = append(parts, GeminiPart{Text: "SYSTEM: " + params.System})
	}
	for _, m := range params.Messages {
		parts = append(parts, GeminiPart{Text: roleLabel(m.Role) + ": " + m.Content})
	}

	return GeminiRequest{
		Contents: []GeminiContent{{Parts: parts}},
		GenerationConfig: GeminiGenerationConfig{
			Temperature:     params.Temperature,
			MaxOutputTokens: params.MaxTokens,
		},
	}
}

// roleLabel upper-cases the role; a missing role is labelled as the assistant.
func roleLabel(role string) string {
	if role == "" {
		role = domain.RoleAssistant
	}
	return strings.ToUpper(role)
}

// ============================================================================
// Gemini API Types
// ============================================================================

// GeminiRequest represents a Gemini generateContent request.
type GeminiRequest struct {
	Contents         []GeminiContent        `json:"contents"`
	GenerationConfig GeminiGenerationConfig `json:"generationConfig"`
}

// GeminiContent represents a content block in Gemini format.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart represents a part of a content block.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiGenerationConfig contains generation parameters.
type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// GeminiResponse represents a Gemini generateContent response.
type GeminiResponse struct {
	Candidates    []GeminiCandidate    `json:"candidates"`
	UsageMetadata *GeminiUsageMetadata `json:"usageMetadata,omitempty"`
}

// GeminiCandidate represents a single generated candidate.
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
	Index        int           `json:"index"`
}

// GeminiUsageMetadata contains token usage information.
type GeminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// text concatenates every part of the first candidate with no separator.
func (r GeminiResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}
