package adapter

import "github.com/hpn/hpn-relay/internal/domain"

// OpenAI-compatible request/response types.
// OpenAI, Groq, Mistral and xAI all accept this shape.

// OpenAIRequest represents an OpenAI chat completion request.
type OpenAIRequest struct {
	// Model specifies which model to use (e.g., "gpt-4o-mini", "llama-3.1-8b-instant").
	Model string `json:"model"`

	// Messages contains the conversation history, system prompt first.
	Messages []OpenAIMessage `json:"messages"`

	// Temperature controls randomness (0.0-2.0).
	Temperature float64 `json:"temperature"`

	// MaxTokens limits the response length.
	MaxTokens int `json:"max_tokens"`
}

// OpenAIMessage represents a single message in the conversation.
type OpenAIMessage struct {
	// Role is passed through verbatim; "system" is added for the system prompt.
	Role string `json:"role"`

	// Content is the message text content.
	Content string `json:"content"`
}

// OpenAIResponse represents an OpenAI chat completion response.
type OpenAIResponse struct {
	// ID is the unique identifier for this completion.
	ID string `json:"id"`

	// Object is always "chat.completion".
	Object string `json:"object"`

	// Created is the Unix timestamp of when the completion was created.
	Created int64 `json:"created"`

	// Model is the model used for completion.
	Model string `json:"model"`

	// Choices contains the generated completions.
	Choices []OpenAIChoice `json:"choices"`

	// Usage contains token usage statistics.
	Usage OpenAIUsage `json:"usage"`
}

// OpenAIChoice represents a single completion choice.
type OpenAIChoice struct {
	// Index is the position of this choice in the list.
	Index int `json:"index"`

	// Message contains the generated message. Content may be null upstream,
	// which decodes to "".
	Message OpenAIMessage `json:"message"`

	// FinishReason indicates why the model stopped generating.
	FinishReason string `json:"finish_reason"`
}

// OpenAIUsage contains token usage statistics.
type OpenAIUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ToOpenAIMessages converts neutral messages into the OpenAI-family message
// array. A non-empty system prompt becomes the first entry; roles are not
// rewritten.
func ToOpenAIMessages(messages []domain.ChatMessage, system string) []OpenAIMessage {
	out := make([]OpenAIMessage, 0, len(messages)+1)
	if system != "" {
		out = append(out, OpenAIMessage{Role: domain.RoleSystem, Content: system})
	}
	for _, m := range messages {
		out = append(out, OpenAIMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// text returns choices[0].message.content, or "" when absent.
func (r OpenAIResponse) text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}
