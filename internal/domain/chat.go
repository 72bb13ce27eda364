package domain

const (
	// DefaultTemperature is applied when a request omits temperature.
	DefaultTemperature = 0.7

	// DefaultMaxTokens is applied when a request omits max_tokens.
	DefaultMaxTokens = 1024
)

// Recognized conversation roles. Other values are passed through or coerced
// depending on the vendor.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatMessage is a single turn of the conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the vendor-neutral request accepted by the relay.
// A nil Messages slice means the field was absent; an empty slice is valid.
type ChatRequest struct {
	Provider    ProviderType  `json:"provider"`
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	System      string        `json:"system,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
}

// Params resolves optional fields to their defaults and returns the
// arguments handed to an adapter.
func (r ChatRequest) Params() ChatParams {
	p := ChatParams{
		Model:       r.Model,
		Messages:    r.Messages,
		System:      r.System,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultMaxTokens,
	}
	if r.Temperature != nil {
		p.Temperature = *r.Temperature
	}
	if r.MaxTokens != nil {
		p.MaxTokens = *r.MaxTokens
	}
	return p
}

// ChatParams is what every adapter receives: a validated request with
// defaults already applied.
type ChatParams struct {
	Model       string
	Messages    []ChatMessage
	System      string
	Temperature float64
	MaxTokens   int
}

// ChatResponse is the uniform reply shape returned for every vendor.
type ChatResponse struct {
	Provider ProviderType `json:"provider"`
	Model    string       `json:"model"`
	Text     string       `json:"text"`
}
