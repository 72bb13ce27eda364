// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

import "strings"

// ProviderType identifies a third-party LLM vendor (e.g., OpenAI, Anthropic, Gemini).
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderGemini    ProviderType = "gemini"
	ProviderGroq      ProviderType = "groq"
	ProviderMistral   ProviderType = "mistral"
	ProviderXAI       ProviderType = "xai"
)

// AllProviders returns the six supported vendors in registration order.
func AllProviders() []ProviderType {
	return []ProviderType{
		ProviderOpenAI,
		ProviderGroq,
		ProviderMistral,
		ProviderAnthropic,
		ProviderGemini,
		ProviderXAI,
	}
}

// IsKnown reports whether p is one of the six supported vendors.
func (p ProviderType) IsKnown() bool {
	for _, known := range AllProviders() {
		if p == known {
			return true
		}
	}
	return false
}

// DisplayName returns the vendor's human-readable name, used in generic error messages.
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderOpenAI:
		return "OpenAI"
	case ProviderAnthropic:
		return "Anthropic"
	case ProviderGemini:
		return "Gemini"
	case ProviderGroq:
		return "Groq"
	case ProviderMistral:
		return "Mistral"
	case ProviderXAI:
		return "xAI"
	default:
		return string(p)
	}
}

// APIKeyEnv returns the environment variable holding the vendor's API key,
// e.g. OPENAI_API_KEY.
func (p ProviderType) APIKeyEnv() string {
	return strings.ToUpper(string(p)) + "_API_KEY"
}
