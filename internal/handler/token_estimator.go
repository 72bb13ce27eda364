package handler

import (
	"strings"
	"unicode"

	"github.com/hpn/hpn-relay/internal/domain"
)

// TokensPerWord is the approximation ratio (1 word ≈ 1.3 tokens)
const TokensPerWord = 1.3

// EstimateTokens estimates the number of tokens in a text string.
// Uses a lightweight approximation: 1 word ≈ 1.3 tokens. Vendors count
// differently, so the value is only for access logs.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}

	wordCount := 0
	inWord := false

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			if !inWord {
				wordCount++
				inWord = true
			}
		} else {
			inWord = false
		}
	}

	tokens := int(float64(wordCount) * TokensPerWord)
	if tokens == 0 && wordCount > 0 {
		tokens = 1 // Minimum 1 token if there's any text
	}

	return tokens
}

// ExtractInputText concatenates the system prompt and all message contents
// for token counting.
func ExtractInputText(messages []domain.ChatMessage, system string) string {
	var builder strings.Builder

	if system != "" {
		builder.WriteString(system)
		builder.WriteString(" ")
	}
	for _, msg := range messages {
		builder.WriteString(msg.Content)
		builder.WriteString(" ")
	}

	return builder.String()
}
