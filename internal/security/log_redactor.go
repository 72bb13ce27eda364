// Package security keeps vendor credentials out of log output.
package security

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// RedactedPlaceholder replaces every detected secret.
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns matches the key formats of the six supported vendors.
// Vendor-specific prefixes come before the generic OpenAI "sk-" rule.
var sensitivePatterns = []*regexp.Regexp{
	// Anthropic: sk-ant-api03-...
	regexp.MustCompile(`sk-ant-[a-zA-Z0-9_-]{20,}`),
	// OpenAI (incl. project keys sk-proj-...) and Mistral-style sk- keys
	regexp.MustCompile(`sk-[a-zA-Z0-9_-]{20,}`),
	// Groq: gsk_...
	regexp.MustCompile(`gsk_[a-zA-Z0-9]{20,}`),
	// xAI: xai-...
	regexp.MustCompile(`xai-[a-zA-Z0-9]{20,}`),
	// Google AI (Gemini): AIza...
	regexp.MustCompile(`AIza[a-zA-Z0-9_-]{30,}`),
	// Bearer tokens in header dumps
	regexp.MustCompile(`Bearer\s+[a-zA-Z0-9._-]{20,}`),
	// Gemini passes the key in the query string; transport errors echo the URL
	regexp.MustCompile(`key=[a-zA-Z0-9%_-]{20,}`),
	// Long opaque strings that look like keys (Mistral keys have no prefix)
	regexp.MustCompile(`[a-zA-Z0-9_-]{40,}`),
}

// sensitiveKeySegments are attribute-name segments whose values are always redacted.
var sensitiveKeySegments = map[string]bool{
	"authorization": true,
	"apikey":        true,
	"secret":        true,
	"password":      true,
	"token":         true,
	"bearer":        true,
	"credential":    true,
	"credentials":   true,
}

// Redact scans a string for secrets and replaces them.
func Redact(s string) string {
	result := s
	for _, pattern := range sensitivePatterns {
		result = pattern.ReplaceAllString(result, RedactedPlaceholder)
	}
	return result
}

// RedactedHandler wraps an slog.Handler and redacts secrets from log records.
type RedactedHandler struct {
	inner slog.Handler
}

// NewRedactedHandler creates a new handler that wraps an existing handler
// and redacts secrets from all log output.
func NewRedactedHandler(inner slog.Handler) *RedactedHandler {
	return &RedactedHandler{inner: inner}
}

// Enabled reports whether the handler handles records at the given level.
func (h *RedactedHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts the message and every attribute, then delegates.
func (h *RedactedHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, Redact(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(redactAttr(a))
		return true
	})

	return h.inner.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *RedactedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactedHandler{inner: h.inner.WithAttrs(redacted)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactedHandler) WithGroup(name string) slog.Handler {
	return &RedactedHandler{inner: h.inner.WithGroup(name)}
}

// redactAttr redacts a single attribute, descending into groups.
func redactAttr(a slog.Attr) slog.Attr {
	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, RedactedPlaceholder)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, Redact(a.Value.String()))
	case slog.KindGroup:
		group := a.Value.Group()
		redacted := make([]any, len(group))
		for i, ga := range group {
			redacted[i] = redactAttr(ga)
		}
		return slog.Group(a.Key, redacted...)
	case slog.KindAny:
		if err, ok := a.Value.Any().(error); ok {
			return slog.String(a.Key, Redact(err.Error()))
		}
	}

	return a
}

// isSensitiveKey reports whether an attribute name denotes a secret.
// Names are split on "_", "-" and "." so that "api_key" and "x-api-key"
// match while "input_tokens_est" does not.
func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if strings.Contains(key, "api_key") || strings.Contains(key, "api-key") {
		return true
	}

	segments := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	for _, s := range segments {
		if sensitiveKeySegments[s] {
			return true
		}
	}
	return false
}
