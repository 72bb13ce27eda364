// Package adapter provides implementations for external AI provider integrations.
// It uses the Adapter pattern to abstract provider-specific APIs behind a common interface.
package adapter

import (
	"context"

	"github.com/hpn/hpn-relay/internal/domain"
)

// AIProvider defines the interface for AI provider adapters.
// All provider implementations must satisfy this interface.
type AIProvider interface {
	// ChatCompletion maps the neutral params to the vendor's wire format,
	// performs a single HTTP call and maps the reply back.
	// It fails with *domain.MissingCredentialError before any network call
	// when no API key is configured, and with *domain.VendorError when the
	// vendor call fails or its body cannot be parsed.
	ChatCompletion(ctx context.Context, params domain.ChatParams) (domain.ChatResponse, error)

	// Name returns the provider's identifier.
	Name() domain.ProviderType

	// HasCredential reports whether an API key is configured.
	HasCredential() bool
}
