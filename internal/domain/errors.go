package domain

import (
	"errors"
	"fmt"
)

// ValidationError reports a malformed or incomplete chat request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UnsupportedProviderError reports a provider name with no registered adapter.
type UnsupportedProviderError struct {
	Provider ProviderType
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("Unsupported provider: %s", e.Provider)
}

// MissingCredentialError reports that the vendor API key is not configured.
type MissingCredentialError struct {
	Provider ProviderType
}

func (e *MissingCredentialError) Error() string {
	return "Missing " + e.Provider.APIKeyEnv()
}

// VendorError is an upstream failure: a transport error, a non-success
// status, or a body that does not match the vendor's expected shape.
type VendorError struct {
	Provider   ProviderType
	StatusCode int    // 0 when no response was received
	Message    string // vendor's own message when available
	Err        error
}

func (e *VendorError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Provider.DisplayName() + " error"
}

func (e *VendorError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err is the caller's fault (bad request or
// unknown provider) rather than a server or upstream failure.
func IsClientError(err error) bool {
	var validationErr *ValidationError
	var unsupportedErr *UnsupportedProviderError
	return errors.As(err, &validationErr) || errors.As(err, &unsupportedErr)
}
