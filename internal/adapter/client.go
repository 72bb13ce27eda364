package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hpn/hpn-relay/internal/domain"
)

// Option is a functional option shared by every adapter.
type Option func(*client)

// WithBaseURL sets a custom base URL for the vendor API.
// An empty value keeps the vendor default.
func WithBaseURL(url string) Option {
	return func(c *client) {
		if url = strings.TrimSpace(url); url != "" {
			c.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
}

// client holds what every adapter needs to talk to its vendor.
type client struct {
	provider   domain.ProviderType
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newClient(provider domain.ProviderType, apiKey, defaultBaseURL string, opts []Option) client {
	c := client{
		provider:   provider,
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Name returns the provider identifier.
func (c *client) Name() domain.ProviderType {
	return c.provider
}

// HasCredential reports whether an API key is configured.
func (c *client) HasCredential() bool {
	return c.apiKey != ""
}

func (c *client) requireCredential() error {
	if c.apiKey == "" {
		return &domain.MissingCredentialError{Provider: c.provider}
	}
	return nil
}

// vendorErrorEnvelope matches the {"error": {"message": ...}} body that every
// supported vendor returns on failure.
type vendorErrorEnvelope struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// postJSON sends payload as JSON to url and decodes a success body into out.
// Every failure is returned as *domain.VendorError.
func (c *client) postJSON(ctx context.Context, url string, headers map[string]string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return c.vendorError(0, "", fmt.Errorf("failed to marshal %s request: %w", c.provider, err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return c.vendorError(0, "", fmt.Errorf("failed to create http request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.vendorError(0, "", fmt.Errorf("failed to execute %s request: %w", c.provider, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.vendorError(resp.StatusCode, "", fmt.Errorf("failed to read %s response: %w", c.provider, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var envelope vendorErrorEnvelope
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error != nil {
			return c.vendorError(resp.StatusCode, envelope.Error.Message, nil)
		}
		return c.vendorError(resp.StatusCode, "", fmt.Errorf("%s API error [%d]", c.provider, resp.StatusCode))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return c.vendorError(resp.StatusCode, "", fmt.Errorf("failed to unmarshal %s response: %w", c.provider, err))
	}

	return nil
}

func (c *client) vendorError(status int, message string, cause error) error {
	return &domain.VendorError{
		Provider:   c.provider,
		StatusCode: status,
		Message:    message,
		Err:        cause,
	}
}
