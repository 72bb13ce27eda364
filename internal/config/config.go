// Package config provides configuration management.
// It loads configuration from environment variables, .env files and
// config.yaml using Viper. The resulting Configuration is read-only and is
// passed explicitly to the components that need it.
package config

import (
	"net/url"
	"time"

	"github.com/hpn/hpn-relay/internal/domain"
)

// Configuration holds all application configuration values.
type Configuration struct {
	// Server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Outbound HTTP client configuration
	HTTP HTTPConfig `json:"http" mapstructure:"http"`

	// Per-vendor credentials and endpoints
	Providers ProvidersConfig `json:"providers" mapstructure:"providers"`

	// Logging configuration
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number. PORT overrides it.
	Port int `json:"port" mapstructure:"port"`

	// CORSOrigin is sent as Access-Control-Allow-Origin. CORS_ORIGIN overrides it.
	CORSOrigin string `json:"cors_origin" mapstructure:"cors_origin"`

	// StaticDir is served at / when it exists.
	StaticDir string `json:"static_dir" mapstructure:"static_dir"`

	// BodyLimitBytes caps the size of an inbound request body.
	BodyLimitBytes int64 `json:"body_limit_bytes" mapstructure:"body_limit_bytes"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// ShutdownTimeout is the maximum duration to wait for active connections to finish.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// HTTPConfig configures the client used for vendor calls.
type HTTPConfig struct {
	// TimeoutSeconds bounds each vendor call. Zero means no timeout.
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Timeout returns the vendor call timeout as a duration.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// ProviderConfig holds one vendor's credential and endpoint.
type ProviderConfig struct {
	// APIKey is read from <VENDOR>_API_KEY. Never serialized.
	APIKey string `json:"-" mapstructure:"api_key"`

	// BaseURL overrides the vendor's public endpoint. Empty means default.
	BaseURL string `json:"base_url" mapstructure:"base_url"`
}

// ProvidersConfig holds the configuration of all six vendors.
type ProvidersConfig struct {
	OpenAI    ProviderConfig `json:"openai" mapstructure:"openai"`
	Anthropic ProviderConfig `json:"anthropic" mapstructure:"anthropic"`
	Gemini    ProviderConfig `json:"gemini" mapstructure:"gemini"`
	Groq      ProviderConfig `json:"groq" mapstructure:"groq"`
	Mistral   ProviderConfig `json:"mistral" mapstructure:"mistral"`
	XAI       ProviderConfig `json:"xai" mapstructure:"xai"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" mapstructure:"level"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format"`

	// Console enables the colored per-request console line.
	Console bool `json:"console" mapstructure:"console"`
}

// Provider returns the configuration of a single vendor.
func (c *Configuration) Provider(p domain.ProviderType) (ProviderConfig, bool) {
	switch p {
	case domain.ProviderOpenAI:
		return c.Providers.OpenAI, true
	case domain.ProviderAnthropic:
		return c.Providers.Anthropic, true
	case domain.ProviderGemini:
		return c.Providers.Gemini, true
	case domain.ProviderGroq:
		return c.Providers.Groq, true
	case domain.ProviderMistral:
		return c.Providers.Mistral, true
	case domain.ProviderXAI:
		return c.Providers.XAI, true
	default:
		return ProviderConfig{}, false
	}
}

// ConfiguredProviders returns the vendors that have an API key.
func (c *Configuration) ConfiguredProviders() []domain.ProviderType {
	configured := make([]domain.ProviderType, 0)
	for _, p := range domain.AllProviders() {
		if pc, _ := c.Provider(p); pc.APIKey != "" {
			configured = append(configured, p)
		}
	}
	return configured
}

// Validate validates the configuration and returns an error if any field is invalid.
// A missing vendor key is not an error: that vendor's adapter fails at call time.
func (c *Configuration) Validate() error {
	verr := &ValidationError{}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		verr.add("server.port", "must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.CORSOrigin == "" {
		verr.add("server.cors_origin", "is required")
	}
	if c.Server.BodyLimitBytes <= 0 {
		verr.add("server.body_limit_bytes", "must be positive")
	}
	if c.HTTP.TimeoutSeconds < 0 {
		verr.add("http.timeout_seconds", "cannot be negative")
	}

	for _, p := range domain.AllProviders() {
		pc, _ := c.Provider(p)
		if pc.BaseURL == "" {
			continue
		}
		if u, err := url.Parse(pc.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			verr.add("providers."+string(p)+".base_url", "%q is not an absolute URL", pc.BaseURL)
		}
	}

	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		verr.add("logging.level", "%q is invalid, must be one of: debug, info, warn, error", c.Logging.Level)
	}
	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "text" {
		verr.add("logging.format", "%q is invalid, must be one of: json, text", c.Logging.Format)
	}

	if len(verr.Errors) > 0 {
		return verr
	}
	return nil
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
