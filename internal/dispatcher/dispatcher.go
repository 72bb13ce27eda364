// Package dispatcher routes vendor-neutral chat requests to the adapter
// registered for the requested provider.
package dispatcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/hpn/hpn-relay/internal/adapter"
	"github.com/hpn/hpn-relay/internal/config"
	"github.com/hpn/hpn-relay/internal/domain"
)

// Dispatcher holds a static provider registry. It keeps no per-request state
// and is safe for concurrent use.
type Dispatcher struct {
	providers map[domain.ProviderType]adapter.AIProvider
	order     []domain.ProviderType
	logger    *slog.Logger
}

// Option is a functional option for configuring Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Dispatcher for the given adapters. A later adapter with the
// same name replaces an earlier one.
func New(providers []adapter.AIProvider, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		providers: make(map[domain.ProviderType]adapter.AIProvider, len(providers)),
		logger:    slog.Default(),
	}

	for _, p := range providers {
		if _, exists := d.providers[p.Name()]; !exists {
			d.order = append(d.order, p.Name())
		}
		d.providers[p.Name()] = p
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// NewFromConfig registers all six vendor adapters using the credentials,
// base URLs and timeout in cfg.
func NewFromConfig(cfg *config.Configuration, opts ...Option) *Dispatcher {
	constructors := map[domain.ProviderType]func(string, ...adapter.Option) adapter.AIProvider{
		domain.ProviderOpenAI:    func(k string, o ...adapter.Option) adapter.AIProvider { return adapter.NewOpenAIAdapter(k, o...) },
		domain.ProviderGroq:      func(k string, o ...adapter.Option) adapter.AIProvider { return adapter.NewGroqAdapter(k, o...) },
		domain.ProviderMistral:   func(k string, o ...adapter.Option) adapter.AIProvider { return adapter.NewMistralAdapter(k, o...) },
		domain.ProviderXAI:       func(k string, o ...adapter.Option) adapter.AIProvider { return adapter.NewXAIAdapter(k, o...) },
		domain.ProviderAnthropic: func(k string, o ...adapter.Option) adapter.AIProvider { return adapter.NewAnthropicAdapter(k, o...) },
		domain.ProviderGemini:    func(k string, o ...adapter.Option) adapter.AIProvider { return adapter.NewGeminiAdapter(k, o...) },
	}

	providers := make([]adapter.AIProvider, 0, len(constructors))
	for _, p := range domain.AllProviders() {
		pc, _ := cfg.Provider(p)
		providers = append(providers, constructors[p](pc.APIKey,
			adapter.WithBaseURL(pc.BaseURL),
			adapter.WithTimeout(cfg.HTTP.Timeout()),
		))
	}

	return New(providers, opts...)
}

// Validate checks that provider, model and messages are present.
func Validate(req domain.ChatRequest) error {
	if req.Provider == "" || req.Model == "" || req.Messages == nil {
		return &domain.ValidationError{Message: "provider, model, messages are required"}
	}
	return nil
}

// Route validates req, applies defaults and delegates to exactly one
// adapter. The adapter's response and error are returned unchanged.
func (d *Dispatcher) Route(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	if err := Validate(req); err != nil {
		return domain.ChatResponse{}, err
	}

	provider, ok := d.providers[req.Provider]
	if !ok {
		return domain.ChatResponse{}, &domain.UnsupportedProviderError{Provider: req.Provider}
	}

	start := time.Now()
	resp, err := provider.ChatCompletion(ctx, req.Params())
	if err != nil {
		d.logger.Warn("provider call failed",
			slog.String("provider", string(req.Provider)),
			slog.String("model", req.Model),
			slog.Duration("latency", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return domain.ChatResponse{}, err
	}

	d.logger.Debug("provider call succeeded",
		slog.String("provider", string(req.Provider)),
		slog.String("model", req.Model),
		slog.Duration("latency", time.Since(start)),
	)

	return resp, nil
}

// ProviderStatus describes a registered provider without exposing secrets.
type ProviderStatus struct {
	Name       domain.ProviderType `json:"name"`
	Configured bool                `json:"configured"`
}

// Providers lists registered providers in registration order.
func (d *Dispatcher) Providers() []ProviderStatus {
	statuses := make([]ProviderStatus, 0, len(d.order))
	for _, name := range d.order {
		statuses = append(statuses, ProviderStatus{
			Name:       name,
			Configured: d.providers[name].HasCredential(),
		})
	}
	return statuses
}
