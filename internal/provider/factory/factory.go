// Package factory turns a (provider, model) request into a ready domain.Provider,
// substituting the configured default when the requested pair is disabled.
package factory

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/time/rate"

	"github.com/davidbz/llmrouter/internal/config"
	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/observability"
	"github.com/davidbz/llmrouter/internal/provider/echo"
	"github.com/davidbz/llmrouter/internal/provider/google"
	"github.com/davidbz/llmrouter/internal/provider/ollama"
	"github.com/davidbz/llmrouter/internal/provider/openrouter"
)

type pair struct {
	provider string
	model    string
}

func (p pair) String() string {
	return p.provider + "/" + p.model
}

// Factory resolves providers from an immutable configuration tree.
type Factory struct {
	tree       *config.Tree
	deps       domain.ProviderDeps
	httpClient *http.Client
	creds      config.CredentialsConfig
	limiters   map[string]*rate.Limiter
}

// NewFactory creates a factory (DI constructor). Rate limiters are created once
// per provider so every Provider of a backend shares the same budget.
func NewFactory(
	tree *config.Tree,
	deps domain.ProviderDeps,
	httpClient *http.Client,
	creds *config.CredentialsConfig,
) *Factory {
	f := &Factory{
		tree:       tree,
		deps:       deps,
		httpClient: httpClient,
		limiters:   make(map[string]*rate.Limiter),
	}
	if creds != nil {
		f.creds = *creds
	}

	for name, provider := range tree.Providers {
		if provider.RateLimitRPS <= 0 {
			continue
		}
		burst := provider.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		f.limiters[name] = rate.NewLimiter(rate.Limit(provider.RateLimitRPS), burst)
	}

	return f
}

// Resolve returns a Provider for the pair, or for the fallback default when the
// provider or model is absent or disabled.
func (f *Factory) Resolve(ctx context.Context, providerName, model string) (*domain.Provider, error) {
	return f.resolve(ctx, pair{provider: providerName, model: model}, nil)
}

func (f *Factory) resolve(ctx context.Context, requested pair, chain []pair) (*domain.Provider, error) {
	for _, seen := range chain {
		if seen == requested {
			return nil, &domain.ConfigurationError{
				Message: "fallback cycle: " + formatChain(append(chain, requested)),
			}
		}
	}
	chain = append(chain, requested)

	if f.tree.IsAvailable(requested.provider, requested.model) {
		return f.build(requested.provider, requested.model)
	}

	defaultName := f.tree.DefaultProvider
	if defaultName == "" {
		return nil, &domain.ConfigurationError{
			Message: fmt.Sprintf("%s is disabled and default_provider is not set", requested),
		}
	}
	if defaultName == requested.provider {
		return nil, &domain.ConfigurationError{
			Message: fmt.Sprintf("%s is disabled and default_provider %q refers to it", requested, defaultName),
		}
	}

	defaultProvider, ok := f.tree.Provider(defaultName)
	if !ok || defaultProvider.DefaultModel == "" {
		return nil, &domain.ConfigurationError{
			Message: fmt.Sprintf("default_provider %q has no default_model", defaultName),
		}
	}

	fallback := pair{provider: defaultName, model: defaultProvider.DefaultModel}
	observability.FromContext(ctx).Warn("requested provider unavailable, falling back to default",
		observability.String("requested", requested.String()),
		observability.String("fallback", fallback.String()),
	)

	return f.resolve(ctx, fallback, chain)
}

// build dispatches on the provider name. Adding a backend means adding an arm.
func (f *Factory) build(providerName, model string) (*domain.Provider, error) {
	settings, _ := f.tree.Provider(providerName)

	var backend domain.Backend
	switch providerName {
	case google.Name:
		b, err := google.NewBackend(google.Config{
			APIKey:     f.creds.GoogleAPIKey,
			BaseURL:    settings.APIBase,
			Model:      model,
			HTTPClient: f.httpClient,
		})
		if err != nil {
			return nil, err
		}
		backend = b
	case ollama.Name:
		b, err := ollama.NewClient(ollama.Config{
			APIKey:     f.creds.OllamaAPIKey,
			BaseURL:    settings.APIBase,
			Model:      model,
			HTTPClient: f.httpClient,
		})
		if err != nil {
			return nil, err
		}
		backend = b
	case openrouter.Name:
		b, err := openrouter.NewBackend(openrouter.Config{
			APIKey:     f.creds.OpenRouterAPIKey,
			BaseURL:    settings.APIBase,
			Model:      model,
			HTTPClient: f.httpClient,
		})
		if err != nil {
			return nil, err
		}
		backend = b
	case echo.Name:
		backend = echo.NewBackend(model)
	default:
		return nil, &domain.UnknownProviderError{Provider: providerName}
	}

	if limiter, ok := f.limiters[providerName]; ok {
		backend = &limitedBackend{backend: backend, limiter: limiter}
	}

	return domain.NewProvider(providerName, model, backend, f.deps), nil
}

func formatChain(chain []pair) string {
	parts := make([]string, len(chain))
	for i, p := range chain {
		parts[i] = p.String()
	}
	return strings.Join(parts, " -> ")
}

// RegisterPricing loads model prices from the tree into registry.
func RegisterPricing(ctx context.Context, tree *config.Tree, registry domain.PricingRegistry) error {
	for _, providerName := range tree.ProviderNames() {
		provider := tree.Providers[providerName]
		for _, model := range provider.ModelNames() {
			pricing := domain.PricingConfig{
				InputCostPer1K:  provider.Models[model].InputCostPer1K,
				OutputCostPer1K: provider.Models[model].OutputCostPer1K,
			}
			if pricing.IsZero() {
				continue
			}
			if err := registry.RegisterPricing(ctx, model, pricing); err != nil {
				return fmt.Errorf("failed to register pricing for %s/%s: %w", providerName, model, err)
			}
		}
	}
	return nil
}
