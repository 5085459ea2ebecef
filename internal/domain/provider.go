package domain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/davidbz/llmrouter/internal/observability"
)

// ProviderDeps carries the collaborators shared by every Provider.
type ProviderDeps struct {
	Cache   *ResponseCache
	Metrics MetricsSink
	Retry   RetryPolicy
	Costs   CostCalculator
}

// Provider binds a backend to one (provider, model) pair and runs the shared
// generate flow around it: metrics, cache lookup, retried backend call, cache store.
type Provider struct {
	name    string
	model   string
	backend Backend
	cache   *ResponseCache
	metrics MetricsSink
	retry   RetryPolicy
	costs   CostCalculator
}

// NewProvider creates a provider for the given pair.
func NewProvider(name, model string, backend Backend, deps ProviderDeps) *Provider {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = nopMetrics{}
	}

	return &Provider{
		name:    name,
		model:   model,
		backend: backend,
		cache:   deps.Cache,
		metrics: metrics,
		retry:   deps.Retry,
		costs:   deps.Costs,
	}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Model returns the model this provider is bound to.
func (p *Provider) Model() string {
	return p.model
}

// Generate returns a response for prompt, from the cache when possible.
// Terminal backend errors are returned as produced by the backend and are never cached.
func (p *Provider) Generate(ctx context.Context, prompt string, opts Options) (*GenerationResponse, error) {
	ctx = observability.WithProvider(ctx, p.name)
	ctx = observability.WithModel(ctx, p.model)
	logger := observability.FromContext(ctx)

	p.metrics.IncRequests(p.name, p.model)
	start := time.Now()
	defer func() {
		p.metrics.ObserveLatency(p.name, p.model, time.Since(start))
	}()

	key, err := CacheKey(p.name, p.model, prompt, opts)
	if err != nil {
		p.metrics.IncErrors(p.name, p.model)
		return nil, fmt.Errorf("failed to derive cache key: %w", err)
	}

	if cached, hit := p.cache.Get(ctx, key); hit {
		logger.Debug("cache hit", observability.String("prompt_hash", promptHash(prompt)))
		return cached, nil
	}

	logger.Debug("cache miss, calling backend", observability.String("prompt_hash", promptHash(prompt)))

	policy := p.retry
	policy.OnRetry = func(attempt int, err error, delay time.Duration) {
		logger.Warn("backend call failed, retrying",
			observability.Int("attempt", attempt),
			observability.Duration("backoff", delay),
			observability.Error(err),
		)
		if p.retry.OnRetry != nil {
			p.retry.OnRetry(attempt, err, delay)
		}
	}

	resp, err := Retry(ctx, policy, func() (*GenerationResponse, error) {
		return p.backend.RawGenerate(ctx, prompt, opts)
	})
	if err == nil && resp == nil {
		err = errors.New("backend returned no response")
	}
	if err != nil {
		p.metrics.IncErrors(p.name, p.model)
		logger.Error("generation failed", observability.Error(err))
		return nil, err
	}

	p.applyCost(ctx, resp)
	p.cache.Set(ctx, key, resp)

	return resp, nil
}

func (p *Provider) applyCost(ctx context.Context, resp *GenerationResponse) {
	if p.costs == nil || resp.Usage == nil {
		return
	}

	cost, err := p.costs.Calculate(ctx, p.model, *resp.Usage)
	if err != nil {
		observability.FromContext(ctx).Debug("cost calculation skipped", observability.Error(err))
		return
	}
	resp.Usage.Cost = cost
}

func promptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:8])
}

type nopMetrics struct{}

func (nopMetrics) IncRequests(string, string)                   {}
func (nopMetrics) IncErrors(string, string)                     {}
func (nopMetrics) ObserveLatency(string, string, time.Duration) {}
