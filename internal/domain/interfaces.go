package domain

import (
	"context"
	"time"
)

// Backend is the backend-specific half of a provider: one remote call, no caching,
// no retries, no metrics.
type Backend interface {
	// RawGenerate performs a single generation attempt. Retryable failures must be
	// reported as *TransientBackendError.
	RawGenerate(ctx context.Context, prompt string, opts Options) (*GenerationResponse, error)
}

// CacheStore is a key/value store with per-entry expiry.
type CacheStore interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value that expires after ttl.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// MetricsSink records per (provider, model) request counts, error counts and latency.
type MetricsSink interface {
	IncRequests(provider, model string)
	IncErrors(provider, model string)
	ObserveLatency(provider, model string, elapsed time.Duration)
}

// ProviderResolver hands out a ready Provider for a requested pair.
type ProviderResolver interface {
	Get(ctx context.Context, providerName, model string) (*Provider, error)
}

// Router determines which provider and model to use for a request.
type Router interface {
	// Route fills in whatever part of the pair the caller left empty.
	Route(ctx context.Context, req *RouteRequest) (*RouteRequest, error)
}

// RouteRequest contains criteria for provider selection.
type RouteRequest struct {
	Provider string
	Model    string
}
