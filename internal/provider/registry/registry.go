// Package registry memoizes resolved providers so every request for the same
// (provider, model) pair shares one Provider instance.
package registry

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/davidbz/llmrouter/internal/domain"
)

// Resolver builds a Provider for a requested pair, applying fallback.
type Resolver interface {
	Resolve(ctx context.Context, providerName, model string) (*domain.Provider, error)
}

type pairKey struct {
	provider string
	model    string
}

// Registry implements the domain.ProviderResolver interface.
type Registry struct {
	mu        sync.RWMutex
	resolver  Resolver
	providers map[pairKey]*domain.Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry(resolver Resolver) *Registry {
	return &Registry{
		mu:        sync.RWMutex{},
		resolver:  resolver,
		providers: make(map[pairKey]*domain.Provider),
	}
}

// Get returns the Provider for the requested pair, resolving it on first use.
// Resolution errors are not memoized.
func (r *Registry) Get(ctx context.Context, providerName, model string) (*domain.Provider, error) {
	if providerName == "" {
		return nil, errors.New("provider name cannot be empty")
	}
	if model == "" {
		return nil, errors.New("model cannot be empty")
	}

	key := pairKey{provider: providerName, model: model}

	r.mu.RLock()
	provider, exists := r.providers[key]
	r.mu.RUnlock()
	if exists {
		return provider, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if provider, exists = r.providers[key]; exists {
		return provider, nil
	}

	provider, err := r.resolver.Resolve(ctx, providerName, model)
	if err != nil {
		return nil, err
	}

	r.providers[key] = provider
	return provider, nil
}

// List returns the requested pairs resolved so far as "provider/model", sorted.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for key := range r.providers {
		names = append(names, key.provider+"/"+key.model)
	}
	sort.Strings(names)

	return names, nil
}
