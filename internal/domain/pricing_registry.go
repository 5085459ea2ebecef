package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// InMemoryPricingRegistry keeps model prices in a map guarded by a RWMutex.
type InMemoryPricingRegistry struct {
	mu      sync.RWMutex
	pricing map[string]PricingConfig
}

// NewInMemoryPricingRegistry creates an empty pricing registry.
func NewInMemoryPricingRegistry() *InMemoryPricingRegistry {
	return &InMemoryPricingRegistry{
		mu:      sync.RWMutex{},
		pricing: make(map[string]PricingConfig),
	}
}

// GetPricing returns the price registered for model.
func (r *InMemoryPricingRegistry) GetPricing(_ context.Context, model string) (PricingConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	config, exists := r.pricing[model]
	if !exists {
		return PricingConfig{}, fmt.Errorf("pricing not found for model: %s", model)
	}

	return config, nil
}

// RegisterPricing sets the price for model, replacing any previous entry.
func (r *InMemoryPricingRegistry) RegisterPricing(_ context.Context, model string, config PricingConfig) error {
	if model == "" {
		return errors.New("model cannot be empty")
	}
	if config.InputCostPer1K < 0 || config.OutputCostPer1K < 0 {
		return fmt.Errorf("negative pricing for model %s", model)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.pricing[model] = config
	return nil
}

// Models lists the models with registered pricing, sorted.
func (r *InMemoryPricingRegistry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	models := make([]string, 0, len(r.pricing))
	for model := range r.pricing {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}
