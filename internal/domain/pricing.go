package domain

import "context"

// PricingConfig is the per-model token price, in USD per 1K tokens.
type PricingConfig struct {
	InputCostPer1K  float64
	OutputCostPer1K float64
}

// IsZero reports whether the model is free.
func (p PricingConfig) IsZero() bool {
	return p.InputCostPer1K == 0 && p.OutputCostPer1K == 0
}

// CostCalculator calculates cost based on token usage.
type CostCalculator interface {
	Calculate(ctx context.Context, model string, usage Usage) (float64, error)
}

// PricingRegistry maintains pricing information for models.
type PricingRegistry interface {
	GetPricing(ctx context.Context, model string) (PricingConfig, error)
	RegisterPricing(ctx context.Context, model string, config PricingConfig) error
}
