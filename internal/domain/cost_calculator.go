package domain

import (
	"context"
	"errors"
)

const tokensToPerK = 1000.0

// StandardCostCalculator prices token usage from a PricingRegistry.
type StandardCostCalculator struct {
	pricingRegistry PricingRegistry
}

// NewStandardCostCalculator creates a new cost calculator.
func NewStandardCostCalculator(registry PricingRegistry) *StandardCostCalculator {
	return &StandardCostCalculator{
		pricingRegistry: registry,
	}
}

// Calculate returns the USD cost of usage on model. Models without registered
// pricing cost nothing.
func (c *StandardCostCalculator) Calculate(
	ctx context.Context,
	model string,
	usage Usage,
) (float64, error) {
	if model == "" {
		return 0, errors.New("model cannot be empty")
	}

	pricing, err := c.pricingRegistry.GetPricing(ctx, model)
	if err != nil {
		//nolint:nilerr // unknown pricing is not a request failure
		return 0, nil
	}

	input := float64(usage.PromptTokens) / tokensToPerK * pricing.InputCostPer1K
	output := float64(usage.CompletionTokens) / tokensToPerK * pricing.OutputCostPer1K

	return input + output, nil
}
