package domain

import (
	"context"
	"fmt"

	"github.com/davidbz/llmrouter/internal/observability"
)

// GatewayService orchestrates requests to providers.
type GatewayService struct {
	resolver ProviderResolver
	router   Router
}

// NewGatewayService creates a new gateway service (DI constructor).
func NewGatewayService(resolver ProviderResolver, router Router) *GatewayService {
	return &GatewayService{
		resolver: resolver,
		router:   router,
	}
}

// Generate handles a generation request. An empty provider or model is filled
// in by the router; the result reports the pair that actually served the request.
func (g *GatewayService) Generate(
	ctx context.Context,
	providerName string,
	model string,
	req *GenerationRequest,
) (*GenerationResult, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	if providerName == "" || model == "" {
		routed, err := g.router.Route(ctx, &RouteRequest{Provider: providerName, Model: model})
		if err != nil {
			return nil, fmt.Errorf("provider routing failed: %w", err)
		}
		providerName, model = routed.Provider, routed.Model
	}

	provider, err := g.resolver.Get(ctx, providerName, model)
	if err != nil {
		return nil, fmt.Errorf("provider resolution failed: %w", err)
	}

	if provider.Name() != providerName || provider.Model() != model {
		observability.FromContext(ctx).Info("request served by fallback provider",
			observability.String("requested_provider", providerName),
			observability.String("requested_model", model),
			observability.String("resolved_provider", provider.Name()),
			observability.String("resolved_model", provider.Model()),
		)
	}

	response, err := provider.Generate(ctx, req.Prompt, req.Options)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return &GenerationResult{
		Provider: provider.Name(),
		Model:    provider.Model(),
		Response: response,
	}, nil
}
