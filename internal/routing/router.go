package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/llmrouter/internal/config"
	"github.com/davidbz/llmrouter/internal/domain"
)

// ConfigRouter completes partial requests from the configuration tree.
type ConfigRouter struct {
	tree *config.Tree
}

// NewRouter creates a new router.
func NewRouter(tree *config.Tree) *ConfigRouter {
	return &ConfigRouter{
		tree: tree,
	}
}

// Route fills in whatever the request leaves empty. A model without a provider
// goes to the first provider, by name, that has the model enabled. A provider
// without a model gets that provider's default_model.
func (r *ConfigRouter) Route(_ context.Context, req *domain.RouteRequest) (*domain.RouteRequest, error) {
	if req == nil {
		return nil, errors.New("route request cannot be nil")
	}

	switch {
	case req.Provider != "" && req.Model != "":
		return &domain.RouteRequest{Provider: req.Provider, Model: req.Model}, nil

	case req.Provider == "" && req.Model == "":
		return r.defaultPair()

	case req.Provider == "":
		for _, name := range r.tree.ProviderNames() {
			if r.tree.IsAvailable(name, req.Model) {
				return &domain.RouteRequest{Provider: name, Model: req.Model}, nil
			}
		}
		return nil, fmt.Errorf("no provider found for model: %s", req.Model)

	default:
		provider, ok := r.tree.Provider(req.Provider)
		if ok && provider.DefaultModel != "" {
			return &domain.RouteRequest{Provider: req.Provider, Model: provider.DefaultModel}, nil
		}
		return r.defaultPair()
	}
}

func (r *ConfigRouter) defaultPair() (*domain.RouteRequest, error) {
	name := r.tree.DefaultProvider
	if name == "" {
		return nil, &domain.ConfigurationError{Message: "default_provider is not set"}
	}

	provider, ok := r.tree.Provider(name)
	if !ok || provider.DefaultModel == "" {
		return nil, &domain.ConfigurationError{
			Message: fmt.Sprintf("default_provider %q has no default_model", name),
		}
	}

	return &domain.RouteRequest{Provider: name, Model: provider.DefaultModel}, nil
}
