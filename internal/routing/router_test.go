package routing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmrouter/internal/config"
	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/routing"
)

const tree = `
default_provider: google
providers:
  google:
    enabled: true
    default_model: gemini-2.0-flash
    models:
      gemini-2.0-flash: {enabled: true}
  ollama:
    enabled: true
    default_model: llama3
    models:
      llama3: {enabled: true}
      gemma: {enabled: true}
  openrouter:
    enabled: true
    models:
      llama3: {enabled: true}
      gemma: {enabled: false}
  echo:
    enabled: false
    default_model: echo4
    models:
      echo4: {enabled: true}
`

func newRouter(t *testing.T, yaml string) *routing.ConfigRouter {
	t.Helper()
	parsed, err := config.ParseTree([]byte(yaml))
	require.NoError(t, err)
	return routing.NewRouter(parsed)
}

func TestConfigRouter_Route(t *testing.T) {
	ctx := context.Background()
	router := newRouter(t, tree)

	tests := []struct {
		name     string
		req      *domain.RouteRequest
		provider string
		model    string
	}{
		{
			name:     "should keep a complete pair",
			req:      &domain.RouteRequest{Provider: "echo", Model: "echo4"},
			provider: "echo",
			model:    "echo4",
		},
		{
			name:     "should use the default pair when both are empty",
			req:      &domain.RouteRequest{},
			provider: "google",
			model:    "gemini-2.0-flash",
		},
		{
			name:     "should pick the first provider serving the model",
			req:      &domain.RouteRequest{Model: "llama3"},
			provider: "ollama",
			model:    "llama3",
		},
		{
			name:     "should skip providers with the model disabled",
			req:      &domain.RouteRequest{Model: "gemma"},
			provider: "ollama",
			model:    "gemma",
		},
		{
			name:     "should use the provider default model",
			req:      &domain.RouteRequest{Provider: "ollama"},
			provider: "ollama",
			model:    "llama3",
		},
		{
			name:     "should use the default pair when the provider has no default model",
			req:      &domain.RouteRequest{Provider: "openrouter"},
			provider: "google",
			model:    "gemini-2.0-flash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			routed, err := router.Route(ctx, tt.req)
			require.NoError(t, err)
			require.Equal(t, tt.provider, routed.Provider)
			require.Equal(t, tt.model, routed.Model)
		})
	}

	t.Run("should fail for a model nobody serves", func(t *testing.T) {
		_, err := router.Route(ctx, &domain.RouteRequest{Model: "echo4"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "no provider found for model")
	})

	t.Run("should return error when request is nil", func(t *testing.T) {
		_, err := router.Route(ctx, nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "route request cannot be nil")
	})

	t.Run("should report a configuration error without a default", func(t *testing.T) {
		bare := newRouter(t, "providers: {}\n")

		_, err := bare.Route(ctx, &domain.RouteRequest{})

		var cfgErr *domain.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("should not mutate the request", func(t *testing.T) {
		req := &domain.RouteRequest{Provider: "ollama"}
		_, err := router.Route(ctx, req)
		require.NoError(t, err)
		require.Empty(t, req.Model)
	})
}
