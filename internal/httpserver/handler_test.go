package httpserver_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmrouter/internal/cache/memory"
	"github.com/davidbz/llmrouter/internal/config"
	"github.com/davidbz/llmrouter/internal/domain"
	"github.com/davidbz/llmrouter/internal/httpserver"
	"github.com/davidbz/llmrouter/internal/metrics"
	"github.com/davidbz/llmrouter/internal/mocks"
	"github.com/davidbz/llmrouter/internal/provider/factory"
	"github.com/davidbz/llmrouter/internal/provider/registry"
	"github.com/davidbz/llmrouter/internal/routing"
)

const echoTree = `
default_provider: echo
providers:
  echo:
    enabled: true
    default_model: echo4
    models:
      echo4:
        enabled: true
        display_name: Echo
  google:
    enabled: false
    default_model: gemini-2.0-flash
    models:
      gemini-2.0-flash: {enabled: true}
`

type stack struct {
	server   *httpserver.Server
	registry *prometheus.Registry
}

func newStack(t *testing.T) stack {
	t.Helper()

	tree, err := config.ParseTree([]byte(echoTree))
	require.NoError(t, err)

	promRegistry := prometheus.NewRegistry()
	sink, err := metrics.New(promRegistry)
	require.NoError(t, err)

	deps := domain.ProviderDeps{
		Cache:   domain.NewResponseCache(memory.NewStore(time.Minute, 0), time.Minute),
		Metrics: sink,
		Retry:   domain.RetryPolicy{MaxAttempts: 1},
	}
	f := factory.NewFactory(tree, deps, nil, &config.CredentialsConfig{})
	gateway := domain.NewGatewayService(registry.NewRegistry(f), routing.NewRouter(tree))
	handler := httpserver.NewHandler(gateway, tree)

	server := httpserver.NewServer(&config.ServerConfig{Port: 0}, nil, handler, promRegistry)
	return stack{server: server, registry: promRegistry}
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/generate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandleGenerate(t *testing.T) {
	t.Run("should generate with an explicit pair", func(t *testing.T) {
		routes := newStack(t).server.Routes()

		w := post(t, routes, `{"provider":"echo","model":"echo4","prompt":"hello there","options":{"max_tokens":1}}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "echo", w.Header().Get("X-Provider"))
		require.Equal(t, "echo4", w.Header().Get("X-Model"))
		require.NotEmpty(t, w.Header().Get("X-Request-Id"))

		var resp map[string]any
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Equal(t, "hello", resp["text"])
	})

	t.Run("should report the fallback pair", func(t *testing.T) {
		routes := newStack(t).server.Routes()

		w := post(t, routes, `{"provider":"google","model":"gemini-2.0-flash","prompt":"ping"}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "echo", w.Header().Get("X-Provider"))
		require.Equal(t, "echo4", w.Header().Get("X-Model"))
	})

	t.Run("should route requests without a pair to the default", func(t *testing.T) {
		routes := newStack(t).server.Routes()

		w := post(t, routes, `{"prompt":"ping"}`)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "echo", w.Header().Get("X-Provider"))
	})

	t.Run("should reject an empty prompt", func(t *testing.T) {
		routes := newStack(t).server.Routes()

		w := post(t, routes, `{"provider":"echo","model":"echo4","prompt":""}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("should reject malformed bodies", func(t *testing.T) {
		routes := newStack(t).server.Routes()

		w := post(t, routes, `{"prompt":`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, w.Body.String(), "invalid request body")
	})

	t.Run("should reject other methods", func(t *testing.T) {
		routes := newStack(t).server.Routes()

		req := httptest.NewRequest(http.MethodGet, "/v1/generate", nil)
		w := httptest.NewRecorder()
		routes.ServeHTTP(w, req)

		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("should map unknown providers to a server error", func(t *testing.T) {
		resolver := mocks.NewMockProviderResolver(t)
		router := mocks.NewMockRouter(t)
		resolver.EXPECT().
			Get(mock.Anything, "acme", "m1").
			Return(nil, &domain.UnknownProviderError{Provider: "acme"})

		tree, err := config.ParseTree([]byte(echoTree))
		require.NoError(t, err)
		handler := httpserver.NewHandler(domain.NewGatewayService(resolver, router), tree)

		req := httptest.NewRequest(http.MethodPost, "/v1/generate",
			bytes.NewBufferString(`{"provider":"acme","model":"m1","prompt":"x"}`))
		w := httptest.NewRecorder()
		handler.HandleGenerate(w, req)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Contains(t, w.Body.String(), "acme")
	})

	t.Run("should send null raw and usage for text-only responses", func(t *testing.T) {
		backend := mocks.NewMockBackend(t)
		backend.EXPECT().
			RawGenerate(mock.Anything, "x", mock.Anything).
			Return(&domain.GenerationResponse{Text: "plain"}, nil)

		resolver := mocks.NewMockProviderResolver(t)
		resolver.EXPECT().
			Get(mock.Anything, "acme", "m1").
			Return(domain.NewProvider("acme", "m1", backend, domain.ProviderDeps{}), nil)

		tree, err := config.ParseTree([]byte(echoTree))
		require.NoError(t, err)
		handler := httpserver.NewHandler(domain.NewGatewayService(resolver, mocks.NewMockRouter(t)), tree)

		req := httptest.NewRequest(http.MethodPost, "/v1/generate",
			bytes.NewBufferString(`{"provider":"acme","model":"m1","prompt":"x"}`))
		w := httptest.NewRecorder()
		handler.HandleGenerate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t,
			`{"provider":"acme","model":"m1","text":"plain","raw":null,"usage":null}`,
			w.Body.String())
	})

	t.Run("should count requests in the metrics endpoint", func(t *testing.T) {
		s := newStack(t)
		routes := s.server.Routes()

		require.Equal(t, http.StatusOK, post(t, routes, `{"provider":"echo","model":"echo4","prompt":"a"}`).Code)
		require.Equal(t, http.StatusOK, post(t, routes, `{"provider":"echo","model":"echo4","prompt":"a"}`).Code)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		w := httptest.NewRecorder()
		routes.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Body.String(), `llm_requests_total{model="echo4",provider="echo"} 2`)
	})
}

func TestHandleProviders(t *testing.T) {
	routes := newStack(t).server.Routes()

	req := httptest.NewRequest(http.MethodGet, "/v1/providers", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Providers []struct {
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
			Default bool   `json:"default"`
			Models  []struct {
				Name        string `json:"name"`
				DisplayName string `json:"display_name"`
			} `json:"models"`
		} `json:"providers"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	require.Len(t, body.Providers, 2)
	require.Equal(t, "echo", body.Providers[0].Name)
	require.True(t, body.Providers[0].Default)
	require.Equal(t, "Echo", body.Providers[0].Models[0].DisplayName)
	require.Equal(t, "google", body.Providers[1].Name)
	require.False(t, body.Providers[1].Enabled)
}

func TestHandleHealth(t *testing.T) {
	routes := newStack(t).server.Routes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	routes.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}
