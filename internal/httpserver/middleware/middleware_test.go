package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmrouter/internal/config"
	"github.com/davidbz/llmrouter/internal/httpserver/middleware"
	"github.com/davidbz/llmrouter/internal/observability"
)

func TestChain(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := middleware.Chain(tag("first"), tag("second"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRecover(t *testing.T) {
	t.Run("should answer 500 when a handler panics", func(t *testing.T) {
		h := middleware.Recover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		require.NotPanics(t, func() {
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/generate", nil))
		})
		require.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("should keep the trace headers from the chain", func(t *testing.T) {
		h := middleware.BuildMiddlewareChain(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestTrace(t *testing.T) {
	t.Run("should inject ids into context and headers", func(t *testing.T) {
		var traceID, requestID string
		h := middleware.Trace()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			traceID = observability.GetTraceID(r.Context())
			requestID = observability.GetRequestID(r.Context())
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Len(t, traceID, 32)
		require.NotEmpty(t, requestID)
		require.Equal(t, traceID, w.Header().Get(middleware.TraceIDHeader))
		require.Equal(t, requestID, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("should keep an incoming request id", func(t *testing.T) {
		var requestID string
		h := middleware.Trace()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			requestID = observability.GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		require.Equal(t, "req-42", requestID)
		require.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
	})
}

func TestCORS(t *testing.T) {
	t.Run("should pass through when config is nil", func(t *testing.T) {
		called := false
		h := middleware.CORS(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		require.True(t, called)
	})

	t.Run("should answer preflight requests", func(t *testing.T) {
		h := middleware.CORS(&config.CORSConfig{
			AllowedOrigins: []string{"https://example.com"},
			AllowedMethods: []string{http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         60,
		})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		req := httptest.NewRequest(http.MethodOptions, "/v1/generate", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		require.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	})
}
