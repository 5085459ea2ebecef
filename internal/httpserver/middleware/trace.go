package middleware

import (
	"net/http"
	"time"

	"github.com/davidbz/llmrouter/internal/observability"
)

const (
	// RequestIDHeader carries the request ID. An incoming value is kept.
	RequestIDHeader = "X-Request-Id"
	// TraceIDHeader carries the generated trace ID.
	TraceIDHeader = "X-Trace-Id"
)

// Trace creates a middleware that injects trace ID and request ID into every request.
func Trace() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			traceID := observability.GenerateTraceID()
			ctx = observability.WithTraceID(ctx, traceID)

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = observability.GenerateRequestID()
			}
			ctx = observability.WithRequestID(ctx, requestID)

			w.Header().Set(TraceIDHeader, traceID)
			w.Header().Set(RequestIDHeader, requestID)

			logger := observability.FromContext(ctx)
			logger.Info("request started",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("remote_addr", r.RemoteAddr),
			)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.Debug("request finished", observability.Duration("elapsed", time.Since(start)))
		})
	}
}
