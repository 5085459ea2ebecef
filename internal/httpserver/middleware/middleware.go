package middleware

import (
	"fmt"
	"net/http"

	"github.com/davidbz/llmrouter/internal/config"
	"github.com/davidbz/llmrouter/internal/observability"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares; the first one is the outermost wrapper.
//
//	handler := Chain(CORS(corsConfig), Trace(), Recover())(mux)
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// Recover turns a panic in a handler into a 500 and logs it with the request's
// trace fields. It sits inside Trace so the IDs are already in the context.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				observability.FromContext(r.Context()).Error("handler panicked",
					observability.String("path", r.URL.Path),
					observability.String("panic", fmt.Sprint(rec)),
				)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// BuildMiddlewareChain composes the server's chain: CORS -> Trace -> Recover.
func BuildMiddlewareChain(corsConfig *config.CORSConfig) Middleware {
	return Chain(
		CORS(corsConfig),
		Trace(),
		Recover(),
	)
}
