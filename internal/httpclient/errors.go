package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davidbz/llmrouter/internal/domain"
)

const maxErrorBody = 512

// TransportError classifies a failure to obtain a usable response. Cancellation
// by the caller is returned as the context error and an undecodable body is
// terminal. Anything else (DNS, refused connection, client timeout) is transient.
func TransportError(ctx context.Context, provider string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return fmt.Errorf("%s API returned a malformed body: %w", provider, err)
	}

	return domain.NewTransientError(provider, 0, fmt.Errorf("request failed: %w", err))
}

// StatusError classifies a non-2xx response. 408, 429 and 5xx are transient.
func StatusError(provider string, statusCode int, body []byte) error {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	err := fmt.Errorf("%s API returned status %d: %s", provider, statusCode, string(body))
	if domain.IsTransientStatus(statusCode) {
		return domain.NewTransientError(provider, statusCode, err)
	}
	return err
}
