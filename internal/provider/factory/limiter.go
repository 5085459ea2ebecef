package factory

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/davidbz/llmrouter/internal/domain"
)

// limitedBackend waits for a token before every attempt.
type limitedBackend struct {
	backend domain.Backend
	limiter *rate.Limiter
}

func (l *limitedBackend) RawGenerate(
	ctx context.Context,
	prompt string,
	opts domain.Options,
) (*domain.GenerationResponse, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}
	return l.backend.RawGenerate(ctx, prompt, opts)
}
