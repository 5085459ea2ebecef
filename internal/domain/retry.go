package domain

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 4 * time.Second
	defaultMaxBackoff     = 10 * time.Second
	defaultMultiplier     = 2.0
)

// RetryPolicy bounds the attempts made for a single backend call.
// Only errors classified by IsTransient are retried.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64

	// OnRetry, when set, is called before each backoff sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// DefaultRetryPolicy returns three attempts with 4s, 8s backoff capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    defaultMaxAttempts,
		InitialBackoff: defaultInitialBackoff,
		MaxBackoff:     defaultMaxBackoff,
		Multiplier:     defaultMultiplier,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	def := DefaultRetryPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = def.MaxBackoff
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// Retry runs fn until it succeeds, returns a non-transient error, or the policy
// runs out of attempts. The last error is returned unchanged. Cancelling ctx
// interrupts the backoff sleep.
func Retry[T any](ctx context.Context, policy RetryPolicy, fn func() (T, error)) (T, error) {
	policy = policy.withDefaults()

	attempt := 0
	operation := func() (T, error) {
		attempt++
		result, err := fn()
		if err != nil && !IsTransient(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	schedule := &backoff.ExponentialBackOff{
		InitialInterval:     policy.InitialBackoff,
		RandomizationFactor: 0,
		Multiplier:          policy.Multiplier,
		MaxInterval:         policy.MaxBackoff,
	}

	result, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(schedule),
		backoff.WithMaxTries(uint(policy.MaxAttempts)), //nolint:gosec // bounded by withDefaults
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, delay time.Duration) {
			if policy.OnRetry != nil {
				policy.OnRetry(attempt, err, delay)
			}
		}),
	)

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}
	return result, err
}
