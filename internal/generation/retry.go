package generation

import (
	"context"

	"github.com/cenkalti/backoff/v4"
)

// Retry runs op up to maxAttempts times, retrying only errors for which
// retryable returns true. A non-retryable error returns immediately; running
// out of attempts returns a *RetryExhaustedError wrapping the last failure.
func Retry(ctx context.Context, maxAttempts int, retryable func(error) bool, op func(ctx context.Context) error) error {
	var last error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		last = err
	}
	return &RetryExhaustedError{Attempts: maxAttempts, Last: last}
}

// TransportRetry wraps a single provider call. It covers transient failures
// of the external generation service (network errors, rate limits) and is
// separate from the bounded schema/JSON retry loop.
type TransportRetry func(ctx context.Context, op func() error) error

// SingleAttempt runs the call once with no transport-level retry.
func SingleAttempt(ctx context.Context, op func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return op()
}

// BackoffTransport returns a TransportRetry that retries with exponential
// backoff until the call succeeds or ctx is done. Cancellation stops the
// retry loop and propagates the context error.
func BackoffTransport() TransportRetry {
	return func(ctx context.Context, op func() error) error {
		policy := backoff.NewExponentialBackOff()
		policy.MaxElapsedTime = 0 // bounded by ctx, not wall clock

		return backoff.Retry(func() error {
			if err := ctx.Err(); err != nil {
				return backoff.Permanent(err)
			}
			return op()
		}, backoff.WithContext(policy, ctx))
	}
}
