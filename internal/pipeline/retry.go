package pipeline

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tdalton7/earnex/internal/oracle"
)

// Retry wraps a single oracle invocation with bounded retry. Only
// classified rate-limit failures retry; every other error surfaces
// immediately. Each attempt is a fresh call, no state carries over.
type Retry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	JitterMax   time.Duration
}

// DefaultRetry matches the service defaults: 4 attempts, linearly
// growing backoff with up to 1s of jitter.
func DefaultRetry() Retry {
	return Retry{
		MaxAttempts: 4,
		BaseDelay:   2 * time.Second,
		JitterMax:   time.Second,
	}
}

// Do runs call until it succeeds, fails with a non-retryable error, or
// attempts are exhausted. The delay before attempt n is
// BaseDelay*(n-1) plus uniform jitter, so concurrent retriers
// desynchronize.
func (r Retry) Do(ctx context.Context, call func(ctx context.Context) (string, error)) (string, error) {
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(r.delay(attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		reply, err := call(ctx)
		if err == nil {
			return reply, nil
		}
		if !oracle.IsRateLimited(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("rate limit retries exhausted after %d attempts: %w", maxAttempts, lastErr)
}

func (r Retry) delay(attempt int) time.Duration {
	d := r.BaseDelay * time.Duration(attempt-1)
	if r.JitterMax > 0 {
		d += time.Duration(rand.Int63n(int64(r.JitterMax)))
	}
	return d
}
