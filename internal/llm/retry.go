package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with capped exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var (
		err           error
		resp          *Response
		invalidBudget = 1
	)
	for attempt := 0; attempt < r.config.MaxAttempts; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(r.backoff(attempt-1, err))
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err, &invalidBudget) {
			return nil, err
		}
	}
	return nil, err
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryable reports whether err is worth another attempt. Malformed output
// is retried while budget lasts.
func retryable(err error, invalidBudget *int) bool {
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRequestRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.As(err, &maxTok), errors.As(err, &rejected):
		return false
	case errors.As(err, &invalid):
		if *invalidBudget == 0 {
			return false
		}
		*invalidBudget--
		return true
	}
	return true
}

// backoff is the wait before retry number attempt+1. A provider's
// Retry-After wins over the computed delay.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := math.Min(
		float64(r.config.InitialWait)*math.Pow(r.config.Multiplier, float64(attempt)),
		float64(r.config.MaxWait),
	)
	wait *= 0.8 + 0.4*rand.Float64()
	return time.Duration(wait)
}
