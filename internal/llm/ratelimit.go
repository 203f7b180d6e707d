package llm

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitedProvider holds each request until the limiter admits it.
type RateLimitedProvider struct {
	inner   Provider
	limiter *rate.Limiter
}

// WithRateLimit wraps p so that at most cfg.PerMinute requests start per
// minute. A non-positive PerMinute returns p unchanged.
func WithRateLimit(p Provider, cfg RateLimitConfig) Provider {
	if cfg.PerMinute <= 0 {
		return p
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	every := rate.Every(time.Minute / time.Duration(cfg.PerMinute))
	return &RateLimitedProvider{inner: p, limiter: rate.NewLimiter(every, burst)}
}

func (r *RateLimitedProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, &ErrRateLimit{Err: err}
	}
	return r.inner.Generate(ctx, req)
}

func (r *RateLimitedProvider) ModelID() string {
	return r.inner.ModelID()
}
