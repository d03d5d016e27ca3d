package llm

import (
	"context"
	"sync"
	"time"
)

const rateLimitPollInterval = 100 * time.Millisecond

// RateLimitedProvider caps requests per minute around another provider.
// The bucket refills continuously, so a review session pacing one call
// per course never stalls behind an earlier burst.
type RateLimitedProvider struct {
	inner Provider
	rpm   int

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimitedProvider wraps inner, allowing at most rpm requests per
// minute.
func NewRateLimitedProvider(inner Provider, rpm int) Provider {
	return &RateLimitedProvider{
		inner:  inner,
		rpm:    rpm,
		tokens: float64(rpm),
		last:   time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string { return r.inner.Name() }

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.acquire(ctx); err != nil {
		return nil, err
	}
	return r.inner.Complete(ctx, req)
}

func (r *RateLimitedProvider) acquire(ctx context.Context) error {
	for {
		if r.takeToken() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rateLimitPollInterval):
		}
	}
}

func (r *RateLimitedProvider) takeToken() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	r.tokens += now.Sub(r.last).Minutes() * float64(r.rpm)
	if limit := float64(r.rpm); r.tokens > limit {
		r.tokens = limit
	}
	r.last = now

	if r.tokens >= 1 {
		r.tokens--
		return true
	}
	return false
}
