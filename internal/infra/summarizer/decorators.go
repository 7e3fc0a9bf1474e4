package summarizer

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Serialized allows one call at a time into a summarizer that is not safe for concurrent use.
type Serialized struct {
	mu    sync.Mutex
	inner Summarizer
}

// NewSerialized wraps inner with a mutex.
func NewSerialized(inner Summarizer) *Serialized {
	return &Serialized{inner: inner}
}

// Summarize implements Summarizer.
func (s *Serialized) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Summarize(ctx, text, maxLength, minLength)
}

// RateLimited throttles outbound calls with a token bucket shared by all callers.
type RateLimited struct {
	limiter *rate.Limiter
	inner   Summarizer
}

// NewRateLimited allows perSecond calls per second on average with bursts of up to burst calls.
func NewRateLimited(inner Summarizer, perSecond float64, burst int) *RateLimited {
	return &RateLimited{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		inner:   inner,
	}
}

// Summarize waits for a token, then calls the wrapped summarizer.
// It returns early if ctx is done before a token becomes available.
func (r *RateLimited) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	return r.inner.Summarize(ctx, text, maxLength, minLength)
}
