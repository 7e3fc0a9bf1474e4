// Package retry retries transient failures of outbound calls with capped
// exponential backoff, jitter and support for server-requested delays.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"syscall"
	"time"

	"doc-summarizer/internal/observability/logging"
)

// Config controls how often and how patiently an operation is retried.
type Config struct {
	// MaxAttempts counts the first attempt; 1 disables retries.
	MaxAttempts int
	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration
	// MaxDelay caps every wait, including server-requested ones.
	MaxDelay time.Duration
	// Multiplier grows the wait after each failed attempt.
	Multiplier float64
	// JitterFraction adds up to this fraction of the wait at random (0.0 to 1.0).
	JitterFraction float64
}

// SummarizerConfig returns the policy for summarization provider calls.
// Every attempt is a paid model call and a long document needs many of them,
// so retries are few and waits short.
func SummarizerConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   2 * time.Second,
		MaxDelay:       10 * time.Second,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

// NoRetry returns a policy that makes exactly one attempt.
func NoRetry() Config {
	return Config{MaxAttempts: 1}
}

// WithBackoff calls fn until it succeeds, fails with a non-retryable error,
// or MaxAttempts is reached. Non-retryable errors are returned as is; exhausted
// retries wrap the last error. A cancelled ctx stops the wait between attempts.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	logger := logging.FromContext(ctx)
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				logger.InfoContext(ctx, "call succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}

		if !IsRetryable(err) {
			return err
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		wait := waitFor(err, delay, cfg.MaxDelay)
		logger.WarnContext(ctx, "call failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		if err := sleep(ctx, wait); err != nil {
			return fmt.Errorf("retry aborted: %w", err)
		}

		delay = addJitter(min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay), cfg.JitterFraction)
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, err)
}

// waitFor prefers a server-provided Retry-After over the computed backoff, capped at maxDelay.
func waitFor(err error, backoff, maxDelay time.Duration) time.Duration {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return min(httpErr.RetryAfter, maxDelay)
	}
	return backoff
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryable reports whether err is transient: a network timeout, a refused or
// reset connection, or an HTTPError with a retryable status. Context errors never are.
func IsRetryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return IsRetryableStatus(httpErr.StatusCode)
	}
	return false
}

// IsRetryableStatus reports whether an HTTP status code indicates a transient failure:
// 5xx server errors, 429 Too Many Requests and 408 Request Timeout.
func IsRetryableStatus(code int) bool {
	return code >= 500 && code < 600 ||
		code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout
}

// IsClientError reports whether err is an HTTPError rejecting the request itself:
// a 4xx status other than 408 and 429. The backend answered, so it is healthy.
func IsClientError(err error) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	code := httpErr.StatusCode
	return code >= 400 && code < 500 && !IsRetryableStatus(code)
}

// HTTPError is a failed HTTP exchange with a backend.
// Provider adapters convert SDK errors into HTTPError so that retry decisions
// do not depend on any one SDK's error type.
type HTTPError struct {
	StatusCode int
	Message    string
	// RetryAfter is the server-requested delay, zero when absent.
	RetryAfter time.Duration
	// Err is the underlying SDK or transport error, if any.
	Err error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// addJitter adds up to fraction*d of random delay so that concurrent callers do not retry in lockstep.
func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1.0)
	// #nosec G404 -- jitter does not need cryptographic randomness
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
