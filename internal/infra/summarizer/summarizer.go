// Package summarizer provides adapters for external summarization backends.
// It includes adapters for Claude (Anthropic), OpenAI and the Hugging Face
// Inference API, each wrapped with retry and circuit breaker logic, plus a
// deterministic offline summarizer and decorators for lazy loading,
// serialization and outbound rate limiting.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/observability/logging"
	"doc-summarizer/internal/resilience/circuitbreaker"
	"doc-summarizer/internal/resilience/retry"
	"doc-summarizer/internal/utils/text"
)

// Summarizer condenses text to between minLength and maxLength words.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

// ErrEmptyResponse is returned when a backend answers without any summary text.
var ErrEmptyResponse = errors.New("summarizer returned empty response")

// executor runs one backend call under a timeout, the retry policy and the circuit breaker.
// It is shared by every API-backed adapter.
type executor struct {
	provider string
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
	timeout  time.Duration
	metrics  SummaryMetricsRecorder
}

func newExecutor(provider string, timeout time.Duration) *executor {
	return &executor{
		provider: provider,
		breaker:  circuitbreaker.New(breakerConfig(provider)),
		retry:    retry.SummarizerConfig(),
		timeout:  timeout,
		metrics:  NewPrometheusSummaryMetrics(provider),
	}
}

// run invokes fn through retry and circuit breaker and records the outcome.
// fn receives a context bounded by the executor timeout.
func (e *executor) run(ctx context.Context, inputText string, maxLength, minLength int,
	fn func(ctx context.Context) (string, error)) (string, error) {
	if err := ValidateLengths(maxLength, minLength); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Generate unique call ID for log correlation across retries
	callID := uuid.New().String()
	logger := logging.FromContext(ctx).With(
		slog.String("provider", e.provider),
		slog.String("call_id", callID))

	logger.DebugContext(ctx, "Starting summarization",
		slog.Int("word_count", text.CountWords(inputText)),
		slog.Int("max_length", maxLength),
		slog.Int("min_length", minLength))

	start := time.Now()
	var result string

	retryErr := retry.WithBackoff(ctx, e.retry, func() error {
		out, err := circuitbreaker.Run(e.breaker, func() (string, error) {
			return fn(ctx)
		})
		if err != nil {
			if errors.Is(err, circuitbreaker.ErrOpen) {
				logger.WarnContext(ctx, "circuit breaker open, request rejected",
					slog.String("state", e.breaker.State().String()))
			}
			return err
		}
		result = out
		return nil
	})

	duration := time.Since(start)
	e.metrics.RecordDuration(duration)

	if retryErr != nil {
		logger.ErrorContext(ctx, "Summarization failed",
			slog.Duration("duration", duration),
			slog.String("error", retryErr.Error()))
		return "", fmt.Errorf("%s summarize failed: %w", e.provider, retryErr)
	}

	summaryWords := text.CountWords(result)
	withinLimit := summaryWords <= maxLength

	e.metrics.RecordLength(summaryWords)
	e.metrics.RecordCompliance(withinLimit)

	logger.DebugContext(ctx, "Summarization completed",
		slog.Int("summary_words", summaryWords),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	if !withinLimit {
		e.metrics.RecordLimitExceeded()
		logger.WarnContext(ctx, "Summary exceeds word limit",
			slog.Int("summary_words", summaryWords),
			slog.Int("limit", maxLength),
			slog.Int("excess", summaryWords-maxLength))
	}

	return result, nil
}

// breakerConfig tunes the circuit for a provider.
// Client errors such as a rejected API key or an oversized prompt say nothing
// about backend health and never open the circuit.
// Hosted Hugging Face models cold-start with 503 responses, so that circuit
// wants more evidence before opening and half-opens sooner.
func breakerConfig(provider string) circuitbreaker.Config {
	cfg := circuitbreaker.DefaultConfig(provider + "-api")
	cfg.Excluded = retry.IsClientError
	if provider == config.ProviderHuggingFace {
		cfg.Interval = time.Minute
		cfg.Timeout = 30 * time.Second
		cfg.FailureThreshold = 0.7
		cfg.MinRequests = 10
	}
	return cfg
}

// buildPrompt constructs the instruction sent to chat-style models.
//
// Example output:
//
//	"Summarize the following text in between 30 and 100 words. ..."
func buildPrompt(input string, maxLength, minLength int) string {
	return fmt.Sprintf("Summarize the following text in between %d and %d words. "+
		"Reply with the summary only, as plain prose without headings or lists.\n\n%s",
		minLength, maxLength, input)
}

// maxTokensFor converts a word budget to a completion token budget.
// English averages about 1.3 tokens per word; the margin avoids cutting a sentence short.
func maxTokensFor(maxLength int) int {
	return max(maxLength*2, 256)
}

// statusError converts an HTTP failure reported by a backend into a *retry.HTTPError
// so that retry decisions are made on the status code alone.
func statusError(provider string, status int, header http.Header, err error) *retry.HTTPError {
	return &retry.HTTPError{
		StatusCode: status,
		Message:    fmt.Sprintf("%s api error: %v", provider, err),
		RetryAfter: parseRetryAfter(header),
		Err:        err,
	}
}

// parseRetryAfter reads a Retry-After header given in seconds or as an HTTP date.
// It returns zero when the header is absent or malformed.
func parseRetryAfter(header http.Header) time.Duration {
	if header == nil {
		return 0
	}
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
