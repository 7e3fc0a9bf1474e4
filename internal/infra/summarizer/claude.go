package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/resilience/circuitbreaker"
)

// DefaultClaudeModel is used when no model is configured.
const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude implements Summarizer using Anthropic's Messages API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client anthropic.Client
	model  string
	exec   *executor
}

// NewClaude creates a new Claude summarizer from the provider configuration.
// The SDK's own retries are disabled so that the shared retry policy is the only one in effect.
func NewClaude(cfg config.ProviderConfig) *Claude {
	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("Initialized Claude summarizer", slog.String("model", model))

	return &Claude{
		client: anthropic.NewClient(opts...),
		model:  model,
		exec:   newExecutor(config.ProviderClaude, cfg.Timeout),
	}
}

// Summarize generates a summary of text between minLength and maxLength words.
func (c *Claude) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	return c.exec.run(ctx, text, maxLength, minLength, func(ctx context.Context) (string, error) {
		return c.doSummarize(ctx, text, maxLength, minLength)
	})
}

// Breaker exposes the circuit breaker for readiness reporting.
func (c *Claude) Breaker() *circuitbreaker.CircuitBreaker {
	return c.exec.breaker
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (c *Claude) doSummarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokensFor(maxLength)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(buildPrompt(text, maxLength, minLength)),
			),
		},
	})
	if err != nil {
		return "", classifyClaudeError(err)
	}

	// Validate response structure
	if len(message.Content) == 0 {
		return "", ErrEmptyResponse
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected content type %q", message.Content[0].Type)
	}

	summary := strings.TrimSpace(textBlock.Text)
	if summary == "" {
		return "", ErrEmptyResponse
	}
	return summary, nil
}

// classifyClaudeError maps SDK API errors to status-coded errors the retry policy understands.
// Transport errors pass through unchanged.
func classifyClaudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		var header http.Header
		if apiErr.Response != nil {
			header = apiErr.Response.Header
		}
		return statusError(config.ProviderClaude, apiErr.StatusCode, header, err)
	}
	return fmt.Errorf("claude api error: %w", err)
}
