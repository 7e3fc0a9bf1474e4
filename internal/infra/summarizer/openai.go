package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/resilience/circuitbreaker"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI implements Summarizer using the Chat Completions API.
// BaseURL may point at any OpenAI-compatible server.
type OpenAI struct {
	client *openai.Client
	model  string
	exec   *executor
}

// NewOpenAI creates a new OpenAI summarizer from the provider configuration.
func NewOpenAI(cfg config.ProviderConfig) *OpenAI {
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("Initialized OpenAI summarizer",
		slog.String("model", model),
		slog.String("base_url", clientCfg.BaseURL))

	return &OpenAI{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		exec:   newExecutor(config.ProviderOpenAI, cfg.Timeout),
	}
}

// Summarize generates a summary of text between minLength and maxLength words.
func (o *OpenAI) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	return o.exec.run(ctx, text, maxLength, minLength, func(ctx context.Context) (string, error) {
		return o.doSummarize(ctx, text, maxLength, minLength)
	})
}

// Breaker exposes the circuit breaker for readiness reporting.
func (o *OpenAI) Breaker() *circuitbreaker.CircuitBreaker {
	return o.exec.breaker
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (o *OpenAI) doSummarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.model,
		MaxTokens: maxTokensFor(maxLength),
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(text, maxLength, minLength),
			},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", ErrEmptyResponse
	}
	return summary, nil
}

// classifyOpenAIError maps SDK errors carrying an HTTP status to status-coded errors.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return statusError(config.ProviderOpenAI, apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return statusError(config.ProviderOpenAI, reqErr.HTTPStatusCode, nil, err)
	}
	return fmt.Errorf("openai api error: %w", err)
}
