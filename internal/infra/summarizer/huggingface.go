package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/resilience/circuitbreaker"
)

const (
	// DefaultHuggingFaceModel is the abstractive model the reduction thresholds were tuned for.
	DefaultHuggingFaceModel = "sshleifer/distilbart-cnn-12-6"

	// DefaultHuggingFaceBaseURL is the hosted Inference API endpoint.
	DefaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"
)

// HuggingFace implements Summarizer using the Hugging Face Inference API
// summarization task. Length bounds are passed as generation parameters.
type HuggingFace struct {
	client *resty.Client
	model  string
	exec   *executor
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
	Options    hfOptions    `json:"options"`
}

type hfParameters struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfSummary struct {
	SummaryText string `json:"summary_text"`
}

type hfError struct {
	Error         string  `json:"error"`
	EstimatedTime float64 `json:"estimated_time"`
}

// NewHuggingFace creates a new Hugging Face summarizer from the provider configuration.
// An API key is optional; anonymous requests are heavily rate limited.
func NewHuggingFace(cfg config.ProviderConfig) *HuggingFace {
	model := cfg.Model
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultHuggingFaceBaseURL
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	slog.Info("Initialized Hugging Face summarizer",
		slog.String("model", model),
		slog.String("base_url", baseURL))

	return &HuggingFace{
		client: client,
		model:  model,
		exec:   newExecutor(config.ProviderHuggingFace, cfg.Timeout),
	}
}

// Summarize generates a summary of text between minLength and maxLength words.
func (h *HuggingFace) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	return h.exec.run(ctx, text, maxLength, minLength, func(ctx context.Context) (string, error) {
		return h.doSummarize(ctx, text, maxLength, minLength)
	})
}

// Breaker exposes the circuit breaker for readiness reporting.
func (h *HuggingFace) Breaker() *circuitbreaker.CircuitBreaker {
	return h.exec.breaker
}

// doSummarize performs the actual API call without retry or circuit breaker.
func (h *HuggingFace) doSummarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	var (
		result []hfSummary
		apiErr hfError
	)

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(hfRequest{
			Inputs: text,
			Parameters: hfParameters{
				MaxLength: maxLength,
				MinLength: minLength,
				DoSample:  false,
			},
			Options: hfOptions{WaitForModel: false},
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post("/models/" + h.model)
	if err != nil {
		return "", fmt.Errorf("huggingface api error: %w", err)
	}

	if resp.IsError() {
		msg := apiErr.Error
		if msg == "" {
			msg = resp.Status()
		}
		httpErr := statusError(config.ProviderHuggingFace, resp.StatusCode(), resp.Header(),
			errors.New(msg))
		// A loading model reports how long it expects to need.
		if httpErr.RetryAfter == 0 && apiErr.EstimatedTime > 0 {
			httpErr.RetryAfter = time.Duration(math.Ceil(apiErr.EstimatedTime)) * time.Second
		}
		return "", httpErr
	}

	if len(result) == 0 {
		return "", ErrEmptyResponse
	}

	summary := strings.TrimSpace(result[0].SummaryText)
	if summary == "" {
		return "", ErrEmptyResponse
	}
	return summary, nil
}
