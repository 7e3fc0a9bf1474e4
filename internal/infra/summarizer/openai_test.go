package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/resilience/circuitbreaker"
	"doc-summarizer/internal/resilience/retry"
)

// mockOpenAIServer creates a test HTTP server that simulates OpenAI API responses
func mockOpenAIServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

func chatCompletionResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 100, "completion_tokens": 20, "total_tokens": 120},
	})
	return string(body)
}

func newTestOpenAI(t *testing.T, server *httptest.Server) *OpenAI {
	t.Helper()
	o := NewOpenAI(config.ProviderConfig{
		Name:    config.ProviderOpenAI,
		APIKey:  "test-key",
		BaseURL: server.URL + "/v1",
		Timeout: 5 * time.Second,
	})
	o.exec.retry = fastRetry()
	return o
}

func TestOpenAI_Summarize(t *testing.T) {
	var captured struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := mockOpenAIServer(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionResponse("\nShort summary.\n")))
	})
	defer server.Close()

	o := newTestOpenAI(t, server)

	got, err := o.Summarize(context.Background(), "Document body.", 150, 50)

	require.NoError(t, err)
	assert.Equal(t, "Short summary.", got)
	assert.Equal(t, DefaultOpenAIModel, captured.Model)
	assert.Equal(t, maxTokensFor(150), captured.MaxTokens)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	assert.Contains(t, captured.Messages[0].Content, "between 50 and 150 words")
	assert.Contains(t, captured.Messages[0].Content, "Document body.")
}

// TestOpenAI_ErrorHandling tests various error scenarios from OpenAI API
func TestOpenAI_ErrorHandling(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		responseBody string
		wantAttempts int32
	}{
		{
			name:         "API returns 401 unauthorized",
			statusCode:   http.StatusUnauthorized,
			responseBody: `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error", "code": "invalid_api_key"}}`,
			wantAttempts: 1,
		},
		{
			name:         "API returns 429 rate limit",
			statusCode:   http.StatusTooManyRequests,
			responseBody: `{"error": {"message": "Rate limit reached", "type": "rate_limit_error"}}`,
			wantAttempts: 3,
		},
		{
			name:         "API returns 500 internal server error",
			statusCode:   http.StatusInternalServerError,
			responseBody: `{"error": {"message": "Internal server error", "type": "server_error"}}`,
			wantAttempts: 3,
		},
		{
			name:         "API returns 503 without JSON body",
			statusCode:   http.StatusServiceUnavailable,
			responseBody: `upstream unavailable`,
			wantAttempts: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			server := mockOpenAIServer(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.responseBody))
			})
			defer server.Close()

			o := newTestOpenAI(t, server)

			_, err := o.Summarize(context.Background(), "text", 100, 30)

			require.Error(t, err)
			assert.Equal(t, tt.wantAttempts, attempts.Load())

			var httpErr *retry.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
		})
	}
}

// TestOpenAI_EmptyResponse tests when API returns empty choices array
func TestOpenAI_EmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty choices array", body: `{"id":"x","object":"chat.completion","choices":[]}`},
		{name: "whitespace-only content", body: chatCompletionResponse("   \n\t  ")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockOpenAIServer(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			})
			defer server.Close()

			o := newTestOpenAI(t, server)

			_, err := o.Summarize(context.Background(), "text", 100, 30)

			assert.ErrorIs(t, err, ErrEmptyResponse)
		})
	}
}

func TestOpenAI_CircuitBreakerOpens(t *testing.T) {
	var attempts atomic.Int32
	server := mockOpenAIServer(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	})
	defer server.Close()

	o := newTestOpenAI(t, server)
	o.exec.retry = retry.NoRetry()

	// OpenAIAPIConfig trips after 5 requests at >= 60% failure.
	for range 5 {
		_, err := o.Summarize(context.Background(), "text", 100, 30)
		require.Error(t, err)
	}
	require.True(t, o.Breaker().IsOpen())

	_, err := o.Summarize(context.Background(), "text", 100, 30)

	assert.ErrorIs(t, err, circuitbreaker.ErrOpen)
	assert.Equal(t, int32(5), attempts.Load(), "open circuit must not reach the server")
}

func TestOpenAI_CancelledContext(t *testing.T) {
	var attempts atomic.Int32
	server := mockOpenAIServer(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatCompletionResponse("never used")))
	})
	defer server.Close()

	o := newTestOpenAI(t, server)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Summarize(ctx, "text", 100, 30)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), attempts.Load())
	assert.Equal(t, uint32(0), o.Breaker().Counts().TotalFailures, "cancellation is not a backend failure")
}
