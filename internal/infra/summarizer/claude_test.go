package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/resilience/retry"
)

const claudeMessageResponse = `{
	"id": "msg_01",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-5-20250929",
	"content": [{"type": "text", "text": "  A concise summary of the text.  "}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 120, "output_tokens": 12}
}`

// newTestClaude points a Claude summarizer at server with fast retries.
func newTestClaude(t *testing.T, server *httptest.Server) *Claude {
	t.Helper()
	c := NewClaude(config.ProviderConfig{
		Name:    config.ProviderClaude,
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	c.exec.retry = fastRetry()
	return c
}

func TestClaude_Summarize(t *testing.T) {
	var captured struct {
		Model     string `json:"model"`
		MaxTokens int    `json:"max_tokens"`
		Messages  []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v1/messages"), "path %s", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(claudeMessageResponse))
	}))
	defer server.Close()

	c := newTestClaude(t, server)

	got, err := c.Summarize(context.Background(), "Original document text.", 100, 30)

	require.NoError(t, err)
	assert.Equal(t, "A concise summary of the text.", got)
	assert.Equal(t, DefaultClaudeModel, captured.Model)
	assert.Equal(t, maxTokensFor(100), captured.MaxTokens)
	require.Len(t, captured.Messages, 1)
	assert.Equal(t, "user", captured.Messages[0].Role)
	require.Len(t, captured.Messages[0].Content, 1)
	assert.Contains(t, captured.Messages[0].Content[0].Text, "between 30 and 100 words")
	assert.Contains(t, captured.Messages[0].Content[0].Text, "Original document text.")
}

func TestClaude_Summarize_CustomModel(t *testing.T) {
	var model string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model string `json:"model"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		model = body.Model
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(claudeMessageResponse))
	}))
	defer server.Close()

	c := NewClaude(config.ProviderConfig{
		Name:    config.ProviderClaude,
		APIKey:  "test-key",
		Model:   "claude-haiku-4-5",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	_, err := c.Summarize(context.Background(), "text", 100, 30)

	require.NoError(t, err)
	assert.Equal(t, "claude-haiku-4-5", model)
}

func TestClaude_Summarize_ErrorHandling(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		wantAttempts int32
	}{
		{name: "401 unauthorized is not retried", statusCode: http.StatusUnauthorized, wantAttempts: 1},
		{name: "400 bad request is not retried", statusCode: http.StatusBadRequest, wantAttempts: 1},
		{name: "429 rate limit is retried", statusCode: http.StatusTooManyRequests, wantAttempts: 3},
		{name: "500 server error is retried", statusCode: http.StatusInternalServerError, wantAttempts: 3},
		{name: "529 overloaded is retried", statusCode: 529, wantAttempts: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				attempts.Add(1)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"failure"}}`))
			}))
			defer server.Close()

			c := newTestClaude(t, server)

			got, err := c.Summarize(context.Background(), "text", 100, 30)

			require.Error(t, err)
			assert.Empty(t, got)
			assert.Equal(t, tt.wantAttempts, attempts.Load())

			var httpErr *retry.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.statusCode, httpErr.StatusCode)
		})
	}
}

func TestClaude_Summarize_RecoversAfterTransientFailure(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
			return
		}
		_, _ = w.Write([]byte(claudeMessageResponse))
	}))
	defer server.Close()

	c := newTestClaude(t, server)

	got, err := c.Summarize(context.Background(), "text", 100, 30)

	require.NoError(t, err)
	assert.Equal(t, "A concise summary of the text.", got)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestClaude_Summarize_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_02","type":"message","role":"assistant","model":"m",
			"content":[],"stop_reason":"end_turn","usage":{"input_tokens":1,"output_tokens":0}}`))
	}))
	defer server.Close()

	c := newTestClaude(t, server)

	_, err := c.Summarize(context.Background(), "text", 100, 30)

	assert.ErrorIs(t, err, ErrEmptyResponse)
}
