package summarizer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doc-summarizer/internal/config"
)

// concurrencyTracker records the highest number of simultaneous calls.
type concurrencyTracker struct {
	active  atomic.Int32
	peak    atomic.Int32
	calls   atomic.Int32
	holdFor time.Duration
}

func (p *concurrencyTracker) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	p.calls.Add(1)
	n := p.active.Add(1)
	defer p.active.Add(-1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(p.holdFor)
	return "summary of " + text, nil
}

/* ───────── Serialized ───────── */

func TestSerialized_OneCallAtATime(t *testing.T) {
	tracker := &concurrencyTracker{holdFor: 5 * time.Millisecond}
	s := NewSerialized(tracker)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.Summarize(context.Background(), "x", 10, 1)
			assert.NoError(t, err)
			assert.Equal(t, "summary of x", got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(8), tracker.calls.Load())
	assert.Equal(t, int32(1), tracker.peak.Load())
}

/* ───────── RateLimited ───────── */

func TestRateLimited_AllowsBurstThenThrottles(t *testing.T) {
	tracker := &concurrencyTracker{}
	// 20 per second with a burst of 2: the third call waits about 50ms.
	r := NewRateLimited(tracker, 20, 2)

	start := time.Now()
	for range 3 {
		_, err := r.Summarize(context.Background(), "x", 10, 1)
		require.NoError(t, err)
	}

	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, int32(3), tracker.calls.Load())
}

func TestRateLimited_ContextCancelledWhileWaiting(t *testing.T) {
	tracker := &concurrencyTracker{}
	r := NewRateLimited(tracker, 0.1, 1)

	_, err := r.Summarize(context.Background(), "x", 10, 1)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = r.Summarize(ctx, "x", 10, 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
	assert.Equal(t, int32(1), tracker.calls.Load())
}

/* ───────── Lazy ───────── */

func TestLazy_InitializesOnceOnFirstUse(t *testing.T) {
	var builds atomic.Int32
	lazy := NewLazy(func() (*Client, error) {
		builds.Add(1)
		return New(config.ProviderConfig{Name: config.ProviderNoop, Timeout: time.Second})
	})

	assert.Equal(t, Status{Loaded: false, Available: true}, lazy.Status())
	assert.Equal(t, int32(0), builds.Load())

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := lazy.Summarize(context.Background(), "a b c d", 2, 1)
			assert.NoError(t, err)
			assert.Equal(t, "a b", got)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), builds.Load())
	assert.Equal(t, Status{Loaded: true, Provider: config.ProviderNoop, Available: true}, lazy.Status())
}

func TestLazy_FailedInitializationIsRetried(t *testing.T) {
	var builds atomic.Int32
	lazy := NewLazy(func() (*Client, error) {
		if builds.Add(1) == 1 {
			return nil, errors.New("model download failed")
		}
		return New(config.ProviderConfig{Name: config.ProviderNoop, Timeout: time.Second})
	})

	_, err := lazy.Summarize(context.Background(), "a b", 5, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "summarizer unavailable")
	assert.False(t, lazy.Status().Loaded)

	got, err := lazy.Summarize(context.Background(), "a b", 5, 1)
	require.NoError(t, err)
	assert.Equal(t, "a b", got)
	assert.Equal(t, int32(2), builds.Load())
}

/* ───────── New ───────── */

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.ProviderConfig
		wantCircuit string
	}{
		{
			name:        "noop has no circuit",
			cfg:         config.ProviderConfig{Name: config.ProviderNoop, Timeout: time.Second, RateLimit: 2, RateBurst: 4},
			wantCircuit: "",
		},
		{
			name:        "openai",
			cfg:         config.ProviderConfig{Name: config.ProviderOpenAI, APIKey: "k", Timeout: time.Second, RateLimit: 2, RateBurst: 4},
			wantCircuit: "closed",
		},
		{
			name:        "claude serialized",
			cfg:         config.ProviderConfig{Name: config.ProviderClaude, APIKey: "k", Timeout: time.Second, Serialize: true},
			wantCircuit: "closed",
		},
		{
			name:        "huggingface without key",
			cfg:         config.ProviderConfig{Name: config.ProviderHuggingFace, Timeout: time.Second},
			wantCircuit: "closed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)

			require.NoError(t, err)
			assert.Equal(t, tt.cfg.Name, client.Provider())
			status := client.Status()
			assert.True(t, status.Loaded)
			assert.True(t, status.Available)
			assert.Equal(t, tt.wantCircuit, status.Circuit)
		})
	}
}

func TestNew_Decorators(t *testing.T) {
	client, err := New(config.ProviderConfig{
		Name: config.ProviderOpenAI, APIKey: "k", Timeout: time.Second,
		RateLimit: 1, RateBurst: 1, Serialize: true,
	})
	require.NoError(t, err)

	serialized, ok := client.Summarizer.(*Serialized)
	require.True(t, ok, "serialization is the outermost decorator")
	_, ok = serialized.inner.(*RateLimited)
	assert.True(t, ok)

	noop, err := New(config.ProviderConfig{Name: config.ProviderNoop, Timeout: time.Second, RateLimit: 1, RateBurst: 1})
	require.NoError(t, err)
	_, ok = noop.Summarizer.(*NoOp)
	assert.True(t, ok, "the offline summarizer is never throttled")
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.ProviderConfig
	}{
		{name: "unknown provider", cfg: config.ProviderConfig{Name: "bart-local", Timeout: time.Second}},
		{name: "missing key", cfg: config.ProviderConfig{Name: config.ProviderClaude, Timeout: time.Second}},
		{name: "zero timeout", cfg: config.ProviderConfig{Name: config.ProviderNoop}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)

			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), "invalid provider configuration")
		})
	}
}
