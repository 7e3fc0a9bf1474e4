package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Factory builds a summarizer client.
type Factory func() (*Client, error)

// Lazy creates its client on first use and reuses it for the life of the process.
// A failed initialization is not cached, so the next call tries again.
type Lazy struct {
	mu      sync.Mutex
	factory Factory
	client  *Client
}

// NewLazy returns a Lazy that builds its client with factory.
func NewLazy(factory Factory) *Lazy {
	return &Lazy{factory: factory}
}

// Get returns the client, creating it if needed.
func (l *Lazy) Get() (*Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil {
		return l.client, nil
	}

	client, err := l.factory()
	if err != nil {
		slog.Error("summarizer initialization failed", slog.Any("error", err))
		return nil, err
	}
	l.client = client
	return client, nil
}

// Summarize implements Summarizer, loading the client on first use.
func (l *Lazy) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	client, err := l.Get()
	if err != nil {
		return "", fmt.Errorf("summarizer unavailable: %w", err)
	}
	return client.Summarize(ctx, text, maxLength, minLength)
}

// Status reports the client's readiness without triggering initialization.
func (l *Lazy) Status() Status {
	l.mu.Lock()
	client := l.client
	l.mu.Unlock()

	if client == nil {
		return Status{Loaded: false, Available: true}
	}
	return client.Status()
}
