package summarizer

import (
	"fmt"
	"log/slog"

	"doc-summarizer/internal/config"
	"doc-summarizer/internal/resilience/circuitbreaker"
)

// Client is a configured summarizer together with the state needed to report readiness.
type Client struct {
	Summarizer
	provider string
	breaker  *circuitbreaker.CircuitBreaker
}

// Status describes a summarizer for readiness checks.
type Status struct {
	// Loaded is false until the first request initializes the client.
	Loaded bool `json:"loaded"`
	// Provider is the configured backend name.
	Provider string `json:"provider,omitempty"`
	// Circuit is the circuit breaker state, empty for backends without one.
	Circuit string `json:"circuit,omitempty"`
	// Available is false while the circuit is open.
	Available bool `json:"available"`
}

// Provider returns the configured backend name.
func (c *Client) Provider() string {
	return c.provider
}

// Status reports the current readiness of the client.
func (c *Client) Status() Status {
	s := Status{Loaded: true, Provider: c.provider, Available: true}
	if c.breaker != nil {
		s.Circuit = c.breaker.State().String()
		s.Available = !c.breaker.IsOpen()
	}
	return s
}

type breakerOwner interface {
	Breaker() *circuitbreaker.CircuitBreaker
}

// New builds the summarizer selected by cfg.Name and applies the configured
// rate limit and serialization.
//
// Returns an error if the provider is unknown or its configuration is invalid.
func New(cfg config.ProviderConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider configuration: %w", err)
	}

	var base Summarizer
	switch cfg.Name {
	case config.ProviderNoop:
		base = NewNoOp()
	case config.ProviderOpenAI:
		base = NewOpenAI(cfg)
	case config.ProviderClaude:
		base = NewClaude(cfg)
	case config.ProviderHuggingFace:
		base = NewHuggingFace(cfg)
	default:
		return nil, fmt.Errorf("unsupported summarizer provider %q", cfg.Name)
	}

	client := &Client{provider: cfg.Name}
	if owner, ok := base.(breakerOwner); ok {
		client.breaker = owner.Breaker()
	}

	s := base
	if cfg.RateLimit > 0 && cfg.Name != config.ProviderNoop {
		s = NewRateLimited(s, cfg.RateLimit, cfg.RateBurst)
	}
	if cfg.Serialize {
		s = NewSerialized(s)
	}
	client.Summarizer = s

	slog.Info("summarizer ready",
		slog.String("provider", cfg.Name),
		slog.Float64("rate_limit", cfg.RateLimit),
		slog.Bool("serialized", cfg.Serialize))

	return client, nil
}
