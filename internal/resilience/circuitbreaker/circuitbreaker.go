// Package circuitbreaker stops calling a failing backend for a while so that
// callers fail fast instead of piling up behind timeouts.
// It is a thin layer over github.com/sony/gobreaker that adds a ratio-based
// trip rule, a sentinel error for rejected calls and a Prometheus state gauge.
package circuitbreaker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

// ErrOpen matches every call the circuit refused to run,
// whether it was open or half-open with its trial quota used up.
var ErrOpen = errors.New("circuit breaker open")

var (
	stateGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "circuit_breaker_state",
		Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
	}, []string{"circuit"})

	rejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circuit_breaker_rejected_total",
		Help: "Calls refused by an open or half-open circuit",
	}, []string{"circuit"})
)

// Config tunes one circuit.
type Config struct {
	Name string
	// MaxRequests is how many trial calls a half-open circuit lets through.
	MaxRequests uint32
	// Interval resets the closed-state counts; zero never resets them.
	Interval time.Duration
	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration
	// FailureThreshold is the failure ratio (0.0 to 1.0) that opens the circuit.
	FailureThreshold float64
	// MinRequests is the sample size required before the ratio is considered.
	MinRequests uint32
	// Excluded reports errors that are not the backend's fault.
	// They count as successes; nil excludes nothing.
	Excluded func(err error) bool
}

// DefaultConfig returns a circuit that opens at 60% failures over at least five calls
// and half-opens again after a minute.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          time.Minute,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

func (c Config) shouldTrip(counts gobreaker.Counts) bool {
	if counts.Requests < c.MinRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= c.FailureThreshold
}

func (c Config) isSuccessful(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	return c.Excluded != nil && c.Excluded(err)
}

// CircuitBreaker guards calls to one backend.
type CircuitBreaker struct {
	cb       *gobreaker.CircuitBreaker
	name     string
	rejected prometheus.Counter
}

// New creates a closed circuit.
// Cancelled calls and errors matched by cfg.Excluded count as successes.
func New(cfg Config) *CircuitBreaker {
	gauge := stateGauge.WithLabelValues(cfg.Name)
	gauge.Set(stateValue(gobreaker.StateClosed))

	return &CircuitBreaker{
		name:     cfg.Name,
		rejected: rejectedTotal.WithLabelValues(cfg.Name),
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        cfg.Name,
			MaxRequests: cfg.MaxRequests,
			Interval:    cfg.Interval,
			Timeout:     cfg.Timeout,
			ReadyToTrip: cfg.shouldTrip,
			OnStateChange: func(name string, from, to gobreaker.State) {
				gauge.Set(stateValue(to))
				slog.Warn("circuit breaker state changed",
					slog.String("circuit", name),
					slog.String("from", from.String()),
					slog.String("to", to.String()))
			},
			IsSuccessful: cfg.isSuccessful,
		}),
	}
}

// Execute runs fn unless the circuit refuses it, in which case the error matches ErrOpen.
func (b *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	out, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.rejected.Inc()
		return nil, &openError{name: b.name, cause: err}
	}
	return out, err
}

// Run is Execute for functions with a typed result.
func Run[T any](b *CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := b.Execute(func() (interface{}, error) {
		v, err := fn()
		return v, err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, _ := out.(T)
	return v, nil
}

func (b *CircuitBreaker) State() gobreaker.State { return b.cb.State() }

// Counts returns the counts of the current interval.
func (b *CircuitBreaker) Counts() gobreaker.Counts { return b.cb.Counts() }

func (b *CircuitBreaker) Name() string { return b.name }

func (b *CircuitBreaker) IsOpen() bool { return b.cb.State() == gobreaker.StateOpen }

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

type openError struct {
	name  string
	cause error
}

func (e *openError) Error() string {
	return e.name + " unavailable: " + e.cause.Error()
}

func (e *openError) Unwrap() []error {
	return []error{ErrOpen, e.cause}
}
