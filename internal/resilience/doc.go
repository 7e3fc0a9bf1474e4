// Package resilience groups the fault tolerance used around summarization
// provider calls: circuit breakers (package circuitbreaker) and retries with
// exponential backoff (package retry).
//
// Provider adapters nest them so that every retry attempt passes through the breaker:
//
//	err := retry.WithBackoff(ctx, retry.SummarizerConfig(), func() error {
//	    out, err := circuitbreaker.Run(breaker, call)
//	    ...
//	})
package resilience
