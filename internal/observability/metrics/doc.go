// Package metrics provides Prometheus metrics registry and recording utilities.
//
// This package centralizes the document summarization metrics:
//   - Reduction metrics (requests, duration, document size, chunk count, compression)
//   - Summarizer call metrics (count and latency per reduction stage)
//
// HTTP request metrics live with the HTTP handlers. All metrics are registered
// with the Prometheus default registry and exposed via the /metrics endpoint.
//
// Example usage:
//
//	import "doc-summarizer/internal/observability/metrics"
//
//	func reduce(words int) {
//	    start := time.Now()
//	    metrics.RecordReductionStarted()
//	    defer metrics.RecordReductionFinished()
//	    // ... summarize ...
//	    metrics.RecordReductionSuccess(metrics.ModeDirect, time.Since(start), words, 0, nil)
//	}
package metrics
