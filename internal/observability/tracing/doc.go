// Package tracing provides OpenTelemetry tracing integration.
//
// Spans are created through GetTracer, which resolves the global tracer
// provider. Setup installs an SDK provider and the W3C propagator; without it
// the OpenTelemetry no-op provider is used and spans cost nothing.
//
// Example usage:
//
//	import "doc-summarizer/internal/observability/tracing"
//
//	func main() {
//	    shutdown := tracing.Setup()
//	    defer shutdown(context.Background())
//	}
//
//	func reduce(ctx context.Context) {
//	    ctx, span := tracing.GetTracer().Start(ctx, "summarize.Reduce")
//	    defer span.End()
//	    // ... summarize ...
//	}
package tracing
