package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies spans created by this application.
const TracerName = "doc-summarizer"

// GetTracer returns the application tracer from the global provider.
// It is resolved on every call so that a provider installed by Setup after
// package initialization is picked up.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "operation-name")
//	defer span.End()
func GetTracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// Setup installs an SDK tracer provider and the W3C trace context propagator
// as the global defaults. Spans are batched through the given exporters; with
// no exporter spans are still created and sampled, which keeps trace IDs in
// responses and logs.
//
// The returned function flushes and stops the provider.
func Setup(exporters ...sdktrace.SpanExporter) func(context.Context) error {
	opts := make([]sdktrace.TracerProviderOption, 0, len(exporters))
	for _, exp := range exporters {
		opts = append(opts, sdktrace.WithBatcher(exp))
	}
	tp := sdktrace.NewTracerProvider(opts...)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown
}
