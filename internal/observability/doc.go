// Package observability holds the logging, metrics and tracing subpackages.
//
//   - logging: slog construction and the request-scoped logger in context
//   - metrics: Prometheus collectors for HTTP traffic and summarization runs
//   - tracing: OpenTelemetry tracer setup and HTTP span middleware
package observability
