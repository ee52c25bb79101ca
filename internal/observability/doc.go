// Package observability initializes OpenTelemetry tracing and metrics for
// the identity service and owns the HTTP request instruments the transport
// middleware records into. Export goes over OTLP/HTTP; the whole package is
// a no-op when disabled in config, which is the development default.
package observability
