// Package observability wires OpenTelemetry tracing and metrics into the SDK.
//
// Instrumentation always goes through the global otel providers, so spans
// and metrics are no-ops until an application installs real ones. The CLI
// and applications that want OTLP export call Setup:
//
//	shutdown, err := observability.Setup(ctx, observability.Config{
//	    Enabled:  true,
//	    Endpoint: "localhost:4318",
//	})
//	defer shutdown(ctx)
//
// The streaming aggregator records one span per stream and the metrics in
// StreamMetrics.
package observability
