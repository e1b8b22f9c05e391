package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/chatroutes/chatroutes-go/logger"
	"github.com/chatroutes/chatroutes-go/version"
)

// Metric names.
const (
	MetricStreamChunks      = "chatroutes.stream.chunks"
	MetricStreamCompletions = "chatroutes.stream.completions"
	MetricStreamErrors      = "chatroutes.stream.errors"
	MetricStreamDuration    = "chatroutes.stream.duration"
)

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider should be shut down on application exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.Interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns the SDK meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(InstrumentationName, metric.WithInstrumentationVersion(version.Version))
}

// StreamMetrics holds the instruments recorded by the streaming aggregator.
// A nil *StreamMetrics records nothing.
type StreamMetrics struct {
	chunks      metric.Int64Counter
	completions metric.Int64Counter
	errors      metric.Int64Counter
	duration    metric.Float64Histogram
}

// NewStreamMetrics creates the stream instruments on meter.
func NewStreamMetrics(meter metric.Meter) (*StreamMetrics, error) {
	chunks, err := meter.Int64Counter(MetricStreamChunks,
		metric.WithDescription("Stream chunks received"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStreamChunks, err)
	}

	completions, err := meter.Int64Counter(MetricStreamCompletions,
		metric.WithDescription("Streams that produced a completed response"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStreamCompletions, err)
	}

	errs, err := meter.Int64Counter(MetricStreamErrors,
		metric.WithDescription("Streams that failed, by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricStreamErrors, err)
	}

	duration, err := meter.Float64Histogram(MetricStreamDuration,
		metric.WithDescription("Wall time from stream open to end"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricStreamDuration, err)
	}

	return &StreamMetrics{
		chunks:      chunks,
		completions: completions,
		errors:      errs,
		duration:    duration,
	}, nil
}

// DefaultStreamMetrics creates stream instruments on the global meter,
// returning nil if the meter rejects them.
func DefaultStreamMetrics() *StreamMetrics {
	m, err := NewStreamMetrics(Meter())
	if err != nil {
		logger.WithComponent("observability").Warn("stream metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		return nil
	}
	return m
}

// RecordChunk counts one received chunk.
func (m *StreamMetrics) RecordChunk(ctx context.Context, shape string) {
	if m == nil {
		return
	}
	m.chunks.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrShape, shape)))
}

// RecordCompletion counts one completed response.
func (m *StreamMetrics) RecordCompletion(ctx context.Context, finishReason string) {
	if m == nil {
		return
	}
	m.completions.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrFinishReason, finishReason)))
}

// RecordError counts one failed stream by error code.
func (m *StreamMetrics) RecordError(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrErrorCode, code)))
}

// RecordEnd records the stream duration by outcome.
func (m *StreamMetrics) RecordEnd(ctx context.Context, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	ms := float64(d) / float64(time.Millisecond)
	m.duration.Record(ctx, ms, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}
