package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func collect(t *testing.T, r *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := r.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected int64 sum, got %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestStreamMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	m, err := NewStreamMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewStreamMetrics: %v", err)
	}

	ctx := context.Background()
	m.RecordChunk(ctx, "choices")
	m.RecordChunk(ctx, "choices")
	m.RecordChunk(ctx, "flat")
	m.RecordCompletion(ctx, "stop")
	m.RecordError(ctx, "NETWORK_ERROR")
	m.RecordEnd(ctx, "completed", 250*time.Millisecond)

	got := collect(t, reader)
	if n := sumOf(t, got[MetricStreamChunks]); n != 3 {
		t.Errorf("chunks = %d, want 3", n)
	}
	if n := sumOf(t, got[MetricStreamCompletions]); n != 1 {
		t.Errorf("completions = %d, want 1", n)
	}
	if n := sumOf(t, got[MetricStreamErrors]); n != 1 {
		t.Errorf("errors = %d, want 1", n)
	}
	hist, ok := got[MetricStreamDuration].Data.(metricdata.Histogram[float64])
	if !ok || len(hist.DataPoints) != 1 || hist.DataPoints[0].Sum != 250 {
		t.Errorf("unexpected duration histogram %#v", got[MetricStreamDuration].Data)
	}
}

func TestStreamMetrics_NilSafe(t *testing.T) {
	var m *StreamMetrics
	ctx := context.Background()
	m.RecordChunk(ctx, "choices")
	m.RecordCompletion(ctx, "stop")
	m.RecordError(ctx, "x")
	m.RecordEnd(ctx, "closed", time.Second)
}

func TestDefaultStreamMetrics(t *testing.T) {
	if DefaultStreamMetrics() == nil {
		t.Error("expected instruments from the global meter")
	}
}

func TestEndSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, ok := tp.Tracer("test").Start(context.Background(), "ok")
	EndSpan(ok, nil)
	_, failed := tp.Tracer("test").Start(context.Background(), "failed")
	EndSpan(failed, errors.New("boom"))

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if len(spans[0].Events()) != 0 {
		t.Errorf("expected no events on successful span")
	}
	if spans[1].Status().Description != "boom" || len(spans[1].Events()) != 1 {
		t.Errorf("expected recorded error, got status %+v events %d", spans[1].Status(), len(spans[1].Events()))
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.ServiceName != "chatroutes-go" || cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1 || cfg.Interval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	bad := Config{SampleRate: 1.5}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for sample rate above 1")
	}
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%g) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}
