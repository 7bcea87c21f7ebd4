package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Enabled {
		t.Error("expected export to stay disabled by default")
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{SampleRate: 1, Interval: time.Second}, false},
		{"zero rate", Config{SampleRate: 0}, false},
		{"rate above one", Config{SampleRate: 1.5}, true},
		{"negative rate", Config{SampleRate: -0.1}, true},
		{"negative interval", Config{SampleRate: 1, Interval: -time.Second}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{}, "test-service", "dev", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("no-op shutdown returned %v", err)
	}
}

func TestSetupEnabled(t *testing.T) {
	ctx := context.Background()
	shutdown, err := Setup(ctx, Config{Enabled: true, Insecure: true}, "test-service", "dev", "test")
	if err != nil {
		t.Skipf("skipping: exporter setup failed: %v", err)
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_ = shutdown(shutdownCtx)
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		if got := samplerFor(tt.rate).Description(); got != tt.want {
			t.Errorf("samplerFor(%v) = %q, want %q", tt.rate, got, tt.want)
		}
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("test-service", "1.2.3", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "test-service" {
		t.Errorf("service.name = %q", found["service.name"])
	}
	if found["service.version"] != "1.2.3" {
		t.Errorf("service.version = %q", found["service.version"])
	}
}

func TestStartSpanAndSetSpanError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), SpanEvaluate)
	SetSpanError(ctx, errors.New("boom"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != SpanEvaluate {
		t.Errorf("span name = %q, want %q", spans[0].Name, SpanEvaluate)
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected 1 error event, got %d", len(spans[0].Events))
	}
	if spans[0].Status.Code != codes.Error || spans[0].Status.Description != "boom" {
		t.Errorf("unexpected span status %+v", spans[0].Status)
	}
}

func TestSetSpanErrorWithoutSpan(t *testing.T) {
	// Must not panic on a context without a recording span.
	SetSpanError(context.Background(), errors.New("boom"))
}

func TestNewMetricsNoop(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordRun(ctx, RunStats{Engine: "go", ValidPattern: true, Inputs: 3, Matched: 1, Duration: time.Millisecond})
	metrics.RecordError(ctx, "regexp2", "TIMEOUT")
}

func TestRecordRun(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}

	ctx := context.Background()
	metrics.RecordRun(ctx, RunStats{Engine: "go", ValidPattern: true, Inputs: 3, Matched: 2, Duration: time.Millisecond})
	metrics.RecordRun(ctx, RunStats{Engine: "go", ValidPattern: false, Inputs: 4})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}

	want := map[string]int64{
		"probe.queries":          2,
		"probe.compile_failures": 1,
		"probe.inputs":           7,
		"probe.matches":          2,
	}
	for name, v := range want {
		if sums[name] != v {
			t.Errorf("%s = %d, want %d", name, sums[name], v)
		}
	}
}
