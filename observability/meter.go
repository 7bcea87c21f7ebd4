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

	"github.com/kbukum/regexprobe/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Debug("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// RunStats summarizes one evaluation for metric recording.
type RunStats struct {
	Engine       string
	ValidPattern bool
	Inputs       int
	Matched      int
	Duration     time.Duration
}

// Metrics holds the probe's metric instruments.
type Metrics struct {
	queries         metric.Int64Counter
	compileFailures metric.Int64Counter
	inputs          metric.Int64Counter
	matches         metric.Int64Counter
	duration        metric.Float64Histogram
	errors          metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	queries, err := meter.Int64Counter("probe.queries",
		metric.WithDescription("Queries evaluated"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating probe.queries counter: %w", err)
	}

	compileFailures, err := meter.Int64Counter("probe.compile_failures",
		metric.WithDescription("Patterns the engine refused to compile"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating probe.compile_failures counter: %w", err)
	}

	inputs, err := meter.Int64Counter("probe.inputs",
		metric.WithDescription("Inputs matched against compiled patterns"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating probe.inputs counter: %w", err)
	}

	matches, err := meter.Int64Counter("probe.matches",
		metric.WithDescription("Inputs with at least one match"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating probe.matches counter: %w", err)
	}

	duration, err := meter.Float64Histogram("probe.duration",
		metric.WithDescription("Duration of a full evaluation in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating probe.duration histogram: %w", err)
	}

	errorsTotal, err := meter.Int64Counter("probe.errors",
		metric.WithDescription("Runs that failed, by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating probe.errors counter: %w", err)
	}

	return &Metrics{
		queries:         queries,
		compileFailures: compileFailures,
		inputs:          inputs,
		matches:         matches,
		duration:        duration,
		errors:          errorsTotal,
	}, nil
}

// RecordRun records one completed evaluation.
func (m *Metrics) RecordRun(ctx context.Context, s RunStats) {
	engineAttr := attribute.String("engine", s.Engine)
	m.queries.Add(ctx, 1, metric.WithAttributes(engineAttr, attribute.Bool("valid_pattern", s.ValidPattern)))
	if !s.ValidPattern {
		m.compileFailures.Add(ctx, 1, metric.WithAttributes(engineAttr))
	}
	m.inputs.Add(ctx, int64(s.Inputs), metric.WithAttributes(engineAttr))
	m.matches.Add(ctx, int64(s.Matched), metric.WithAttributes(engineAttr))
	m.duration.Record(ctx, s.Duration.Seconds(), metric.WithAttributes(engineAttr))
}

// RecordError records a failed evaluation by error code.
func (m *Metrics) RecordError(ctx context.Context, engine, code string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("engine", engine),
		attribute.String("code", code),
	))
}
