// Package observability wires OpenTelemetry tracing and metrics for probe runs.
//
// Export is off by default. When enabled, spans and metrics go to an OTLP/HTTP
// collector:
//
//	shutdown, err := observability.Setup(ctx, cfg, "regexprobe", version.Version)
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
//	metrics.RecordRun(ctx, observability.RunStats{Engine: "go", ValidPattern: true, Inputs: 3, Matched: 2})
//
// With export disabled the global no-op providers stay in place and
// instruments cost almost nothing.
package observability
