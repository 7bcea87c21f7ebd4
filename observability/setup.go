package observability

import (
	"context"
	stderrors "errors"
)

// ShutdownFunc flushes and stops telemetry providers.
type ShutdownFunc func(context.Context) error

// Setup installs tracer and meter providers when cfg.Enabled is set. With
// export disabled it returns a no-op shutdown and leaves the globals alone.
func Setup(ctx context.Context, cfg Config, serviceName, serviceVersion, environment string) (ShutdownFunc, error) {
	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}
	cfg.ApplyDefaults()

	tp, err := InitTracer(ctx, TracerConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		SampleRate:     cfg.SampleRate,
	})
	if err != nil {
		return nil, err
	}

	mp, err := InitMeter(ctx, MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		Environment:    environment,
		Endpoint:       cfg.Endpoint,
		Insecure:       cfg.Insecure,
		Interval:       cfg.Interval,
	})
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
