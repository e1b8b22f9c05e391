package observability

import (
	"context"
	stderrors "errors"
)

// ShutdownFunc flushes and stops installed providers.
type ShutdownFunc func(context.Context) error

// Setup installs OTLP trace and metric providers when cfg.Enabled is set.
// The returned function is always safe to call.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	noop := func(context.Context) error { return nil }
	if !cfg.Enabled {
		return noop, nil
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return noop, err
	}

	tp, err := InitTracer(ctx, cfg)
	if err != nil {
		return noop, err
	}
	mp, err := InitMeter(ctx, cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return noop, err
	}

	return func(ctx context.Context) error {
		return stderrors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}
