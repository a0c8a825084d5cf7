package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/samber/do/v2"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/catalog"
	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/clients/backend"
	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/representations"
	"github.com/jsamuelsen11/testdata-provisioner/internal/app"
	"github.com/jsamuelsen11/testdata-provisioner/internal/app/registry"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/config"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/health"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/httpclient"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/logging"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/retry"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/telemetry"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

const otelShutdownTimeout = 5 * time.Second

var errProfileRequired = errors.New("a profile is required: pass --profile or set APP_PROFILE (e.g. local, ci)")

// runtime is everything a command needs once configuration is loaded.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	otel     *otelProviders
	injector *do.RootScope
}

// bootstrap loads configuration, builds the logger and telemetry, and
// registers the dependency graph. Callers must call close.
func bootstrap(ctx context.Context, opts *globalOptions, logOut io.Writer) (*runtime, error) {
	if opts.profile == "" {
		return nil, errProfileRequired
	}

	cfg, err := config.Load(opts.profile,
		config.WithConfigDir(opts.configDir),
		config.WithOverrides(opts.overrides),
	)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, logOut)

	providers, err := initTelemetry(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	injector := do.New()
	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, providers.metrics)

	registerDependencies(injector, cfg, logger)

	return &runtime{cfg: cfg, logger: logger, otel: providers, injector: injector}, nil
}

// close flushes telemetry.
func (rt *runtime) close() {
	ctx, cancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer cancel()

	if err := rt.otel.Shutdown(ctx); err != nil {
		rt.logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*httpclient.Client, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return httpclient.New(&cfg.Client, backend.ServiceName, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*backend.Client, error) {
		client := do.MustInvoke[*httpclient.Client](i)
		return backend.New(client, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.Persister, error) {
		return do.MustInvoke[*backend.Client](i), nil
	})

	do.Provide(injector, func(i do.Injector) (*health.Registry, error) {
		registry := health.New()
		registry.Register(do.MustInvoke[*backend.Client](i))
		return registry, nil
	})

	do.Provide(injector, func(i do.Injector) (*catalog.Catalog, error) {
		persister := do.MustInvoke[ports.Persister](i)

		c := catalog.New()
		for _, rep := range representations.New(persister).All() {
			if err := c.Register(rep); err != nil {
				return nil, fmt.Errorf("registering %s: %w", rep.Kind(), err)
			}
		}
		return c, nil
	})

	do.Provide(injector, func(_ do.Injector) (*registry.Registry, error) {
		return registry.New(), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.Resolver, error) {
		c := do.MustInvoke[*catalog.Catalog](i)
		reg := do.MustInvoke[*registry.Registry](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return app.NewResolver(c, reg, logger,
			app.WithMetrics(metrics),
			app.WithRetryPolicy(retry.Policy{
				MaxAttempts: cfg.Setup.Retry.MaxAttempts,
				BaseDelay:   cfg.Setup.Retry.BaseDelay,
				Jitter:      cfg.Setup.Retry.Jitter,
				Operation:   "Resolver.create",
			}),
			app.WithPersistenceRetryDelay(cfg.Setup.PersistenceRetryDelay),
		), nil
	})
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Exporter, cfg.Telemetry.Endpoint)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{tracer: tp, meter: mp, metrics: metrics}, nil
}
