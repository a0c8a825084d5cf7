package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/logging"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/retry"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/telemetry"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

// DefaultPersistenceRetryDelay is the wait before the single extra Create
// attempt that follows a transient persistence failure.
const DefaultPersistenceRetryDelay = 5 * time.Second

const tracerName = "github.com/jsamuelsen11/testdata-provisioner/internal/app"

// Resolver executes setup passes against a store. It is the only writer to
// the store during a pass and is not safe for concurrent use.
type Resolver struct {
	catalog    ports.Catalog
	store      ports.Store
	logger     *slog.Logger
	metrics    *telemetry.Metrics
	policy     retry.Policy
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetrics records creation counts, retries, and durations. Nil disables
// metric recording.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithRetryPolicy replaces the generic retry policy around object creation,
// which defaults to retry.DefaultPolicy. Zero delays in p mean no wait.
// Retryable is always forced to match domain.ErrPersistence.
func WithRetryPolicy(p retry.Policy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// WithPersistenceRetryDelay sets the wait before the extra Create attempt.
func WithPersistenceRetryDelay(d time.Duration) Option {
	return func(r *Resolver) {
		r.retryDelay = d
	}
}

// WithSleep replaces every wait the resolver performs, including the retry
// policy backoff. Tests use it to run without real delays.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(r *Resolver) {
		r.sleep = fn
	}
}

// NewResolver creates a Resolver reading kinds from catalog and writing
// objects to store. Passes log through the logger carried by their context
// and fall back to logger, where nil discards output.
func NewResolver(catalog ports.Catalog, store ports.Store, logger *slog.Logger, opts ...Option) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := &Resolver{
		catalog:    catalog,
		store:      store,
		logger:     logger,
		policy:     retry.DefaultPolicy(),
		retryDelay: DefaultPersistenceRetryDelay,
		sleep:      retry.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.policy.Retryable = isTransient
	r.policy.Sleep = r.sleep
	if r.policy.Operation == "" {
		r.policy.Operation = "Resolver.create"
	}
	return r
}

// Process runs one setup pass. Specs, their entries, and each entry's
// parameter sets are handled strictly in order, so later entries can refer
// to objects created earlier in the same pass. The first fatal error aborts
// the pass; objects registered before it stay in the store.
func (r *Resolver) Process(ctx context.Context, scope domain.Scope, specs []domain.Spec) error {
	ctx = logging.WithLogger(ctx, logging.FromContextOr(ctx, r.logger))

	for _, spec := range specs {
		for _, entry := range spec {
			rep, err := r.catalog.Lookup(entry.Kind)
			if err != nil {
				logging.FromContext(ctx).ErrorContext(ctx, "unknown representation",
					slog.String("operation", "Resolver.Process"),
					slog.String("kind", entry.Kind),
					slog.Any("error", err),
				)
				return err
			}

			for _, params := range entry.Params {
				if _, err := r.provision(ctx, scope, rep, params); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Build provisions a single object of kind under scope and returns it.
func (r *Resolver) Build(ctx context.Context, scope domain.Scope, kind string, params domain.ParamSet) (domain.Object, error) {
	ctx = logging.WithLogger(ctx, logging.FromContextOr(ctx, r.logger))

	rep, err := r.catalog.Lookup(kind)
	if err != nil {
		return nil, err
	}
	return r.provision(ctx, scope, rep, params)
}

// provision creates one object from a private copy of params and registers
// it together with its default representations.
func (r *Resolver) provision(ctx context.Context, scope domain.Scope, rep ports.Representation, params domain.ParamSet) (domain.Object, error) {
	kind := rep.Kind()
	tracer := otel.GetTracerProvider().Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "provision.create",
		trace.WithAttributes(
			attribute.String("provision.kind", kind),
			attribute.String("provision.scope", scope.String()),
		),
	)
	defer span.End()

	logging.FromContext(ctx).DebugContext(ctx, "creating object",
		slog.String("kind", kind),
		logging.Params("params", params),
	)

	start := time.Now()
	obj, err := r.create(ctx, rep, params.Clone())
	r.recordDuration(ctx, kind, scope, start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.FromContext(ctx).ErrorContext(ctx, "failed to create object",
			slog.String("operation", "Resolver.create"),
			slog.String("kind", kind),
			slog.Any("error", err),
		)
		return nil, err
	}
	span.SetAttributes(attribute.String("provision.identifier", obj.Identifier()))

	if err := r.register(ctx, scope, obj); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.FromContext(ctx).ErrorContext(ctx, "failed to register object",
			slog.String("operation", "Resolver.register"),
			slog.String("kind", kind),
			slog.String("identifier", obj.Identifier()),
			slog.Any("error", err),
		)
		return nil, err
	}
	return obj, nil
}

// create resolves parameters and calls the representation under the generic
// retry policy. Reference errors are permanent and surface immediately.
func (r *Resolver) create(ctx context.Context, rep ports.Representation, params domain.ParamSet) (domain.Object, error) {
	return retry.Value(ctx, r.policy, func(ctx context.Context) (domain.Object, error) {
		if err := r.resolveParams(rep.Signature(), params); err != nil {
			return nil, err
		}
		return r.createOnce(ctx, rep, params)
	})
}

// createOnce calls Create and, on a transient persistence failure, waits
// retryDelay and calls it exactly once more.
func (r *Resolver) createOnce(ctx context.Context, rep ports.Representation, params domain.ParamSet) (domain.Object, error) {
	obj, err := rep.Create(ctx, params)
	if isTransient(err) {
		logging.FromContext(ctx).WarnContext(ctx, "transient failure creating object, retrying once",
			slog.String("operation", "Resolver.createOnce"),
			slog.String("kind", rep.Kind()),
			slog.Duration("delay", r.retryDelay),
			slog.Any("error", err),
		)
		r.countRetry(ctx, rep.Kind())

		if err := r.sleep(ctx, r.retryDelay); err != nil {
			return nil, err
		}
		obj, err = rep.Create(ctx, params)
	}
	if err != nil {
		if isTransient(err) {
			r.countRetry(ctx, rep.Kind())
		}
		return nil, err
	}
	if domain.IsNil(obj) {
		return nil, fmt.Errorf("creating %s: representation returned a nil object", rep.Kind())
	}
	return obj, nil
}

// resolveParams rewrites params in place against sig: accepted values stay,
// strings become references to registered objects, anything else is dropped
// so the representation's default applies.
func (r *Resolver) resolveParams(sig domain.Signature, params domain.ParamSet) error {
	for _, name := range sig.Params() {
		expected := sig[name]
		value, present := params[name]

		if present && expected.Accepts(value) {
			continue
		}
		if identifier, ok := value.(string); ok {
			obj, err := r.findObject(expected.Name(), identifier)
			if err != nil {
				return err
			}
			params[name] = obj
			continue
		}
		delete(params, name)
	}
	return nil
}

// findObject looks identifier up under category, then under each direct
// subtype of category in declared order.
func (r *Resolver) findObject(category, identifier string) (domain.Object, error) {
	if obj := r.store.Get(category, identifier); obj != nil {
		return obj, nil
	}
	for _, subtype := range r.catalog.Subtypes(category) {
		if obj := r.store.Get(subtype, identifier); obj != nil {
			return obj, nil
		}
	}
	return nil, &domain.ReferenceNotFoundError{ExpectedType: category, Identifier: identifier}
}

// register adds obj and, one level deep, its default representations.
func (r *Resolver) register(ctx context.Context, scope domain.Scope, obj domain.Object) error {
	if _, err := r.store.Add(obj, scope); err != nil {
		return err
	}
	r.countCreated(ctx, obj, scope)
	logging.FromContext(ctx).DebugContext(ctx, "registered object",
		slog.String("category", firstCategory(obj)),
		slog.String("identifier", obj.Identifier()),
		slog.String("scope", scope.String()),
	)

	representer, ok := obj.(domain.DefaultRepresenter)
	if !ok {
		return nil
	}

	defaults, err := Flatten(firstCategory(obj), representer.DefaultRepresentations())
	if err != nil {
		return err
	}
	for _, each := range defaults {
		if _, err := r.store.Add(each, scope); err != nil {
			return err
		}
		r.countCreated(ctx, each, scope)
		logging.FromContext(ctx).DebugContext(ctx, "registered default representation",
			slog.String("owner", obj.Identifier()),
			slog.String("category", firstCategory(each)),
			slog.String("identifier", each.Identifier()),
		)
	}
	return nil
}

func (r *Resolver) countCreated(ctx context.Context, obj domain.Object, scope domain.Scope) {
	if r.metrics == nil {
		return
	}
	r.metrics.ObjectsCreated.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrKind.String(firstCategory(obj)),
		telemetry.AttrScope.String(scope.String()),
	))
}

func (r *Resolver) countRetry(ctx context.Context, kind string) {
	if r.metrics == nil {
		return
	}
	r.metrics.CreateRetries.Add(ctx, 1, metric.WithAttributes(telemetry.AttrKind.String(kind)))
}

func (r *Resolver) recordDuration(ctx context.Context, kind string, scope domain.Scope, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.CreateDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		telemetry.AttrKind.String(kind),
		telemetry.AttrScope.String(scope.String()),
	))
}

func isTransient(err error) bool {
	return errors.Is(err, domain.ErrPersistence)
}

func firstCategory(obj domain.Object) string {
	if categories := obj.Categories(); len(categories) > 0 {
		return categories[0]
	}
	return ""
}
