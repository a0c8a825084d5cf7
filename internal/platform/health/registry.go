// Package health provides a thread-safe registry of health checkers for the
// systems representations persist into. A setup run consults it before the
// first pass so an unreachable backend fails fast instead of burning the
// transient-error retry budget.
package health

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/fanout"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

const maxConcurrentChecks = 4

// ErrUnhealthy is returned, wrapped, by Preflight when any checker fails.
var ErrUnhealthy = errors.New("preflight failed")

// Compile-time interface check.
var _ ports.HealthRegistry = (*Registry)(nil)

// Registry is a thread-safe implementation of [ports.HealthRegistry].
type Registry struct {
	mu       sync.RWMutex
	checkers []ports.HealthChecker
}

// New creates an empty health check registry.
func New() *Registry {
	return &Registry{}
}

// Register adds a health checker to the registry. Safe for concurrent use.
func (r *Registry) Register(checker ports.HealthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers = append(r.checkers, checker)
}

// CheckAll runs the registered checks concurrently, at most maxConcurrentChecks
// at a time, and returns results keyed by checker name. Nil values indicate
// healthy components.
func (r *Registry) CheckAll(ctx context.Context) map[string]error {
	checkers, outcomes := r.run(ctx)

	results := make(map[string]error, len(checkers))
	for i, c := range checkers {
		results[c.Name()] = outcomes[i].Err
	}
	return results
}

// Preflight runs every check and joins the failures, ordered by checker
// name. It returns nil when all components are healthy.
func (r *Registry) Preflight(ctx context.Context) error {
	checkers, outcomes := r.run(ctx)
	failed := fanout.Errors(checkers, outcomes, ports.HealthChecker.Name)
	if len(failed) == 0 {
		return nil
	}

	errs := []error{ErrUnhealthy}
	for _, name := range slices.Sorted(maps.Keys(failed)) {
		errs = append(errs, fmt.Errorf("%s: %w", name, failed[name]))
	}
	return errors.Join(errs...)
}

func (r *Registry) run(ctx context.Context) ([]ports.HealthChecker, []fanout.Result[struct{}]) {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	outcomes := fanout.Run(ctx, maxConcurrentChecks, checkers,
		func(ctx context.Context, c ports.HealthChecker) (struct{}, error) {
			return struct{}{}, c.HealthCheck(ctx)
		})
	return checkers, outcomes
}
