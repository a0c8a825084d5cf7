// Package fanout runs a function over a slice of items with bounded
// concurrency and collects one result per item, in input order. Unlike a
// plain errgroup, a failing item does not cancel its siblings: every item
// reports its own outcome.
package fanout

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome for one item. Err is non-nil on failure.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item using at most limit goroutines. A limit below
// one runs all items at once. Items still waiting for a slot when ctx is
// canceled record ctx.Err() without calling fn.
func Run[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	if len(items) == 0 {
		return results
	}

	var g errgroup.Group
	if limit >= 1 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result[R]{Err: err}
				return nil
			}
			val, err := fn(ctx, item)
			results[i] = Result[R]{Value: val, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// Errors returns the failures of results keyed by the name key derives from
// the matching item. Successful items are omitted.
func Errors[T, R any](items []T, results []Result[R], key func(T) string) map[string]error {
	out := make(map[string]error)
	for i, r := range results {
		if r.Err != nil {
			out[key(items[i])] = r.Err
		}
	}
	return out
}
