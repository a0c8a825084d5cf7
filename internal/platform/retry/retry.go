// Package retry re-runs an operation that fails with a designated transient
// error kind. The policy is flat-with-jitter: every wait lasts BaseDelay plus
// a uniform random share of Jitter, with no exponential growth.
//
//	err := retry.Do(ctx, retry.Policy{Retryable: isTransient}, func(ctx context.Context) error {
//	    return create(ctx)
//	})
package retry

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/logging"
)

// Default policy values.
const (
	DefaultMaxAttempts = 10
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultJitter      = time.Second
)

// ErrExhausted is matched by every *ExhaustedError.
var ErrExhausted = errors.New("retrying failed")

// Policy configures Do. A zero MaxAttempts falls back to DefaultMaxAttempts.
// Zero or negative delays mean no wait and no jitter; use DefaultPolicy for
// the default timing. A nil Retryable treats every error as transient.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration

	// Retryable reports whether err belongs to the transient kind. Other
	// errors are returned immediately, unmodified.
	Retryable func(err error) bool

	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	// Operation names the wrapped call in log records.
	Operation string
}

// DefaultPolicy returns a Policy with the default attempt budget and timing.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		Jitter:      DefaultJitter,
	}
}

// ExhaustedError is returned when every attempt failed with a transient
// error. It unwraps to ErrExhausted and to the last attempt's error, so
// errors.Is still matches the transient kind.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() []error {
	return []error{ErrExhausted, e.Last}
}

// Do runs op until it succeeds, fails with a non-retryable error, or the
// attempt budget is spent. A warning is logged for every transient failure.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := Value(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	p = p.withDefaults()
	logger := logging.FromContext(ctx)

	var zero T
	for attempt := 1; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !p.Retryable(err) {
			return zero, err
		}

		logger.WarnContext(ctx, "retry failed with error",
			slog.String("operation", p.Operation),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.MaxAttempts),
			slog.Any("error", err),
		)

		if attempt >= p.MaxAttempts {
			logger.ErrorContext(ctx, "retrying failed, giving up",
				slog.String("operation", p.Operation),
				slog.Int("attempts", attempt),
				slog.Any("error", err),
			)
			return zero, &ExhaustedError{Attempts: attempt, Last: err}
		}

		if err := p.Sleep(ctx, p.Backoff()); err != nil {
			return zero, err
		}
	}
}

// Backoff returns one jittered delay: BaseDelay + U[0,1) * Jitter.
func (p Policy) Backoff() time.Duration {
	return p.BaseDelay + time.Duration(secureRandFloat64()*float64(p.Jitter))
}

func (p Policy) withDefaults() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	p.BaseDelay = max(p.BaseDelay, 0)
	p.Jitter = max(p.Jitter, 0)
	if p.Retryable == nil {
		p.Retryable = func(error) bool { return true }
	}
	if p.Sleep == nil {
		p.Sleep = Sleep
	}
	return p
}

// Sleep blocks for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IEEE 754 double-precision constants for random float generation.
const (
	significandBits = 53
	uint64Bits      = 64
)

// secureRandFloat64 returns a random float64 in [0, 1) using crypto/rand.
func secureRandFloat64() float64 {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0
	}
	return float64(binary.BigEndian.Uint64(b[:])>>(uint64Bits-significandBits)) / float64(uint64(1)<<significandBits)
}
