package fanout_test

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/fanout"
)

func TestRun_EmptyItems(t *testing.T) {
	t.Parallel()

	results := fanout.Run(t.Context(), 4, []int{}, func(_ context.Context, _ int) (string, error) {
		t.Fatal("fn must not be called for empty input")
		return "", nil
	})

	require.NotNil(t, results)
	assert.Empty(t, results)
}

func TestRun_KeepsInputOrder(t *testing.T) {
	t.Parallel()

	delays := []time.Duration{30 * time.Millisecond, 0, 15 * time.Millisecond}

	results := fanout.Run(t.Context(), 3, delays, func(_ context.Context, d time.Duration) (time.Duration, error) {
		time.Sleep(d)
		return d, nil
	})

	require.Len(t, results, len(delays))
	for i, r := range results {
		require.NoError(t, r.Err)
		assert.Equal(t, delays[i], r.Value)
	}
}

func TestRun_FailureDoesNotCancelSiblings(t *testing.T) {
	t.Parallel()

	errDown := errors.New("down")
	var calls atomic.Int32

	results := fanout.Run(t.Context(), 1, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		if n == 1 {
			return 0, errDown
		}
		return n * 10, nil
	})

	assert.Equal(t, int32(3), calls.Load())
	require.ErrorIs(t, results[0].Err, errDown)
	assert.Equal(t, 20, results[1].Value)
	assert.Equal(t, 30, results[2].Value)
}

func TestRun_BoundedConcurrency(t *testing.T) {
	t.Parallel()

	const limit = 2
	var active, peak atomic.Int32

	items := make([]int, 10)
	fanout.Run(t.Context(), limit, items, func(_ context.Context, _ int) (struct{}, error) {
		cur := active.Add(1)
		defer active.Add(-1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(limit))
}

func TestRun_CanceledContextSkipsItems(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	results := fanout.Run(ctx, 2, []int{1, 2, 3}, func(_ context.Context, _ int) (int, error) {
		t.Error("fn must not run after cancellation")
		return 0, nil
	})

	for _, r := range results {
		require.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestRun_NoLimit(t *testing.T) {
	t.Parallel()

	results := fanout.Run(t.Context(), 0, []int{1, 2}, func(_ context.Context, n int) (int, error) {
		return n * 2, nil
	})

	assert.Equal(t, 2, results[0].Value)
	assert.Equal(t, 4, results[1].Value)
}

func TestErrors(t *testing.T) {
	t.Parallel()

	items := []int{1, 2, 3}
	errOdd := errors.New("odd")
	results := fanout.Run(t.Context(), 0, items, func(_ context.Context, n int) (int, error) {
		if n%2 == 1 {
			return 0, errOdd
		}
		return n, nil
	})

	failed := fanout.Errors(items, results, strconv.Itoa)

	assert.Len(t, failed, 2)
	require.ErrorIs(t, failed["1"], errOdd)
	require.ErrorIs(t, failed["3"], errOdd)
	assert.NotContains(t, failed, "2")
}
