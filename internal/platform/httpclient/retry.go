package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/logging"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/retry"
)

// jitterFraction bounds the random spread applied to each backoff (±25%).
const jitterFraction = 0.25

// StatusError reports a retryable status that survived every attempt.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.Service)
}

// send issues req up to maxAttempts times. A response with a final status
// is returned as is. When every attempt hit a retryable status, the last
// response is returned with its body unread alongside a *StatusError so the
// caller can still translate the server's error payload.
func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	attempts := c.retryCfg.maxAttempts
	if attempts < 1 {
		return nil, fmt.Errorf("httpclient: maxAttempts must be >= 1, got %d", attempts)
	}
	if err := makeRewindable(req); err != nil {
		return nil, err
	}

	var (
		lastErr error
		wait    time.Duration
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := c.pause(ctx, req, attempt, wait, lastErr); err != nil {
				return nil, err
			}
			if err := rewind(req); err != nil {
				return nil, err
			}
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if !isRetryable(err) {
				return nil, err
			}
			lastErr, wait = err, backoff(attempt, c.retryCfg)
			continue
		}

		if !isRetryableStatus(resp.StatusCode) {
			return resp, nil
		}
		lastErr = &StatusError{Service: c.serviceName, StatusCode: resp.StatusCode}
		if attempt == attempts {
			return resp, lastErr
		}
		wait = retryAfter(resp, backoff(attempt, c.retryCfg), c.retryCfg.maxInterval)
		discard(resp)
	}
	return nil, lastErr
}

func (c *Client) pause(ctx context.Context, req *http.Request, attempt int, wait time.Duration, lastErr error) error {
	logging.FromContext(ctx).WarnContext(ctx, "retrying request to backing service",
		slog.String("operation", "httpclient.Do"),
		slog.String("peer_service", c.serviceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
		slog.Int("attempt", attempt),
		slog.Int("max_attempts", c.retryCfg.maxAttempts),
		slog.Duration("wait", wait),
		slog.Any("error", lastErr),
	)
	return retry.Sleep(ctx, wait)
}

// makeRewindable ensures req.GetBody is set so the body can be replayed.
// Requests built with http.NewRequest from a bytes or strings reader
// already have it.
func makeRewindable(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody || req.GetBody != nil {
		return nil
	}

	data, err := io.ReadAll(req.Body)
	_ = req.Body.Close()
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}

	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	req.Body, _ = req.GetBody()
	req.ContentLength = int64(len(data))
	return nil
}

func rewind(req *http.Request) error {
	if req.GetBody == nil {
		return nil
	}
	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}
	req.Body = body
	return nil
}

// discard drains and closes the body so the connection can be reused.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// backoff returns the wait after attempt (1-indexed):
// initialInterval * multiplier^(attempt-1), capped at maxInterval, ±25%.
func backoff(attempt int, cfg retryConfig) time.Duration {
	d := float64(cfg.initialInterval) * math.Pow(cfg.multiplier, float64(attempt-1))
	d = math.Min(d, float64(cfg.maxInterval))
	d += d * jitterFraction * (2*rand.Float64() - 1) //nolint:gosec // jitter does not need a CSPRNG
	return time.Duration(math.Max(d, 0))
}

// retryAfter honours a Retry-After header (delta seconds or HTTP date),
// capped at limit. Without a usable header it returns fallback.
func retryAfter(resp *http.Response, fallback, limit time.Duration) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return fallback
	}

	var d time.Duration
	if secs, err := strconv.Atoi(header); err == nil {
		d = time.Duration(secs) * time.Second
	} else if at, err := http.ParseTime(header); err == nil {
		d = time.Until(at)
	} else {
		return fallback
	}

	switch {
	case d < 0:
		return 0
	case limit > 0 && d > limit:
		return limit
	}
	return d
}

// isRetryable reports whether a transport error is worth another attempt.
// Cancellation and deadlines are final.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// isRetryableStatus reports 429 and 5xx.
func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
