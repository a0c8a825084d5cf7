package backend_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/testdata-provisioner/internal/adapters/clients/backend"
	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/config"
	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/httpclient"
)

// newTestClient points a backend client at baseURL with retries disabled so
// status handling is observed directly.
func newTestClient(t *testing.T, baseURL string) *backend.Client {
	t.Helper()

	cfg := &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}
	return backend.New(httpclient.New(cfg, backend.ServiceName, nil, nil), nil)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func TestClient_Persist(t *testing.T) {
	t.Parallel()

	var got map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(t, w, http.StatusCreated, map[string]any{"id": "u-1"})
	}))
	t.Cleanup(ts.Close)

	id, err := newTestClient(t, ts.URL).Persist(context.Background(), "users", map[string]any{"name": "Bob"})
	require.NoError(t, err)

	assert.Equal(t, "u-1", id)
	assert.Equal(t, map[string]any{"name": "Bob"}, got)
}

func TestClient_Persist_MissingID(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, http.StatusCreated, map[string]any{})
	}))
	t.Cleanup(ts.Close)

	_, err := newTestClient(t, ts.URL).Persist(context.Background(), "users", map[string]any{"name": "Bob"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
}

func TestClient_Persist_ServerErrorIsTransient(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	_, err := newTestClient(t, ts.URL).Persist(context.Background(), "users", map[string]any{"name": "Bob"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPersistence)

	var perr *domain.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "POST /api/v1/users", perr.Op)
}

func TestClient_Persist_ConflictIsPermanent(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	t.Cleanup(ts.Close)

	_, err := newTestClient(t, ts.URL).Persist(context.Background(), "users", map[string]any{"name": "Bob"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.False(t, errors.Is(err, domain.ErrPersistence))
}

func TestClient_Persist_UnreachableIsTransient(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := newTestClient(t, url).Persist(context.Background(), "users", map[string]any{"name": "Bob"})
	assert.ErrorIs(t, err, domain.ErrPersistence)
}

func TestClient_Persist_CanceledContextIsNotTransient(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(ts.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, ts.URL).Persist(ctx, "users", map[string]any{"name": "Bob"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, domain.ErrPersistence))
}

func TestClient_Link(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/api/v1/accounts/a%201/members", r.URL.EscapedPath())

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "u-1", body["user_id"])
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(ts.Close)

	err := newTestClient(t, ts.URL).Link(context.Background(), "accounts", "a 1", "members", map[string]any{"user_id": "u-1"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Link_NotFound(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(ts.Close)

	err := newTestClient(t, ts.URL).Link(context.Background(), "accounts", "a-1", "members", map[string]any{"user_id": "u-1"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_HealthCheck(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	c := newTestClient(t, ts.URL)

	assert.Equal(t, backend.ServiceName, c.Name())
	assert.NoError(t, c.HealthCheck(context.Background()))
}

func TestClient_HealthCheck_Unavailable(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	err := newTestClient(t, ts.URL).HealthCheck(context.Background())
	assert.Error(t, err)
}
