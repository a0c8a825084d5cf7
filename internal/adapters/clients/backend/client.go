package backend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/jsamuelsen11/testdata-provisioner/internal/platform/httpclient"
	"github.com/jsamuelsen11/testdata-provisioner/internal/ports"
)

// ServiceName labels the backend in traces, metrics, and health results.
const ServiceName = "backend"

const (
	apiPrefix  = "/api/v1/"
	healthPath = "/health"
)

// Compile-time interface checks.
var (
	_ ports.Persister     = (*Client)(nil)
	_ ports.HealthChecker = (*Client)(nil)
)

// Client persists representation payloads as REST resources.
type Client struct {
	req    *Requester
	client *httpclient.Client
}

// New creates a Client sending requests through client.
func New(client *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{req: NewRequester(client, logger), client: client}
}

type createdDTO struct {
	ID string `json:"id"`
}

// Persist sends POST /api/v1/{collection} and returns the id from the 201
// response.
func (c *Client) Persist(ctx context.Context, collection string, body any) (string, error) {
	var created createdDTO
	if err := c.req.Do(ctx, http.MethodPost, apiPrefix+url.PathEscape(collection), http.StatusCreated, body, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", fmt.Errorf("POST %s%s: response carried no id", apiPrefix, collection)
	}
	return created.ID, nil
}

// Link sends POST /api/v1/{collection}/{id}/{relation} and expects 204.
func (c *Client) Link(ctx context.Context, collection, id, relation string, body any) error {
	path := apiPrefix + url.PathEscape(collection) + "/" + url.PathEscape(id) + "/" + url.PathEscape(relation)
	return c.req.Do(ctx, http.MethodPost, path, http.StatusNoContent, body, nil)
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string {
	return ServiceName
}

// HealthCheck fails fast on an open breaker, otherwise probes GET /health.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.client.HealthCheck(ctx); err != nil {
		return err
	}
	return c.req.Do(ctx, http.MethodGet, healthPath, http.StatusOK, nil, nil)
}
