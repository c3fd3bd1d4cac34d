// internal/api/client.go

// Package api provides the HTTP client every store uses to reach the
// remote storefront API. The client is configured once with the API base
// URL and injects the bearer token and a request ID on every call.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/pkg/apierror"
)

// Client is a thin JSON client for the storefront API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger

	mu    sync.RWMutex
	token string
}

// NewClient creates a new API client from the application config
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.API.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.API.Timeout,
		},
		logger: logger,
	}
}

// SetToken sets the bearer token attached to subsequent requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token from subsequent requests
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the bearer token currently attached to requests
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Get performs a GET request and decodes the JSON response into out
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// do executes one request/response cycle. Non-2xx responses and
// transport failures both come back as *apierror.Error.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).WithError(err).Debug("API request failed in transport")
		return apierror.FromTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierror.FromTransport(err)
	}

	c.logger.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status_code": resp.StatusCode,
		"latency":     time.Since(start),
	}).Debug("API request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apierror.FromResponse(resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}

	return nil
}
