// Package sdk provides the client side of the record service. It offers the
// same Entity Store contract as the embedded engine, backed by HTTP calls,
// plus discovery that picks remote or embedded mode from the environment.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	maxAttempts = 3
	baseBackoff = 200 * time.Millisecond
)

// Client is the low-level HTTP transport shared by the typed collections.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Connect builds a client for the record service at addr (host:port or a
// full URL) and verifies the service is reachable.
func Connect(addr string, log *zap.Logger) (*Client, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	c := &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		log:     log,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, _, err := c.do(ctx, http.MethodGet, "/healthz", nil); err != nil {
		return nil, fmt.Errorf("record service unreachable at %s: %w", c.baseURL, err)
	}
	return c, nil
}

// do performs one request with bounded retry and exponential backoff on
// transport failures. HTTP status codes are returned to the caller, not
// retried; only the connection itself is.
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, int, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * baseBackoff):
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, 0, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.log.Warn("record service request failed",
				zap.String("method", method),
				zap.String("path", path),
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return data, resp.StatusCode, nil
	}
	return nil, 0, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}

// serverError extracts the {"error": "..."} payload the service returns on
// failure, falling back to the raw status.
func serverError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("%s", payload.Error)
	}
	return fmt.Errorf("record service returned status %d", status)
}
