// Package probe provides backend liveness checks over different transports.
package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPProbe checks a liveness endpoint. Any 2xx response means healthy.
type HTTPProbe struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPProbe creates a probe for the given URL.
func NewHTTPProbe(endpoint string, timeout time.Duration) *HTTPProbe {
	return &HTTPProbe{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        4,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Check performs one GET against the endpoint.
func (p *HTTPProbe) Check(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("ping backend: %w", err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode >= 200 && resp.StatusCode < 300, nil
}

// Close releases idle connections.
func (p *HTTPProbe) Close() error {
	p.httpClient.CloseIdleConnections()
	return nil
}
