package settingstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vietddude/beacon/internal/core/domain"
)

// maxSettingsBody bounds the payload read from the backend.
const maxSettingsBody = 1 << 20

// HTTPStore fetches settings as JSON from the backend.
type HTTPStore struct {
	endpoint   string
	httpClient *http.Client
}

// NewHTTPStore creates a store reading from endpoint.
func NewHTTPStore(endpoint string, timeout time.Duration) *HTTPStore {
	return &HTTPStore{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Fetch GETs the settings document. Non-2xx responses and malformed JSON are errors.
func (s *HTTPStore) Fetch(ctx context.Context) (*domain.Settings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSettingsBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}

	var settings domain.Settings
	if err := json.Unmarshal(body, &settings); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &settings, nil
}
