package status

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/beacon/internal/core/domain"
)

type fakeMonitor struct {
	snap    domain.Snapshot
	retries int
}

func (f *fakeMonitor) Snapshot() domain.Snapshot { return f.snap }

func (f *fakeMonitor) RetryNow(ctx context.Context) domain.Snapshot {
	f.retries++
	f.snap.RetryCount++
	return f.snap
}

type fakeSettings struct{ name string }

func (f fakeSettings) Settings() domain.Settings { return domain.Settings{ProjectName: f.name} }

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestServer_Status(t *testing.T) {
	mon := &fakeMonitor{snap: domain.Snapshot{
		State:          domain.StateUnavailable,
		RetryCount:     3,
		ConnectionLost: true,
		LastProbeAt:    time.Unix(100, 0),
		LastError:      "connection refused",
	}}
	srv := NewServer(mon, fakeSettings{name: "classroom-a"}, 0)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, domain.StateUnavailable, resp.State)
	assert.Equal(t, "Backend Connection Lost", resp.Message)
	assert.Equal(t, domain.ConnectionLostDetail, resp.Detail)
	assert.Equal(t, 3, resp.RetryCount)
	assert.True(t, resp.ConnectionLost)
	assert.Equal(t, "classroom-a", resp.ProjectName)
	require.NotNil(t, resp.LastProbeAt)
	assert.Equal(t, "connection refused", resp.LastError)
}

func TestServer_StatusChecking(t *testing.T) {
	srv := NewServer(&fakeMonitor{snap: domain.Snapshot{State: domain.StateChecking}}, nil, 0)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	resp := decode(t, rec)
	assert.Equal(t, "Connecting to Backend...", resp.Message)
	assert.Empty(t, resp.Detail)
	assert.Nil(t, resp.LastProbeAt)
}

func TestServer_Retry(t *testing.T) {
	mon := &fakeMonitor{snap: domain.Snapshot{State: domain.StateUnavailable}}
	srv := NewServer(mon, nil, 0)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/retry", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, mon.retries)
	assert.Equal(t, 1, decode(t, rec).RetryCount)

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/retry", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, 1, mon.retries)
}

func TestServer_Health(t *testing.T) {
	tests := []struct {
		state domain.MonitorState
		code  int
	}{
		{domain.StateChecking, http.StatusServiceUnavailable},
		{domain.StateAvailable, http.StatusOK},
		{domain.StateUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			srv := NewServer(&fakeMonitor{snap: domain.Snapshot{State: tt.state}}, nil, 0)

			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, rec.Code)
			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, string(tt.state), body["status"])
		})
	}
}

func TestServer_Metrics(t *testing.T) {
	srv := NewServer(&fakeMonitor{}, nil, 0)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
