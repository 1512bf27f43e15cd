package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/beacon/internal/core/domain"
	"github.com/vietddude/beacon/internal/status"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestStatusCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(status.Response{
			State:          domain.StateUnavailable,
			Message:        domain.StateUnavailable.Message(),
			Detail:         domain.ConnectionLostDetail,
			RetryCount:     3,
			ConnectionLost: true,
			Since:          time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		})
	}))
	defer srv.Close()

	out, err := execute(t, "status", "--addr", srv.URL+"/")
	require.NoError(t, err)
	assert.Contains(t, out, "unavailable")
	assert.Contains(t, out, "Backend Connection Lost")
	assert.Contains(t, out, domain.ConnectionLostDetail)
	assert.Contains(t, out, "3")
	assert.Contains(t, out, "2026-01-02T03:04:05Z")
}

func TestRetryCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/retry", r.URL.Path)
		_ = json.NewEncoder(w).Encode(status.Response{
			State:       domain.StateAvailable,
			Message:     domain.StateAvailable.Message(),
			ProjectName: "classroom-a",
		})
	}))
	defer srv.Close()

	out, err := execute(t, "retry", "--addr", srv.URL)
	require.NoError(t, err)
	assert.Contains(t, out, "Backend available")
	assert.Contains(t, out, "classroom-a")
	assert.NotContains(t, out, "DETAIL")
}

func TestStatusCommand_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := execute(t, "status", "--addr", srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
