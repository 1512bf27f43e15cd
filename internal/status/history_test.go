package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/beacon/internal/core/domain"
	"github.com/vietddude/beacon/internal/monitor"
)

func TestHistory_KeepsNewest(t *testing.T) {
	h := NewHistory(2)
	now := time.Now()

	h.Record(monitor.Transition{ID: "1", From: domain.StateChecking, To: domain.StateAvailable, Trigger: monitor.TriggerInitial, Timestamp: now})
	h.Record(monitor.Transition{ID: "2", From: domain.StateAvailable, To: domain.StateUnavailable, Trigger: monitor.TriggerScheduled, ConnectionLost: true})
	h.Record(monitor.Transition{ID: "3", From: domain.StateUnavailable, To: domain.StateAvailable, Trigger: monitor.TriggerManual})

	events := h.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "2", events[0].ID)
	assert.Equal(t, domain.ConnectionLostDetail, events[0].Detail)
	assert.Equal(t, "scheduled", events[0].Trigger)
	assert.Equal(t, "3", events[1].ID)
	assert.Empty(t, events[1].Detail)
}

func TestServer_Transitions(t *testing.T) {
	h := NewHistory(10)
	h.Record(monitor.Transition{ID: "a", From: domain.StateChecking, To: domain.StateUnavailable, Trigger: monitor.TriggerInitial})

	srv := NewServer(&fakeMonitor{}, nil, 0)
	srv.SetHistory(h)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transitions", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var events []Event
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&events))
	require.Len(t, events, 1)
	assert.Equal(t, domain.StateUnavailable, events[0].To)
}

func TestServer_TransitionsWithoutHistory(t *testing.T) {
	srv := NewServer(&fakeMonitor{}, nil, 0)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transitions", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
