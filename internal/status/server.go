// Package status serves the monitor's state to presentation clients over HTTP.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/beacon/internal/core/domain"
)

// Monitor is the part of the availability monitor the server exposes.
type Monitor interface {
	Snapshot() domain.Snapshot
	RetryNow(ctx context.Context) domain.Snapshot
}

// SettingsView exposes the loaded project settings.
type SettingsView interface {
	Settings() domain.Settings
}

// Response is the body of /status and /retry.
type Response struct {
	State          domain.MonitorState `json:"state"`
	Message        string              `json:"message"`
	Detail         string              `json:"detail,omitempty"`
	RetryCount     int                 `json:"retry_count"`
	ConnectionLost bool                `json:"connection_lost"`
	ProjectName    string              `json:"project_name,omitempty"`
	Since          time.Time           `json:"since"`
	LastProbeAt    *time.Time          `json:"last_probe_at,omitempty"`
	LastError      string              `json:"last_error,omitempty"`
}

// Server provides HTTP endpoints for the availability state.
type Server struct {
	monitor  Monitor
	settings SettingsView
	history  *History
	server   *http.Server
}

// NewServer creates a new status server. settings may be nil.
func NewServer(monitor Monitor, settings SettingsView, port int) *Server {
	s := &Server{
		monitor:  monitor,
		settings: settings,
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// SetHistory enables /transitions. Call before Start.
func (s *Server) SetHistory(h *History) {
	s.history = h
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /retry", s.handleRetry)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /transitions", s.handleTransitions)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// Start listens and serves until Stop. It returns nil after a graceful stop.
func (s *Server) Start() error {
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Serve serves on an existing listener.
func (s *Server) Serve(l net.Listener) error {
	if err := s.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.response(s.monitor.Snapshot()))
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	snap := s.monitor.RetryNow(r.Context())
	writeJSON(w, http.StatusOK, s.response(snap))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.monitor.Snapshot()

	code := http.StatusOK
	if snap.State != domain.StateAvailable {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": string(snap.State)})
}

func (s *Server) handleTransitions(w http.ResponseWriter, r *http.Request) {
	events := []Event{}
	if s.history != nil {
		events = s.history.Events()
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *Server) response(snap domain.Snapshot) Response {
	resp := Response{
		State:          snap.State,
		Message:        snap.State.Message(),
		RetryCount:     snap.RetryCount,
		ConnectionLost: snap.ConnectionLost,
		Since:          snap.Since,
		LastError:      snap.LastError,
	}
	if snap.ConnectionLost {
		resp.Detail = domain.ConnectionLostDetail
	}
	if !snap.LastProbeAt.IsZero() {
		at := snap.LastProbeAt
		resp.LastProbeAt = &at
	}
	if s.settings != nil {
		resp.ProjectName = s.settings.Settings().ProjectName
	}
	return resp
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
