package domain

import "time"

// MonitorState is the availability of the monitored backend.
type MonitorState string

const (
	StateChecking    MonitorState = "checking"
	StateAvailable   MonitorState = "available"
	StateUnavailable MonitorState = "unavailable"
)

// Valid reports whether s is one of the known states.
func (s MonitorState) Valid() bool {
	switch s {
	case StateChecking, StateAvailable, StateUnavailable:
		return true
	default:
		return false
	}
}

// Message returns the headline shown to users for a state.
func (s MonitorState) Message() string {
	switch s {
	case StateChecking:
		return "Connecting to Backend..."
	case StateAvailable:
		return "Backend available"
	case StateUnavailable:
		return "Backend Connection Lost"
	default:
		return "Unknown state"
	}
}

// ConnectionLostDetail is shown alongside the unavailable message when a
// previously working connection dropped.
const ConnectionLostDetail = "Connection was lost during operation. Any ongoing tasks have been interrupted."

// Snapshot is a consistent copy of the monitor's observable state.
type Snapshot struct {
	State          MonitorState `json:"state"`
	RetryCount     int          `json:"retry_count"`
	ConnectionLost bool         `json:"connection_lost"`
	Since          time.Time    `json:"since"`
	LastProbeAt    time.Time    `json:"last_probe_at"`
	LastError      string       `json:"last_error,omitempty"`
}
