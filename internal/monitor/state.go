package monitor

import (
	"time"

	"github.com/vietddude/beacon/internal/core/domain"
)

// Trigger identifies what initiated a probe.
type Trigger string

const (
	TriggerInitial   Trigger = "initial"
	TriggerScheduled Trigger = "scheduled"
	TriggerManual    Trigger = "manual"
)

// Next returns the state a probe outcome leads to from any state.
// Checking is only ever a starting point: no outcome leads back to it.
func Next(healthy bool) domain.MonitorState {
	if healthy {
		return domain.StateAvailable
	}
	return domain.StateUnavailable
}

// Transition records a state change and the effects it applied.
type Transition struct {
	ID             string
	From           domain.MonitorState
	To             domain.MonitorState
	Trigger        Trigger
	RetryCount     int
	ConnectionLost bool
	Timestamp      time.Time
}

// LoadsSettings reports whether entering To fires the settings effect.
func (t Transition) LoadsSettings() bool {
	return t.To == domain.StateAvailable && t.From != domain.StateAvailable
}

// LostConnection reports whether this transition dropped a working connection.
func (t Transition) LostConnection() bool {
	return t.From == domain.StateAvailable && t.To == domain.StateUnavailable
}
