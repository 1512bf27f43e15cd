package status

import (
	"sync"
	"time"

	"github.com/vietddude/beacon/internal/core/domain"
	"github.com/vietddude/beacon/internal/monitor"
)

// Event is one state change as served by /transitions.
type Event struct {
	ID             string              `json:"id"`
	From           domain.MonitorState `json:"from"`
	To             domain.MonitorState `json:"to"`
	Trigger        string              `json:"trigger"`
	RetryCount     int                 `json:"retry_count"`
	ConnectionLost bool                `json:"connection_lost"`
	Detail         string              `json:"detail,omitempty"`
	Timestamp      time.Time           `json:"timestamp"`
}

// History keeps the most recent transitions, oldest first.
type History struct {
	mu     sync.Mutex
	size   int
	events []Event
}

// NewHistory creates a history holding up to size events.
func NewHistory(size int) *History {
	if size <= 0 {
		size = 50
	}
	return &History{size: size}
}

// Record appends a transition. It has the monitor transition callback signature.
func (h *History) Record(tr monitor.Transition) {
	ev := Event{
		ID:             tr.ID,
		From:           tr.From,
		To:             tr.To,
		Trigger:        string(tr.Trigger),
		RetryCount:     tr.RetryCount,
		ConnectionLost: tr.ConnectionLost,
		Timestamp:      tr.Timestamp,
	}
	if tr.LostConnection() {
		ev.Detail = domain.ConnectionLostDetail
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
	if len(h.events) > h.size {
		h.events = h.events[len(h.events)-h.size:]
	}
}

// Events returns a copy of the recorded events.
func (h *History) Events() []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Event, len(h.events))
	copy(out, h.events)
	return out
}
