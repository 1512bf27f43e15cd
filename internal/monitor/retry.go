package monitor

import "github.com/vietddude/beacon/internal/core/domain"

// armRetryTimerLocked starts counting reconnection attempts, one per
// RetryInterval, for as long as the backend stays unavailable.
func (m *Monitor) armRetryTimerLocked() {
	m.stopRetryTimerLocked()
	gen := m.retryGen
	m.retryTimer = m.clock.AfterFunc(m.cfg.RetryInterval, func() {
		m.accrueRetry(gen)
	})
}

// stopRetryTimerLocked cancels the pending increment. Bumping the generation
// also invalidates a callback that already fired but has not taken the lock yet.
func (m *Monitor) stopRetryTimerLocked() {
	m.retryGen++
	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
}

func (m *Monitor) accrueRetry(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped || gen != m.retryGen || m.state != domain.StateUnavailable {
		return
	}

	m.retryCount++
	m.publishLocked()
	m.log.Debug("Reconnection attempt counted", "retry_count", m.retryCount)

	m.retryTimer = m.clock.AfterFunc(m.cfg.RetryInterval, func() {
		m.accrueRetry(gen)
	})
}
