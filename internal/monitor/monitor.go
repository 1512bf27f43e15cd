// Package monitor tracks whether a remote backend is reachable and drives
// automatic reconnection.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"github.com/vietddude/beacon/internal/core/domain"
	"github.com/vietddude/beacon/internal/metrics"
)

var (
	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = errors.New("monitor already started")
	// ErrStopped is returned when Start is called after Stop.
	ErrStopped = errors.New("monitor stopped")
)

// Config holds monitor timing settings.
type Config struct {
	ProbeInterval time.Duration
	RetryInterval time.Duration
	ProbeTimeout  time.Duration

	// Clock drives both timers. Defaults to the wall clock.
	Clock  clock.Clock
	Logger *slog.Logger
}

// DefaultConfig returns the 5 second cadence used for both timers.
func DefaultConfig() Config {
	return Config{
		ProbeInterval: 5 * time.Second,
		RetryInterval: 5 * time.Second,
		ProbeTimeout:  3 * time.Second,
	}
}

// Monitor is the availability state machine.
//
// The state, retry count and banner flag are only read and written under mu.
// Probe results are resolved against the live fields, never against a value
// captured when the probe was scheduled.
type Monitor struct {
	id          string
	cfg         Config
	probe       Probe
	onAvailable AvailableFunc
	clock       clock.Clock
	log         *slog.Logger

	mu          sync.RWMutex
	state       domain.MonitorState
	retryCount  int
	banner      bool
	since       time.Time
	lastProbeAt time.Time
	lastError   string

	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	ticker  *clock.Ticker

	// issued numbers probes at initiation; manualApplied is the newest
	// manual probe whose result was applied.
	issued        uint64
	manualApplied uint64

	retryTimer *clock.Timer
	retryGen   uint64

	// Transitions are numbered under mu and delivered in that order.
	// notifyMu is never held together with mu.
	notifyMu     sync.Mutex
	notifyCond   *sync.Cond
	notifyIssued uint64
	notifyNext   uint64
	onTransition func(Transition)
}

// New creates a monitor in the checking state. onAvailable may be nil.
func New(cfg Config, probe Probe, onAvailable AvailableFunc) *Monitor {
	def := DefaultConfig()
	if cfg.ProbeInterval <= 0 {
		cfg.ProbeInterval = def.ProbeInterval
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = def.ProbeTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	id := uuid.NewString()
	m := &Monitor{
		id:          id,
		cfg:         cfg,
		probe:       probe,
		onAvailable: onAvailable,
		clock:       cfg.Clock,
		log:         cfg.Logger.With("component", "monitor", "monitor_id", id),
		state:       domain.StateChecking,
		since:       cfg.Clock.Now(),
		notifyNext:  1,
	}
	m.notifyCond = sync.NewCond(&m.notifyMu)
	m.publishLocked()
	return m
}

// ID returns the monitor instance identifier.
func (m *Monitor) ID() string {
	return m.id
}

// SetTransitionCallback registers fn to be called after every state change,
// one call at a time in the order the changes were applied. fn may read the
// monitor but must not call RetryNow synchronously.
func (m *Monitor) SetTransitionCallback(fn func(Transition)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onTransition = fn
}

// Start probes immediately and then every ProbeInterval until Stop or ctx is done.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	runCtx, cancel := context.WithCancel(ctx)
	m.ctx, m.cancel = runCtx, cancel
	ticker := m.clock.Ticker(m.cfg.ProbeInterval)
	m.ticker = ticker
	m.mu.Unlock()

	m.log.Info("Availability monitor started",
		"probe_interval", m.cfg.ProbeInterval,
		"retry_interval", m.cfg.RetryInterval,
	)

	go m.run(runCtx, ticker)
	return nil
}

// Stop cancels both timers and any in-flight probe. Results that arrive
// afterwards are discarded. Safe to call more than once.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	m.stopped = true

	if m.cancel != nil {
		m.cancel()
	}
	if m.ticker != nil {
		m.ticker.Stop()
	}
	m.stopRetryTimerLocked()

	m.log.Info("Availability monitor stopped", "state", m.state)
}

// RetryNow probes outside the regular cadence. While unavailable it also
// counts a reconnection attempt. It returns the snapshot once the probe resolves, or the current snapshot if
// ctx ends first. Before Start or after Stop it only returns the snapshot.
func (m *Monitor) RetryNow(ctx context.Context) domain.Snapshot {
	m.mu.Lock()
	if !m.started || m.stopped {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}
	if m.state == domain.StateUnavailable {
		m.retryCount++
		m.publishLocked()
	}
	m.issued++
	seq := m.issued
	runCtx := m.ctx
	count := m.retryCount
	m.mu.Unlock()

	m.log.Info("Manual retry requested", "retry_count", count)

	done := make(chan domain.Snapshot, 1)
	go func() {
		done <- m.execute(runCtx, seq, TriggerManual)
	}()

	select {
	case snap := <-done:
		return snap
	case <-ctx.Done():
		return m.Snapshot()
	}
}

// State returns the current availability state.
func (m *Monitor) State() domain.MonitorState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// RetryCount returns the number of reconnection attempts in the current outage.
func (m *Monitor) RetryCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.retryCount
}

// BannerVisible reports whether a previously available backend was lost.
func (m *Monitor) BannerVisible() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.banner
}

// Snapshot returns state, retry count and banner read together.
func (m *Monitor) Snapshot() domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Monitor) run(ctx context.Context, ticker *clock.Ticker) {
	m.probeOnce(ctx, TriggerInitial)

	for {
		select {
		case <-ctx.Done():
			m.Stop()
			return
		case <-ticker.C:
			m.log.Debug("Scheduled health check")
			m.probeOnce(ctx, TriggerScheduled)
		}
	}
}

func (m *Monitor) probeOnce(ctx context.Context, trigger Trigger) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.issued++
	seq := m.issued
	m.mu.Unlock()

	m.execute(ctx, seq, trigger)
}

// execute runs probe number seq and resolves its result.
func (m *Monitor) execute(ctx context.Context, seq uint64, trigger Trigger) domain.Snapshot {
	probeCtx, cancel := context.WithTimeout(ctx, m.cfg.ProbeTimeout)
	start := time.Now()
	healthy, err := safeCheck(probeCtx, m.probe)
	cancel()
	metrics.ProbeLatency.WithLabelValues(string(trigger)).Observe(time.Since(start).Seconds())

	return m.resolve(seq, trigger, healthy && err == nil, err)
}

// resolve applies a probe result to the live state.
func (m *Monitor) resolve(seq uint64, trigger Trigger, healthy bool, probeErr error) domain.Snapshot {
	result := classify(healthy, probeErr)

	m.mu.Lock()
	if m.stopped {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		metrics.ProbeResultsDiscarded.WithLabelValues("stopped").Inc()
		m.log.Debug("Discarding probe result after stop", "trigger", trigger, "seq", seq, "result", result)
		return snap
	}
	// A manual result is never superseded. A scheduled one is superseded by
	// a manual probe that was initiated after it and already resolved.
	if trigger != TriggerManual && seq < m.manualApplied {
		manual := m.manualApplied
		snap := m.snapshotLocked()
		m.mu.Unlock()
		metrics.ProbeResultsDiscarded.WithLabelValues("superseded").Inc()
		m.log.Debug("Discarding superseded probe result",
			"trigger", trigger, "seq", seq, "manual_seq", manual, "result", result)
		return snap
	}
	if trigger == TriggerManual && seq > m.manualApplied {
		m.manualApplied = seq
	}
	m.lastProbeAt = m.clock.Now()
	m.lastError = ""
	if probeErr != nil {
		m.lastError = probeErr.Error()
	}
	metrics.ProbesTotal.WithLabelValues(string(trigger), result).Inc()

	from := m.state
	to := Next(healthy)
	if to == from {
		snap := m.snapshotLocked()
		m.mu.Unlock()
		return snap
	}

	tr := m.applyLocked(from, to, trigger)
	snap := m.snapshotLocked()
	runCtx := m.ctx
	notify := m.onTransition
	m.notifyIssued++
	ticket := m.notifyIssued
	m.mu.Unlock()

	m.deliver(ticket, func() {
		m.logTransition(tr, probeErr)
		if notify != nil {
			notify(tr)
		}
		if tr.LoadsSettings() && m.onAvailable != nil {
			m.onAvailable(runCtx)
		}
	})
	return snap
}

// deliver runs fn once every transition numbered before ticket was delivered.
func (m *Monitor) deliver(ticket uint64, fn func()) {
	m.notifyMu.Lock()
	for m.notifyNext != ticket {
		m.notifyCond.Wait()
	}
	m.notifyMu.Unlock()

	defer func() {
		m.notifyMu.Lock()
		m.notifyNext++
		m.notifyCond.Broadcast()
		m.notifyMu.Unlock()
	}()
	fn()
}

// applyLocked moves the state machine from one state to another and applies
// the entry effects of the new state.
func (m *Monitor) applyLocked(from, to domain.MonitorState, trigger Trigger) Transition {
	switch to {
	case domain.StateAvailable:
		m.retryCount = 0
		m.banner = false
		m.stopRetryTimerLocked()
	case domain.StateUnavailable:
		if from == domain.StateAvailable {
			m.banner = true
		}
		m.armRetryTimerLocked()
	}

	now := m.clock.Now()
	m.state = to
	m.since = now
	m.publishLocked()
	metrics.Transitions.WithLabelValues(string(from), string(to)).Inc()

	return Transition{
		ID:             uuid.NewString(),
		From:           from,
		To:             to,
		Trigger:        trigger,
		RetryCount:     m.retryCount,
		ConnectionLost: m.banner,
		Timestamp:      now,
	}
}

func (m *Monitor) logTransition(tr Transition, probeErr error) {
	switch {
	case tr.LostConnection():
		m.log.Warn("Backend went down", "trigger", tr.Trigger, "error", probeErr)
	case tr.To == domain.StateUnavailable:
		m.log.Warn("Backend unavailable", "trigger", tr.Trigger, "error", probeErr)
	case tr.From == domain.StateUnavailable:
		m.log.Info("Backend recovered", "trigger", tr.Trigger)
	default:
		m.log.Info("Backend is healthy", "trigger", tr.Trigger)
	}
}

func (m *Monitor) snapshotLocked() domain.Snapshot {
	return domain.Snapshot{
		State:          m.state,
		RetryCount:     m.retryCount,
		ConnectionLost: m.banner,
		Since:          m.since,
		LastProbeAt:    m.lastProbeAt,
		LastError:      m.lastError,
	}
}

// publishLocked mirrors the current triple into the metrics gauges.
func (m *Monitor) publishLocked() {
	for _, s := range []domain.MonitorState{
		domain.StateChecking,
		domain.StateAvailable,
		domain.StateUnavailable,
	} {
		v := 0.0
		if s == m.state {
			v = 1
		}
		metrics.BackendState.WithLabelValues(string(s)).Set(v)
	}
	metrics.RetryCount.Set(float64(m.retryCount))
	if m.banner {
		metrics.ConnectionLost.Set(1)
	} else {
		metrics.ConnectionLost.Set(0)
	}
}
