// Package settings loads project settings once the backend is reachable.
package settings

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/beacon/internal/core/domain"
	"github.com/vietddude/beacon/internal/metrics"
)

// Fetcher retrieves the current project settings.
type Fetcher interface {
	Fetch(ctx context.Context) (*domain.Settings, error)
}

// Loader keeps the most recently loaded settings.
// A failed load is logged and leaves the previous settings in place.
type Loader struct {
	fetcher Fetcher
	timeout time.Duration
	log     *slog.Logger

	mu           sync.RWMutex
	started      uint64
	applied      uint64
	current      domain.Settings
	loads        int
	lastErr      error
	lastLoadedAt time.Time
}

// NewLoader creates a settings loader. A zero timeout defaults to 10 seconds.
func NewLoader(fetcher Fetcher, timeout time.Duration, log *slog.Logger) *Loader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		fetcher: fetcher,
		timeout: timeout,
		log:     log.With("component", "settings"),
	}
}

// Refresh starts a load in the background and returns at once.
// It has the monitor.AvailableFunc signature.
func (l *Loader) Refresh(ctx context.Context) {
	gen := l.begin()
	go l.load(ctx, gen)
}

// Load fetches settings and applies the project name when one is present.
// A load that finishes after a later-started one is ignored.
func (l *Loader) Load(ctx context.Context) {
	l.load(ctx, l.begin())
}

func (l *Loader) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.started++
	return l.started
}

func (l *Loader) load(ctx context.Context, gen uint64) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	s, err := l.fetcher.Fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loads++

	if gen < l.applied {
		metrics.SettingsLoads.WithLabelValues("stale").Inc()
		l.log.Debug("Ignoring stale settings load", "gen", gen, "applied", l.applied)
		return
	}
	l.applied = gen

	if err != nil {
		l.lastErr = err
		metrics.SettingsLoads.WithLabelValues("error").Inc()
		l.log.Warn("Failed to fetch project settings", "error", err)
		return
	}

	l.lastErr = nil
	l.lastLoadedAt = time.Now()
	metrics.SettingsLoads.WithLabelValues("ok").Inc()

	if s != nil && s.ProjectName != "" {
		l.current.ProjectName = s.ProjectName
		l.log.Info("Project settings loaded", "project", s.ProjectName)
		return
	}
	l.log.Debug("Project settings loaded without a project name")
}

// Settings returns the last successfully applied settings.
func (l *Loader) Settings() domain.Settings {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// ProjectName returns the current project name, empty if none was loaded.
func (l *Loader) ProjectName() string {
	return l.Settings().ProjectName
}

// Loads returns how many loads have been attempted.
func (l *Loader) Loads() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loads
}

// LastError returns the error of the most recent load, nil if it succeeded.
func (l *Loader) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}
