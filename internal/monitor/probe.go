package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Probe reports whether the backend is reachable.
// A false result and a non-nil error are treated the same way.
type Probe interface {
	Check(ctx context.Context) (bool, error)
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func(ctx context.Context) (bool, error)

// Check calls f(ctx).
func (f ProbeFunc) Check(ctx context.Context) (bool, error) {
	return f(ctx)
}

// AvailableFunc runs once per transition into the available state, in
// transition order. It must not block; long work belongs in its own goroutine.
type AvailableFunc func(ctx context.Context)

var errProbePanic = errors.New("probe panicked")

// safeCheck runs the probe and converts a panic into an error.
func safeCheck(ctx context.Context, p Probe) (healthy bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			healthy = false
			err = fmt.Errorf("%w: %v", errProbePanic, r)
		}
	}()
	return p.Check(ctx)
}

// classify labels a probe outcome for metrics.
func classify(healthy bool, err error) string {
	if err == nil {
		if healthy {
			return "ok"
		}
		return "unhealthy"
	}

	if errors.Is(err, errProbePanic) {
		return "panic"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	return "error"
}
