package probe

import "context"

// Pinger is implemented by clients that can check their own connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker is implemented by database handles.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// PingProbe treats a successful ping as healthy.
type PingProbe struct {
	ping func(ctx context.Context) error
}

// NewRedisProbe probes a Redis client with PING.
func NewRedisProbe(c Pinger) *PingProbe {
	return &PingProbe{ping: c.Ping}
}

// NewPostgresProbe probes a database with a connection ping.
func NewPostgresProbe(db HealthChecker) *PingProbe {
	return &PingProbe{ping: db.Health}
}

// Check runs the ping.
func (p *PingProbe) Check(ctx context.Context) (bool, error) {
	if err := p.ping(ctx); err != nil {
		return false, err
	}
	return true, nil
}
