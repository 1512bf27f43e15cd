package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendState is 1 for the active state label and 0 for the others
	BackendState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "beacon_backend_state",
			Help: "Current backend availability state (1 = active)",
		},
		[]string{"state"},
	)

	// RetryCount mirrors the monitor's reconnection attempt counter
	RetryCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_retry_count",
			Help: "Reconnection attempts since the backend became unavailable",
		},
	)

	// ConnectionLost is 1 while the connection-lost banner is shown
	ConnectionLost = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "beacon_connection_lost",
			Help: "Whether a previously available backend was lost",
		},
	)

	// ProbesTotal counts resolved probes by trigger and outcome
	ProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beacon_probes_total",
			Help: "Total number of backend probes",
		},
		[]string{"trigger", "result"},
	)

	// ProbeLatency tracks probe duration
	ProbeLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "beacon_probe_latency_seconds",
			Help:    "Backend probe latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"trigger"},
	)

	// ProbeResultsDiscarded counts results dropped after teardown or because a newer probe already resolved
	ProbeResultsDiscarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beacon_probe_results_discarded_total",
			Help: "Probe results discarded without affecting state",
		},
		[]string{"reason"},
	)

	// Transitions counts state changes
	Transitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beacon_state_transitions_total",
			Help: "Total number of availability state transitions",
		},
		[]string{"from", "to"},
	)

	// SettingsLoads counts project settings fetches
	SettingsLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "beacon_settings_loads_total",
			Help: "Total number of project settings loads",
		},
		[]string{"result"},
	)
)
