package correlation

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics shared by all correlation engines.
type Metrics struct {
	RequestsIssued    *prometheus.CounterVec
	RepliesReconciled *prometheus.CounterVec
	RepliesFailed     *prometheus.CounterVec
	TerminalOutcomes  *prometheus.CounterVec
	RecoverableErrors *prometheus.CounterVec
	PendingRequests   *prometheus.GaugeVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers the engine metrics (singleton pattern)
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			RequestsIssued: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "neutron",
					Subsystem: "correlation",
					Name:      "requests_issued_total",
					Help:      "Total asynchronous requests issued with a correlation id",
				},
				[]string{"module"},
			),
			RepliesReconciled: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "neutron",
					Subsystem: "correlation",
					Name:      "replies_reconciled_total",
					Help:      "Total replies that re-keyed a pending payload under its transport key",
				},
				[]string{"module"},
			),
			RepliesFailed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "neutron",
					Subsystem: "correlation",
					Name:      "replies_failed_total",
					Help:      "Total error replies for submessages the host failed to execute",
				},
				[]string{"module"},
			),
			TerminalOutcomes: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "neutron",
					Subsystem: "correlation",
					Name:      "terminal_outcomes_total",
					Help:      "Total terminal results recorded by kind",
				},
				[]string{"module", "kind"},
			),
			RecoverableErrors: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "neutron",
					Subsystem: "correlation",
					Name:      "recoverable_errors_total",
					Help:      "Total recoverable errors written to the error queue",
				},
				[]string{"module", "operation"},
			),
			PendingRequests: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Namespace: "neutron",
					Subsystem: "correlation",
					Name:      "pending_requests",
					Help:      "Requests issued in this process minus requests that reached a terminal state",
				},
				[]string{"module"},
			),
		}
	})
	return metrics
}
