// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scan metrics
	ScansTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrsync_scans_total",
			Help: "Total number of sync sessions by job and result",
		},
		[]string{"job", "result"}, // result: "completed", "superseded", "cancelled", "failed"
	)

	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arrsync_scan_duration_seconds",
			Help:    "Duration of sync sessions in seconds",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		},
		[]string{"job"},
	)

	ScanRunning = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arrsync_scan_running",
			Help: "Whether a sync job is currently running (1) or idle (0)",
		},
		[]string{"job"},
	)

	ItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrsync_items_processed_total",
			Help: "Total number of library items handed to reconciliation",
		},
		[]string{"job", "result"}, // result: "ok", "failed"
	)

	// Reconciliation metrics
	TitleWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrsync_title_writes_total",
			Help: "Total number of title records created or updated",
		},
		[]string{"kind", "op"}, // op: "create", "update"
	)

	TitlesBecameAvailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrsync_titles_available_total",
			Help: "Total number of title dimensions that became available",
		},
		[]string{"kind", "dimension"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arrsync_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrsync_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Catalog metrics
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arrsync_catalog_requests_total",
			Help: "Total number of catalog lookups by cache outcome",
		},
		[]string{"result"}, // result: "hit", "miss", "error"
	)
)

// RecordScan records the outcome of one sync session.
func RecordScan(job, result string, duration time.Duration) {
	ScansTotal.WithLabelValues(job, result).Inc()
	ScanDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// SetScanRunning flips the running gauge for a job.
func SetScanRunning(job string, running bool) {
	v := 0.0
	if running {
		v = 1
	}
	ScanRunning.WithLabelValues(job).Set(v)
}

// RecordItem counts one processed item.
func RecordItem(job string, err error) {
	result := "ok"
	if err != nil {
		result = "failed"
	}
	ItemsProcessed.WithLabelValues(job, result).Inc()
}

// RecordBreakerTransition updates breaker gauges on a state change.
// States follow gobreaker's numbering.
func RecordBreakerTransition(name, from, to string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}
