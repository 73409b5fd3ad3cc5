package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Reconciliation metrics
	ReconcilesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scmsync_reconciles_total",
			Help: "Total number of reconciliation runs by resource kind and action",
		},
		[]string{"kind", "action"},
	)

	ReconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scmsync_reconcile_duration_seconds",
			Help:    "Reconciliation run duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	ReconcileFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scmsync_reconcile_failures_total",
			Help: "Total number of failed reconciliation runs by resource kind",
		},
		[]string{"kind"},
	)

	// Backend metrics
	BackendCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scmsync_backend_calls_total",
			Help: "Total number of backend calls by operation",
		},
		[]string{"operation"},
	)

	BackendErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scmsync_backend_errors_total",
			Help: "Total number of backend errors by operation",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(ReconcilesTotal)
	prometheus.MustRegister(ReconcileDuration)
	prometheus.MustRegister(ReconcileFailures)
	prometheus.MustRegister(BackendCallsTotal)
	prometheus.MustRegister(BackendErrorsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures elapsed time for histogram observation
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time in the given histogram
func (t *Timer) ObserveDuration(h prometheus.Observer) {
	h.Observe(t.Duration().Seconds())
}
