package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cobranza_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cobranza_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	debtsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cobranza_debts_created_total",
		Help: "Count of debts registered",
	})

	debtsPaid = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cobranza_debts_paid_total",
		Help: "Count of debt payment attempts by result",
	}, []string{"result"})

	pendingDebts = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cobranza_pending_debts",
		Help: "Number of debts currently pending (logical state)",
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cobranza_cache_lookups_total",
		Help: "Count of entity cache lookups by result",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveDebtCreated increments the created counter and the pending gauge.
func ObserveDebtCreated() {
	debtsCreated.Inc()
	pendingDebts.Inc()
}

// ObserveDebtPaid records a payment attempt with a result label
// ("ok", "conflict", "not_found", "error"); successful payments also
// decrement the pending gauge.
func ObserveDebtPaid(result string) {
	debtsPaid.WithLabelValues(result).Inc()
	if result == "ok" {
		pendingDebts.Dec()
	}
}

// ObserveCacheLookup increments the cache counter for "hit" or "miss".
func ObserveCacheLookup(result string) {
	cacheLookups.WithLabelValues(result).Inc()
}
