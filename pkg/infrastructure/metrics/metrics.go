// Package metrics provides Prometheus metrics for sourcing runs.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlanRunsTotal tracks plan runs by status and error kind
	PlanRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Subsystem: "plan",
			Name:      "runs_total",
			Help:      "Total number of plan runs by status",
		},
		[]string{"status", "kind"},
	)

	// PlanRunDuration tracks plan computation time in seconds
	PlanRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sourcing",
			Subsystem: "plan",
			Name:      "run_duration_seconds",
			Help:      "Duration of plan computations in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"status"},
	)

	// DemandLinesTotal tracks demand lines by the rule that placed them
	DemandLinesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Subsystem: "resolution",
			Name:      "lines_total",
			Help:      "Total number of demand lines resolved, by decision rule and center",
		},
		[]string{"rule", "center"},
	)

	// UnmatchedKeysTotal tracks join keys without a master row
	UnmatchedKeysTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Subsystem: "join",
			Name:      "unmatched_keys_total",
			Help:      "Total number of demand join keys with no master row",
		},
		[]string{"table"},
	)

	// ProductionOrdersTotal tracks proposed production orders per center
	ProductionOrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Subsystem: "batching",
			Name:      "orders_total",
			Help:      "Total number of production orders proposed",
		},
		[]string{"center"},
	)

	// CacheRequestsTotal tracks memo lookups by backend and result
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Total number of plan memo lookups",
		},
		[]string{"backend", "result"},
	)

	// HTTPRequestsTotal tracks API requests
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	// HTTPRequestDuration tracks API request duration
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sourcing",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)
)

// RecordPlanRun records a finished plan computation
func RecordPlanRun(status, kind string, durationSeconds float64) {
	PlanRunsTotal.WithLabelValues(status, kind).Inc()
	PlanRunDuration.WithLabelValues(status).Observe(durationSeconds)
}

// RecordResolution records resolved demand lines
func RecordResolution(rule, center string, count int) {
	DemandLinesTotal.WithLabelValues(rule, center).Add(float64(count))
}

// RecordUnmatched records join keys without a master row
func RecordUnmatched(table string, count int) {
	UnmatchedKeysTotal.WithLabelValues(table).Add(float64(count))
}

// RecordOrders records proposed production orders
func RecordOrders(center string, count int) {
	ProductionOrdersTotal.WithLabelValues(center).Add(float64(count))
}

// RecordCacheLookup records a memo hit or miss
func RecordCacheLookup(backend string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(backend, result).Inc()
}

// RecordHTTPRequest records an API request
func RecordHTTPRequest(method, route, statusCode string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(durationSeconds)
}
