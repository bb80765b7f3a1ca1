// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "teamspend"

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_requests_total",
		Help:      "Count of processed HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "http_request_duration_seconds",
		Help:      "Latency distribution of HTTP handlers",
		Buckets:   histogramBuckets,
	}, []string{"method", "route", "status"})

	ExpenseOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "expense",
		Name:      "operations_total",
		Help:      "Expense writes by operation and outcome",
	}, []string{"op", "result"})

	CeilingRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "expense",
		Name:      "ceiling_rejections_total",
		Help:      "Expense writes rejected because they would exceed the team budget",
	})

	AlertsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "budget",
		Name:      "alerts_sent_total",
		Help:      "Budget threshold alerts delivered",
	}, []string{"threshold"})

	AlertFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "budget",
		Name:      "alert_failures_total",
		Help:      "Budget threshold alerts that could not be delivered",
	}, []string{"threshold"})

	Suggestions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "classify",
		Name:      "suggestions_total",
		Help:      "Category suggestions by the strategy that produced them",
	}, []string{"source"})

	ImportedRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "importer",
		Name:      "rows_total",
		Help:      "Imported CSV rows by outcome",
	}, []string{"result"})
)

// Result labels an operation outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
