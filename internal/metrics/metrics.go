// Package metrics provides the Prometheus collectors for adj-valet.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation names used as the "operation" label.
const (
	OpLoad   = "load"
	OpSave   = "save"
	OpRename = "rename"
	OpReload = "reload"
)

var (
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adjvalet_operations_total",
			Help: "Total number of engine operations",
		},
		[]string{"operation", "status"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adjvalet_operation_duration_seconds",
			Help:    "Time taken by engine operations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	LoadWarningsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adjvalet_load_warnings_total",
			Help: "Total number of ADJ files skipped while loading",
		},
	)

	Boards = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "adjvalet_boards",
			Help: "Number of boards in the current configuration",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adjvalet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "code"},
	)
)

// RecordOperation records the outcome and duration of one operation.
func RecordOperation(op string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	OperationsTotal.WithLabelValues(op, status).Inc()
	OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// RecordLoad records warnings and the resulting board count of a load.
func RecordLoad(warnings, boards int) {
	LoadWarningsTotal.Add(float64(warnings))
	Boards.Set(float64(boards))
}
