package feedcache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationsTotal counts cache operations by operation (get, put, clear) and result
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yatube_feed_cache_operations_total",
			Help: "Total number of feed cache operations",
		},
		[]string{"operation", "result"},
	)
)

const (
	resultHit      = "hit"
	resultMiss     = "miss"
	resultOK       = "ok"
	resultError    = "error"
	resultDisabled = "disabled"
)

func recordOperation(operation, result string) {
	OperationsTotal.WithLabelValues(operation, result).Inc()
}
