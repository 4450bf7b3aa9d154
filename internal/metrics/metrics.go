package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "luminous_store_operations_total",
		Help: "Document store operations by collection, operation and outcome",
	}, []string{"collection", "op", "outcome"})

	StoreLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "luminous_store_operation_seconds",
		Help:    "Document store operation latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "op"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "luminous_cache_lookups_total",
		Help: "Read-through cache lookups by result (hit, miss, error)",
	}, []string{"result"})

	HTTPResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "luminous_http_responses_total",
		Help: "HTTP responses by route and status code",
	}, []string{"route", "status"})

	ReadingsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "luminous_readings_ingested_total",
		Help: "Energy readings stored from MQTT",
	})

	ReadingsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "luminous_readings_rejected_total",
		Help: "MQTT payloads that failed to decode, validate or store",
	})

	OptimizerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "luminous_optimizer_runs_total",
		Help: "Optimizer runs by outcome",
	}, []string{"outcome"})

	OptimizerSavings = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "luminous_optimizer_last_savings",
		Help: "Total savings (INR) computed by the last successful optimizer run",
	})
)

// Outcome labels an operation result for the counters above.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
