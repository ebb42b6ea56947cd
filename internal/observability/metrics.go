package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce         sync.Once
	apiRequestsTotal     *prometheus.CounterVec
	apiLatencySeconds    *prometheus.HistogramVec
	apiErrorsTotal       *prometheus.CounterVec
	registryTxTotal      *prometheus.CounterVec
	registryWatchSeconds *prometheus.HistogramVec
	listCacheTotal       *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pol_api_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pol_api_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pol_api_errors_total",
			Help: "Total number of error responses returned by API endpoints.",
		}, []string{"method", "route", "status"})

		registryTxTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pol_registry_tx_total",
			Help: "Registry transactions by contract method and outcome.",
		}, []string{"method", "outcome"})

		registryWatchSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pol_registry_watch_seconds",
			Help:    "Time spent waiting for registry transactions to mine.",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 180},
		}, []string{"method"})

		listCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pol_list_cache_total",
			Help: "Contribution list cache lookups by result.",
		}, []string{"result"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			registryTxTotal,
			registryWatchSeconds,
			listCacheTotal,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// RegistryTx exposes the counter for registry writes.
func RegistryTx() *prometheus.CounterVec {
	RegisterMetrics()
	return registryTxTotal
}

// RegistryWatch exposes the histogram for confirmation wait time.
func RegistryWatch() *prometheus.HistogramVec {
	RegisterMetrics()
	return registryWatchSeconds
}

// ListCache exposes the counter for list cache hits and misses.
func ListCache() *prometheus.CounterVec {
	RegisterMetrics()
	return listCacheTotal
}
