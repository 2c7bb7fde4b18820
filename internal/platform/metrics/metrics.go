package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// RoutingRuns counts route computations by outcome (ok, invalid, graph_error, infeasible, fault).
	RoutingRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "routing_runs_total", Help: "Route computations by status."},
		[]string{"status"},
	)
	RoutingDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "routing_duration_seconds", Help: "Route computation duration in seconds.", Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10}},
	)

	// GraphCacheLookups counts plan graph lookups by result (hit, miss, error).
	GraphCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "graph_cache_lookups_total", Help: "Plan graph cache lookups by result."},
		[]string{"result"},
	)
	GraphLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "graph_load_duration_seconds", Help: "Plan file parse duration in seconds.", Buckets: prometheus.DefBuckets},
	)

	RouteCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_cache_lookups_total", Help: "Computed route cache lookups by result."},
		[]string{"result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers the service collectors plus Go and process
// collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RoutingRuns)
		Registry.MustRegister(RoutingDuration)
		Registry.MustRegister(GraphCacheLookups)
		Registry.MustRegister(GraphLoadDuration)
		Registry.MustRegister(RouteCacheLookups)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
