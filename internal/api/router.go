package api

import (
	"courier-route-service/internal/api/handlers"
	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/metrics"
	"courier-route-service/internal/ports"
	"io"
	"net/http"
	"time"
)

// Deps carries what the HTTP layer needs. Handlers stay unaware of concrete
// adapters.
type Deps struct {
	Planner      handlers.RoutePlanner
	Runs         handlers.RunLister
	Graphs       handlers.GraphLister
	Plans        ports.FileCatalog
	Requests     ports.FileCatalog
	ParseRequest func(io.Reader) (domain.DeliveryRequest, error)

	RateRPS      float64
	RateBurst    int
	AllowOrigins []string
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	tsp := &handlers.TSPHandler{Planner: d.Planner}
	files := &handlers.FileHandler{Plans: d.Plans, Requests: d.Requests, ParseRequest: d.ParseRequest}
	runs := &handlers.RunHandler{Runs: d.Runs}
	health := &handlers.HealthHandler{Graphs: d.Graphs, Started: time.Now()}

	mux.HandleFunc("/health", health.Health)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/get_tsp", tsp.Plan)
	mux.HandleFunc("/plan-names", files.PlanNames)
	mux.HandleFunc("/request-names", files.RequestNames)
	mux.HandleFunc("/plans/{name}", files.Plan)
	mux.HandleFunc("/requests/{name}", files.Request)
	mux.HandleFunc("/requests/{name}/parsed", files.ParsedRequest)
	mux.HandleFunc("/runs", runs.List)

	var h http.Handler = mux
	h = corsMiddleware(d.AllowOrigins)(h)
	h = rateLimitMiddleware(d.RateRPS, d.RateBurst)(h)
	h = loggingMiddleware(h)
	h = requestIDMiddleware(h)
	return h
}
