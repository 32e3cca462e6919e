package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"hos-trip-planner/internal/api/handlers"
	"hos-trip-planner/internal/platform/metrics"
	"hos-trip-planner/internal/ports"
	"hos-trip-planner/internal/services"
)

// Deps are the collaborators the HTTP layer is composed from.
type Deps struct {
	Geocoder ports.Geocoder
	Router   ports.RouteProvider
	Policy   services.Policy
	Logger   zerolog.Logger
	Metrics  *metrics.Recorder
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	trips := &handlers.TripHandler{
		Geocoder: deps.Geocoder,
		Router:   deps.Router,
		Policy:   deps.Policy,
		Metrics:  deps.Metrics,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/trips/plan", trips.Plan)
	mux.HandleFunc("/schedule", trips.Schedule)
	if deps.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	return requestMiddleware(deps.Logger, deps.Metrics, mux)
}
