package ports

import (
	"context"

	"hos-trip-planner/internal/domain"
)

// Distance and duration of one leg between consecutive waypoints.
type RouteLeg struct {
	DistanceKm    float64
	DurationHours float64
}

// Driving route through an ordered list of waypoints.
type RouteResult struct {
	DistanceKm    float64
	DurationHours float64
	Geometry      []domain.Coordinates
	Legs          []RouteLeg
}

// Contract for retrieving a driving route through waypoints.
type RouteProvider interface {
	GetRoute(ctx context.Context, waypoints []domain.Coordinates) (RouteResult, error)
}

// Persistent store of computed routes keyed by their waypoints.
type RouteCache interface {
	Get(ctx context.Context, key string) (RouteResult, bool, error)
	Put(ctx context.Context, key string, route RouteResult) error
}
