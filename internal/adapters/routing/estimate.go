package routing

import (
	"context"
	"errors"
	"math"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
	"hos-trip-planner/internal/spatial"
)

const (
	DefaultRoadFactor = 1.4
	DefaultSpeedKmh   = 60.0
)

// EstimateRouteProvider approximates a route as straight lines between the
// waypoints, scaled by a road factor and driven at a constant speed.
type EstimateRouteProvider struct {
	RoadFactor float64
	SpeedKmh   float64
}

func NewEstimateRouteProvider() EstimateRouteProvider {
	return EstimateRouteProvider{RoadFactor: DefaultRoadFactor, SpeedKmh: DefaultSpeedKmh}
}

// GetRoute returns the estimate. Distances are rounded to 0.1 km and
// durations to 0.01 h.
func (e EstimateRouteProvider) GetRoute(_ context.Context, waypoints []domain.Coordinates) (ports.RouteResult, error) {
	if len(waypoints) < 2 {
		return ports.RouteResult{}, errors.New("estimate route: at least two waypoints are required")
	}
	if e.RoadFactor <= 0 || e.SpeedKmh <= 0 {
		return ports.RouteResult{}, errors.New("estimate route: road factor and speed must be positive")
	}

	r := ports.RouteResult{
		Geometry: append([]domain.Coordinates(nil), waypoints...),
		Legs:     make([]ports.RouteLeg, 0, len(waypoints)-1),
	}
	var total float64
	for i := 1; i < len(waypoints); i++ {
		km := spatial.HaversineKm(waypoints[i-1], waypoints[i]) * e.RoadFactor
		total += km
		r.Legs = append(r.Legs, ports.RouteLeg{
			DistanceKm:    round(km, 1),
			DurationHours: round(km/e.SpeedKmh, 2),
		})
	}

	r.DistanceKm = round(total, 1)
	r.DurationHours = round(total/e.SpeedKmh, 2)
	return r, nil
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
