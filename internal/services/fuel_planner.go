package services

import (
	"fmt"
	"math"
	"time"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/spatial"
)

// FuelPlanner places refuelling stops at a fixed distance interval.
//
// Distance and driving time are proportional along a route, so the interval is
// converted once into driving time and tracked against SchedulerState.SinceFuel.
// This keeps stop boundaries exact over any number of intervals.
type FuelPlanner struct {
	IntervalKm   float64
	StopDuration time.Duration

	every time.Duration
	route domain.RouteSegment
}

func NewFuelPlanner(route domain.RouteSegment, policy Policy) FuelPlanner {
	total := route.Duration()
	return FuelPlanner{
		IntervalKm:   policy.FuelIntervalKm,
		StopDuration: policy.FuelStopDuration,
		every:        time.Duration(math.Round(float64(total) * policy.FuelIntervalKm / route.DistanceKm)),
		route:        route,
	}
}

// UntilNext returns the driving time left before the next fuel stop.
func (f FuelPlanner) UntilNext(s *SchedulerState) time.Duration {
	if left := f.every - s.SinceFuel; left > 0 {
		return left
	}
	return 0
}

// Due reports whether the truck must refuel before driving on. No stop is
// made once the destination has been reached.
func (f FuelPlanner) Due(s *SchedulerState, remaining time.Duration) bool {
	return remaining > 0 && f.every > 0 && s.SinceFuel >= f.every
}

// DistanceSinceFuelKm converts the state's driving since the last stop into kilometres.
func (f FuelPlanner) DistanceSinceFuelKm(s *SchedulerState) float64 {
	return s.SinceFuel.Hours() * f.route.AverageSpeedKmh()
}

// StopAt returns the fuel stop location at the given distance from trip start.
func (f FuelPlanner) StopAt(odometerKm float64) domain.Location {
	return domain.Location{
		Name:        fmt.Sprintf("Fuel stop at %.0f km", odometerKm),
		Coordinates: positionAt(f.route, odometerKm),
	}
}

// positionAt interpolates a point along the route at the given distance from
// trip start. Without geometry the three stops form the path.
func positionAt(route domain.RouteSegment, odometerKm float64) domain.Coordinates {
	path := route.Geometry
	if len(path) < 2 {
		path = []domain.Coordinates{
			route.Stops.Current.Coordinates,
			route.Stops.Pickup.Coordinates,
			route.Stops.Dropoff.Coordinates,
		}
	}
	return spatial.InterpolateAlong(path, odometerKm/route.DistanceKm)
}
