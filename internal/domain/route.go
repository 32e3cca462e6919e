package domain

import (
	"math"
	"time"
)

// Bounds on a schedulable route. MaxRouteHours keeps every simulated instant
// representable and the simulation step count bounded.
const (
	MaxRouteKm       = 100_000.0
	MaxRouteHours    = 10_000.0
	MinRouteDuration = time.Second
)

// Ordered stop points of a trip.
type RouteStops struct {
	Current Location
	Pickup  Location
	Dropoff Location
}

// Represents the resolved route handed to the scheduler by the routing collaborator.
// A RouteSegment covers current -> pickup -> dropoff. Geometry is only used to
// place fuel and rest stops along the way. It is immutable input.
type RouteSegment struct {
	DistanceKm    float64
	DurationHours float64
	// Distance of the current -> pickup leg. Zero means unknown.
	PickupDistanceKm float64
	Stops            RouteStops
	Geometry         []Coordinates
}

// AverageSpeedKmh is the implied travel speed over the whole route.
func (r RouteSegment) AverageSpeedKmh() float64 {
	if r.DurationHours <= 0 {
		return 0
	}
	return r.DistanceKm / r.DurationHours
}

// Duration is DurationHours rounded to the nanosecond.
func (r RouteSegment) Duration() time.Duration {
	return time.Duration(math.Round(r.DurationHours * float64(time.Hour)))
}

// Validate checks the route against the scheduler's input contract.
func (r RouteSegment) Validate() error {
	if !finite(r.DistanceKm) || r.DistanceKm <= 0 {
		return NewInvalidInput("distance_km", "must be positive, got %v", r.DistanceKm)
	}
	if r.DistanceKm > MaxRouteKm {
		return NewInvalidInput("distance_km", "must not exceed %v, got %v", MaxRouteKm, r.DistanceKm)
	}
	if !finite(r.DurationHours) || r.DurationHours <= 0 {
		return NewInvalidInput("duration_hours", "must be positive, got %v", r.DurationHours)
	}
	if r.DurationHours > MaxRouteHours {
		return NewInvalidInput("duration_hours", "must not exceed %v, got %v", MaxRouteHours, r.DurationHours)
	}
	if r.Duration() < MinRouteDuration {
		return NewInvalidInput("duration_hours", "must be at least %s, got %v", MinRouteDuration, r.DurationHours)
	}
	if !finite(r.PickupDistanceKm) || r.PickupDistanceKm < 0 || r.PickupDistanceKm >= r.DistanceKm {
		return NewInvalidInput("pickup_distance_km", "must be within [0, %v), got %v", r.DistanceKm, r.PickupDistanceKm)
	}

	stops := []struct {
		field string
		loc   Location
	}{
		{"current_location", r.Stops.Current},
		{"pickup_location", r.Stops.Pickup},
		{"dropoff_location", r.Stops.Dropoff},
	}
	for _, s := range stops {
		if !s.loc.Valid() {
			return NewInvalidInput(s.field, "coordinates out of range")
		}
	}
	for i := 0; i < len(stops); i++ {
		for j := i + 1; j < len(stops); j++ {
			if stops[i].loc.Coincides(stops[j].loc) {
				return NewInvalidInput(stops[j].field, "coincides with %s", stops[i].field)
			}
		}
	}

	for i, c := range r.Geometry {
		if !c.Valid() {
			return NewInvalidInput("geometry", "point %d out of range", i)
		}
	}

	return nil
}

// ValidateCycleUsed checks the caller-supplied hours already used in the
// 70-hour/8-day cycle.
func ValidateCycleUsed(hours float64) error {
	if !finite(hours) || hours < 0 || hours > MaxCycleHours {
		return NewInvalidInput("current_cycle_used", "must be within [0, %v], got %v", MaxCycleHours, hours)
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
