package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
	"hos-trip-planner/internal/ports"
)

type PlanTripRequest struct {
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	CycleUsedHours  float64
	// Zero means today (UTC).
	StartDate time.Time
}

// TripPlan is a scheduled trip together with the places and route it was planned on.
type TripPlan struct {
	ID         uuid.UUID
	Locations  domain.RouteStops
	Directions ports.RouteResult
	*Schedule
}

// PlanTrip resolves the three trip locations, fetches a route through them and
// schedules it.
//
// Input is validated before any external call. Geocoding runs concurrently; the
// first failure cancels the remaining lookups.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	geocoder ports.Geocoder,
	router ports.RouteProvider,
	policy Policy,
) (_ *TripPlan, err error) {
	defer obs.Time(ctx, "services.PlanTrip")(&err)

	addresses := [3]string{
		strings.TrimSpace(req.CurrentLocation),
		strings.TrimSpace(req.PickupLocation),
		strings.TrimSpace(req.DropoffLocation),
	}
	fields := [3]string{"current_location", "pickup_location", "dropoff_location"}
	for i, a := range addresses {
		if a == "" {
			return nil, domain.NewInvalidInput(fields[i], "must not be empty")
		}
	}
	if err := domain.ValidateCycleUsed(req.CycleUsedHours); err != nil {
		return nil, err
	}

	var coords [3]domain.Coordinates
	g, gctx := errgroup.WithContext(ctx)
	for i := range addresses {
		g.Go(func() error {
			c, err := geocoder.Geocode(gctx, addresses[i])
			if err != nil {
				return fmt.Errorf("geocode %s %q: %w", fields[i], addresses[i], err)
			}
			coords[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	stops := domain.RouteStops{
		Current: domain.Location{Name: addresses[0], Coordinates: coords[0]},
		Pickup:  domain.Location{Name: addresses[1], Coordinates: coords[1]},
		Dropoff: domain.Location{Name: addresses[2], Coordinates: coords[2]},
	}

	result, err := router.GetRoute(ctx, coords[:])
	if err != nil {
		return nil, fmt.Errorf("plan trip: get route: %w", err)
	}

	segment := SegmentFromRoute(stops, result)
	if err := segment.Validate(); err != nil {
		return nil, err
	}

	start := req.StartDate
	if start.IsZero() {
		start = time.Now().UTC()
	}

	schedule, err := BuildSchedule(segment, req.CycleUsedHours, start, policy)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	return &TripPlan{
		ID:         uuid.New(),
		Locations:  stops,
		Directions: result,
		Schedule:   schedule,
	}, nil
}

// SegmentFromRoute builds the scheduler input from a provider route. The first
// leg gives the pickup distance; without a usable leg it is left for the
// scheduler to estimate.
func SegmentFromRoute(stops domain.RouteStops, r ports.RouteResult) domain.RouteSegment {
	seg := domain.RouteSegment{
		DistanceKm:    r.DistanceKm,
		DurationHours: r.DurationHours,
		Stops:         stops,
		Geometry:      r.Geometry,
	}
	if len(r.Legs) >= 2 && r.Legs[0].DistanceKm < r.DistanceKm {
		seg.PickupDistanceKm = r.Legs[0].DistanceKm
	}
	return seg
}
