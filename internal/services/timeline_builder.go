package services

import (
	"fmt"
	"math"
	"time"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/spatial"
)

// Base bound on simulation steps, before fuel stops are added. Every step
// either drives or takes a rest that clears a counter, so a correct run over a
// route within domain.MaxRouteHours stays far below it.
const maxSimulationSteps = 100_000

// TripStart returns midnight UTC of the given date, the origin of the
// simulated clock and of every day boundary.
func TripStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildTimeline simulates a trip over continuous time and returns its
// duty-status events in order.
//
// The simulation advances by exact event boundaries. Before every driving
// increment the rule set is consulted in priority order (cycle restart, daily
// reset, break). Otherwise the truck drives for the largest increment that no
// limit, fuel stop, or pickup point cuts short. The run either returns a
// complete compliant timeline or an error; it never returns a partial one.
func BuildTimeline(
	route domain.RouteSegment,
	cycleUsedHours float64,
	startDate time.Time,
	policy Policy,
) ([]domain.DutyEvent, error) {
	if err := domain.ValidateCycleUsed(cycleUsedHours); err != nil {
		return nil, err
	}
	if err := route.Validate(); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}

	b := newTimelineBuilder(route, cycleUsedHours, TripStart(startDate), policy)
	if b.fuel.every <= 0 {
		return nil, domain.NewInvalidInput("duration_hours",
			"%v h is too short to drive %v km between fuel stops", route.DurationHours, policy.FuelIntervalKm)
	}
	if err := b.run(); err != nil {
		return nil, err
	}

	return b.events, nil
}

type timelineBuilder struct {
	route  domain.RouteSegment
	policy Policy
	fuel   FuelPlanner
	state  *SchedulerState
	events []domain.DutyEvent

	total    time.Duration
	pickupAt time.Duration
	pickedUp bool
	maxSteps int
}

func newTimelineBuilder(route domain.RouteSegment, cycleUsedHours float64, start time.Time, policy Policy) *timelineBuilder {
	total := route.Duration()
	fuelStops := math.Ceil(route.DistanceKm / policy.FuelIntervalKm)
	return &timelineBuilder{
		route:    route,
		policy:   policy,
		fuel:     NewFuelPlanner(route, policy),
		state:    NewSchedulerState(start, cycleUsedHours),
		total:    total,
		pickupAt: time.Duration(math.Round(float64(total) * pickupFraction(route))),
		maxSteps: maxSimulationSteps + 4*int(min(fuelStops, 1e9)),
	}
}

func (b *timelineBuilder) run() error {
	stops := b.route.Stops

	if b.policy.ShiftStart > 0 {
		b.emit(domain.OffDuty, domain.EventOffDuty, b.policy.ShiftStart, "Off duty", &stops.Current)
	}

	if err := b.onDuty(domain.EventOnDuty, "", b.policy.PreTripDuration, "Pre-trip inspection (On Duty Not Driving)", stops.Current); err != nil {
		return err
	}

	for steps := 0; b.state.Driven < b.total; steps++ {
		if steps >= b.maxSteps {
			return b.unreachable("step limit exceeded")
		}

		if !b.pickedUp && b.state.Driven >= b.pickupAt {
			if err := b.pickup(); err != nil {
				return err
			}
			continue
		}

		remaining := b.total - b.state.Driven

		if b.fuel.Due(b.state, remaining) {
			stop := b.fuel.StopAt(b.odometerKm())
			if err := b.onDuty(domain.EventFuel, domain.StopFuel, b.fuel.StopDuration, stop.Name, stop); err != nil {
				return err
			}
			b.state.Refueled()
			continue
		}

		if rest := DueRest(b.state); rest != NoRest {
			if err := b.rest(rest); err != nil {
				return err
			}
			continue
		}

		inc := minDuration(remaining, DrivingHeadroom(b.state), b.fuel.UntilNext(b.state))
		if !b.pickedUp {
			inc = minDuration(inc, b.pickupAt-b.state.Driven)
		}
		if inc <= 0 {
			return b.unreachable(fmt.Sprintf("no driving increment available (remaining=%s)", remaining))
		}

		b.drive(inc)
	}

	if !b.pickedUp {
		if err := b.pickup(); err != nil {
			return err
		}
	}

	return b.onDuty(domain.EventOnDuty, domain.StopDropoff, b.policy.DropoffDuration, "Dropoff - unloading (On Duty Not Driving)", stops.Dropoff)
}

func (b *timelineBuilder) pickup() error {
	b.pickedUp = true
	return b.onDuty(domain.EventOnDuty, domain.StopPickup, b.policy.PickupDuration, "Pickup - loading (On Duty Not Driving)", b.route.Stops.Pickup)
}

func (b *timelineBuilder) drive(d time.Duration) {
	desc := "Driving to dropoff"
	if !b.pickedUp {
		desc = "Driving to pickup"
	}
	b.emit(domain.Driving, domain.EventDriving, d, desc, nil)
}

// onDuty works a fixed-length task, resting first when the task would cross
// the 14-hour window or the 70-hour cycle.
func (b *timelineBuilder) onDuty(typ domain.EventType, stop domain.StopType, d time.Duration, desc string, loc domain.Location) error {
	if d <= 0 {
		return nil
	}

	for attempt := 0; ; attempt++ {
		rest := RestBeforeDuty(b.state, d)
		if rest == NoRest {
			break
		}
		if attempt >= 2 {
			return b.unreachable(fmt.Sprintf("%s of %s does not fit after %s", typ, d, rest))
		}
		if err := b.rest(rest); err != nil {
			return err
		}
	}

	b.emit(domain.OnDutyNotDriving, typ, d, desc, &loc).Stop = stop
	return nil
}

// rest takes the minimum legal rest and checks that it cleared its rule.
func (b *timelineBuilder) rest(r Rest) error {
	status, typ, stop, desc := domain.OffDuty, domain.EventOffDuty, domain.StopRest, ""
	switch r {
	case BreakRest:
		typ, stop, desc = domain.EventBreak, "", "Mandatory 30-min break (8h driving rule)"
	case DailyReset:
		desc = "10-hour off-duty reset"
		if b.policy.RestInSleeper {
			status, typ, desc = domain.SleeperBerth, domain.EventSleeper, "10-hour sleeper berth rest"
		}
	case CycleRestart:
		typ, stop, desc = domain.EventRestart, domain.StopRestart, "34-hour restart (70-hour cycle)"
	default:
		return b.unreachable("rest requested without a rule")
	}

	odo := b.odometerKm()
	loc := domain.Location{
		Name:        fmt.Sprintf("Rest stop at %.0f km", odo),
		Coordinates: positionAt(b.route, odo),
	}
	b.emit(status, typ, r.Duration(), desc, &loc).Stop = stop

	cleared := true
	switch r {
	case BreakRest:
		cleared = !NeedsBreak(b.state)
	case DailyReset:
		cleared = !NeedsDailyReset(b.state) && !NeedsBreak(b.state)
	case CycleRestart:
		cleared = !NeedsCycleRestart(b.state)
	}
	if !cleared {
		return b.unreachable(fmt.Sprintf("%s did not reset its counters", r))
	}

	return nil
}

// emit appends an event starting at the current clock and advances the state.
// A driving increment directly after another extends it.
func (b *timelineBuilder) emit(status domain.DutyStatus, typ domain.EventType, d time.Duration, desc string, loc *domain.Location) *domain.DutyEvent {
	start := b.state.Clock
	odo := b.odometerKm()
	b.state.Apply(status, d)

	if n := len(b.events); n > 0 && status == domain.Driving {
		last := &b.events[n-1]
		if last.Status == domain.Driving && last.End.Equal(start) && last.Description == desc {
			last.End = b.state.Clock
			return last
		}
	}

	b.events = append(b.events, domain.DutyEvent{
		Status:      status,
		Type:        typ,
		Start:       start,
		End:         b.state.Clock,
		Description: desc,
		Location:    loc,
		OdometerKm:  odo,
	})
	return &b.events[len(b.events)-1]
}

func (b *timelineBuilder) odometerKm() float64 {
	if b.total <= 0 {
		return 0
	}
	return b.route.DistanceKm * float64(b.state.Driven) / float64(b.total)
}

func (b *timelineBuilder) unreachable(reason string) error {
	return &domain.UnreachableScheduleError{
		At:     fmt.Sprintf("%s (driven %s of %s)", b.state.Clock.Format(time.RFC3339), b.state.Driven, b.total),
		Reason: reason,
	}
}

// pickupFraction is the share of the route before the pickup point. Without a
// known first-leg distance it is estimated from great-circle leg lengths.
func pickupFraction(route domain.RouteSegment) float64 {
	if route.PickupDistanceKm > 0 {
		return route.PickupDistanceKm / route.DistanceKm
	}

	s := route.Stops
	leg1 := spatial.HaversineKm(s.Current.Coordinates, s.Pickup.Coordinates)
	leg2 := spatial.HaversineKm(s.Pickup.Coordinates, s.Dropoff.Coordinates)
	if leg1+leg2 <= 0 {
		return 0
	}
	return leg1 / (leg1 + leg2)
}
