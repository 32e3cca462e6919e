package services

import (
	"fmt"
	"time"

	"hos-trip-planner/internal/domain"
)

// Schedule is the complete scheduler output for one route.
type Schedule struct {
	Route          domain.RouteSegment
	CycleUsedHours float64
	Events         []domain.DutyEvent
	Days           []domain.DaySheet
	Summary        domain.TripSummary
	Stops          []domain.TripStop
}

// BuildSchedule runs the timeline builder and the daily aggregator over a route.
func BuildSchedule(
	route domain.RouteSegment,
	cycleUsedHours float64,
	startDate time.Time,
	policy Policy,
) (*Schedule, error) {
	events, err := BuildTimeline(route, cycleUsedHours, startDate, policy)
	if err != nil {
		return nil, err
	}

	days, err := BuildDaySheets(events, cycleUsedHours)
	if err != nil {
		return nil, fmt.Errorf("build schedule: %w", err)
	}

	return &Schedule{
		Route:          route,
		CycleUsedHours: cycleUsedHours,
		Events:         events,
		Days:           days,
		Summary:        Summarize(route, days, cycleUsedHours),
		Stops:          CollectStops(events),
	}, nil
}

// FuelStopsKm returns the distance from trip start of every fuel stop.
func (s *Schedule) FuelStopsKm() []float64 {
	out := make([]float64, 0)
	for _, st := range s.Stops {
		if st.Type == domain.StopFuel {
			out = append(out, st.DistanceFromStartKm)
		}
	}
	return out
}

// Count returns how many events of the given type the timeline holds.
func (s *Schedule) Count(typ domain.EventType) int {
	n := 0
	for _, e := range s.Events {
		if e.Type == typ {
			n++
		}
	}
	return n
}
