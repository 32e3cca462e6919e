package dto

import (
	"cmp"
	"math"
	"slices"
	"time"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/services"
)

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func toLocationDTO(l domain.Location) LocationDTO {
	return LocationDTO{Name: l.Name, Latitude: l.Lat, Longitude: l.Lon}
}

func fromLocationDTO(l LocationDTO) domain.Location {
	return domain.Location{
		Name:        l.Name,
		Coordinates: domain.Coordinates{Lat: l.Latitude, Lon: l.Longitude},
	}
}

// Segment converts the request route into scheduler input.
func (r RouteDTO) Segment() domain.RouteSegment {
	geometry := make([]domain.Coordinates, 0, len(r.Geometry))
	for _, p := range r.Geometry {
		geometry = append(geometry, domain.Coordinates{Lat: p[0], Lon: p[1]})
	}
	return domain.RouteSegment{
		DistanceKm:       r.DistanceKm,
		DurationHours:    r.DurationHours,
		PickupDistanceKm: r.PickupDistanceKm,
		Stops: domain.RouteStops{
			Current: fromLocationDTO(r.Stops.Current),
			Pickup:  fromLocationDTO(r.Stops.Pickup),
			Dropoff: fromLocationDTO(r.Stops.Dropoff),
		},
		Geometry: geometry,
	}
}

// DateLayout formats day-sheet dates.
const DateLayout = "2006-01-02"

// NewTripResponse renders a schedule. Stops are sorted by distance from
// start; hours are rounded to 2 decimals and distances to 1.
func NewTripResponse(tripID string, s *services.Schedule) TripResponse {
	route := s.Route

	geometry := make([][2]float64, 0, len(route.Geometry))
	for _, c := range route.Geometry {
		geometry = append(geometry, c.LatLng())
	}

	stops := make([]StopResponse, 0, len(s.Stops))
	for _, st := range s.Stops {
		stops = append(stops, StopResponse{
			StopType:            string(st.Type),
			Name:                st.Name,
			Latitude:            st.Coordinates.Lat,
			Longitude:           st.Coordinates.Lon,
			DistanceFromStartKm: round(st.DistanceFromStartKm, 1),
			ArriveAt:            st.ArriveAt,
		})
	}
	slices.SortStableFunc(stops, func(a, b StopResponse) int {
		return cmp.Compare(a.DistanceFromStartKm, b.DistanceFromStartKm)
	})

	days := make([]DayResponse, 0, len(s.Days))
	for _, d := range s.Days {
		events := make([]LogEventResponse, 0, len(d.Events))
		for _, e := range d.Events {
			start := services.FormatClock(e.Start, d.Date)
			end := services.FormatClock(e.End, d.Date)
			// Slivers under a minute would render as 10:15-10:15; the
			// neighbours already meet at that minute.
			if start == end {
				continue
			}
			events = append(events, LogEventResponse{
				Type:        string(e.Type),
				Status:      e.Status.String(),
				Start:       start,
				End:         end,
				Description: e.Description,
			})
		}
		days = append(days, DayResponse{
			Date:                d.Date.Format(DateLayout),
			Events:              events,
			TotalDrivingHours:   round(d.TotalDrivingHours, 2),
			TotalOnDutyHours:    round(d.TotalOnDutyHours, 2),
			CycleHoursRemaining: round(d.CycleHoursRemaining, 2),
		})
	}

	fuel := s.FuelStopsKm()
	for i := range fuel {
		fuel[i] = round(fuel[i], 1)
	}

	timeline := make([]TimelineEventResponse, 0, len(s.Events))
	for _, e := range s.Events {
		te := TimelineEventResponse{
			Type:        string(e.Type),
			Status:      e.Status.String(),
			Start:       e.Start.UTC().Truncate(time.Second),
			End:         e.End.UTC().Truncate(time.Second),
			Description: e.Description,
			OdometerKm:  round(e.OdometerKm, 1),
		}
		if e.Location != nil {
			l := toLocationDTO(*e.Location)
			te.Location = &l
		}
		timeline = append(timeline, te)
	}

	return TripResponse{
		TripID:             tripID,
		CurrentLocation:    toLocationDTO(route.Stops.Current),
		PickupLocation:     toLocationDTO(route.Stops.Pickup),
		DropoffLocation:    toLocationDTO(route.Stops.Dropoff),
		RouteGeometry:      geometry,
		TotalDistanceKm:    round(route.DistanceKm, 1),
		TotalDurationHours: round(route.DurationHours, 2),
		Stops:              stops,
		Days:               days,
		FuelStopsKm:        fuel,
		Summary: SummaryResponse{
			TotalDistanceKm:   round(s.Summary.TotalDistanceKm, 1),
			TotalDrivingHours: round(s.Summary.TotalDrivingHours, 2),
			TotalDays:         s.Summary.TotalDays,
			CycleUsedAtStart:  s.Summary.CycleUsedAtStart,
		},
		Timeline: timeline,
	}
}
