package services

import (
	"testing"
	"time"

	"hos-trip-planner/internal/domain"
)

var tripDate = time.Date(2026, 3, 2, 15, 4, 0, 0, time.UTC)

func testRoute(distanceKm, hours, pickupKm float64) domain.RouteSegment {
	return domain.RouteSegment{
		DistanceKm:       distanceKm,
		DurationHours:    hours,
		PickupDistanceKm: pickupKm,
		Stops: domain.RouteStops{
			Current: domain.Location{Name: "Bengaluru", Coordinates: domain.Coordinates{Lon: 77.5946, Lat: 12.9716}},
			Pickup:  domain.Location{Name: "Hyderabad", Coordinates: domain.Coordinates{Lon: 78.4867, Lat: 17.3850}},
			Dropoff: domain.Location{Name: "Delhi", Coordinates: domain.Coordinates{Lon: 77.2090, Lat: 28.6139}},
		},
	}
}

func countType(events []domain.DutyEvent, typ domain.EventType) int {
	n := 0
	for _, e := range events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

func drivingTotal(events []domain.DutyEvent) time.Duration {
	var d time.Duration
	for _, e := range events {
		if e.Status == domain.Driving {
			d += e.Duration()
		}
	}
	return d
}

// checkCompliance replays a timeline with counters kept independently of
// SchedulerState and fails on any limit violation.
func checkCompliance(t *testing.T, events []domain.DutyEvent, cycleUsedHours float64) {
	t.Helper()

	if len(events) == 0 {
		t.Fatal("empty timeline")
	}

	var (
		shiftDriving, sinceBreak time.Duration
		cycle                    = time.Duration(cycleUsedHours * float64(time.Hour))
		windowOpen               time.Time
		dutyOpen                 bool
		offDuty                  time.Duration
	)

	for i, e := range events {
		if i > 0 && !e.Start.Equal(events[i-1].End) {
			t.Fatalf("event %d starts at %s, previous ends at %s", i, e.Start, events[i-1].End)
		}
		if !e.End.After(e.Start) {
			t.Fatalf("event %d (%s) has non-positive length", i, e.Type)
		}
		if e.Type == domain.EventRestart && e.Duration() < RestartDuration {
			t.Fatalf("restart at %d lasts %s", i, e.Duration())
		}

		d := e.Duration()
		switch e.Status {
		case domain.Driving:
			if !dutyOpen {
				dutyOpen, windowOpen = true, e.Start
			}
			shiftDriving += d
			sinceBreak += d
			cycle += d
			offDuty = 0

			if shiftDriving > MaxDrivingPerShift {
				t.Fatalf("event %d: %s driving since last reset", i, shiftDriving)
			}
			if sinceBreak > BreakAfterDriving {
				t.Fatalf("event %d: %s driving since last break", i, sinceBreak)
			}
			if w := e.End.Sub(windowOpen); w > MaxDutyWindow {
				t.Fatalf("event %d: driving at %s into the duty window", i, w)
			}
		case domain.OnDutyNotDriving:
			if !dutyOpen {
				dutyOpen, windowOpen = true, e.Start
			}
			cycle += d
			offDuty = 0
		default:
			offDuty += d
		}

		if cycle > CycleLimit {
			t.Fatalf("event %d: cycle at %s", i, cycle)
		}
		if offDuty >= MinBreak {
			sinceBreak = 0
		}
		if offDuty >= DailyResetDuration {
			shiftDriving, sinceBreak, dutyOpen = 0, 0, false
		}
		if offDuty >= RestartDuration {
			cycle = 0
		}
	}
}
