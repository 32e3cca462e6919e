package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"hos-trip-planner/internal/domain"
)

const day = 24 * time.Hour

// BuildDaySheets partitions a finalized timeline into 24-hour sheets counted
// from the first event.
//
// Events crossing midnight are split into one piece per day, and the last day
// is padded with off-duty time, so every sheet covers exactly 24 hours. Cycle
// hours remaining are found by replaying the pieces through a SchedulerState
// seeded with the hours used at trip start.
func BuildDaySheets(events []domain.DutyEvent, cycleUsedHours float64) ([]domain.DaySheet, error) {
	if len(events) == 0 {
		return nil, errors.New("build day sheets: empty timeline")
	}

	for i, e := range events {
		if !e.End.After(e.Start) {
			return nil, &domain.UnreachableScheduleError{
				At:     e.Start.Format(time.RFC3339),
				Reason: fmt.Sprintf("event %d (%s) has no duration", i, e.Type),
			}
		}
		if i > 0 && !e.Start.Equal(events[i-1].End) {
			return nil, &domain.UnreachableScheduleError{
				At:     e.Start.Format(time.RFC3339),
				Reason: fmt.Sprintf("event %d does not start where event %d ends", i, i-1),
			}
		}
	}

	origin := events[0].Start
	last := events[len(events)-1]
	nDays := int(math.Ceil(float64(last.End.Sub(origin)) / float64(day)))
	end := origin.Add(time.Duration(nDays) * day)

	timeline := events
	if last.End.Before(end) {
		timeline = append(append(make([]domain.DutyEvent, 0, len(events)+1), events...), domain.DutyEvent{
			Status:      domain.OffDuty,
			Type:        domain.EventOffDuty,
			Start:       last.End,
			End:         end,
			Description: "Off duty",
			OdometerKm:  last.OdometerKm,
		})
	}

	state := NewSchedulerState(origin, cycleUsedHours)
	sheets := make([]domain.DaySheet, 0, nDays)

	i := 0
	for d := 0; d < nDays; d++ {
		dayStart := origin.Add(time.Duration(d) * day)
		dayEnd := dayStart.Add(day)

		sheet := domain.DaySheet{Date: dayStart}
		var driving, onDuty []float64

		for i < len(timeline) && timeline[i].Start.Before(dayEnd) {
			e := timeline[i]
			piece := e
			if piece.Start.Before(dayStart) {
				piece.Start = dayStart
			}
			if piece.End.After(dayEnd) {
				piece.End = dayEnd
			}

			state.Apply(piece.Status, piece.Duration())
			sheet.Events = append(sheet.Events, piece)

			switch piece.Status {
			case domain.Driving:
				driving = append(driving, piece.Hours())
				onDuty = append(onDuty, piece.Hours())
			case domain.OnDutyNotDriving:
				onDuty = append(onDuty, piece.Hours())
			}

			// The rest of this event belongs to the next day.
			if e.End.After(dayEnd) {
				break
			}
			i++
		}

		sheet.TotalDrivingHours = floats.Sum(driving)
		sheet.TotalOnDutyHours = floats.Sum(onDuty)
		sheet.CycleHoursRemaining = state.CycleRemaining().Hours()
		sheets = append(sheets, sheet)
	}

	return sheets, nil
}

// Summarize derives the trip summary from the day sheets.
func Summarize(route domain.RouteSegment, days []domain.DaySheet, cycleUsedHours float64) domain.TripSummary {
	driving := make([]float64, len(days))
	for i, d := range days {
		driving[i] = d.TotalDrivingHours
	}

	return domain.TripSummary{
		TotalDistanceKm:   route.DistanceKm,
		TotalDrivingHours: floats.Sum(driving),
		TotalDays:         len(days),
		CycleUsedAtStart:  cycleUsedHours,
	}
}

// FormatClock renders t as HH:MM relative to the start of its log day,
// rounded to the minute. The end of the day is "24:00".
func FormatClock(t, dayStart time.Time) string {
	minutes := int(math.Round(t.Sub(dayStart).Minutes()))
	if minutes >= 24*60 {
		return "24:00"
	}
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// CollectStops lists the trip stops marked on a timeline, in route order.
func CollectStops(events []domain.DutyEvent) []domain.TripStop {
	stops := make([]domain.TripStop, 0, 4)
	for _, e := range events {
		if e.Stop == "" || e.Location == nil {
			continue
		}
		stops = append(stops, domain.TripStop{
			Type:                e.Stop,
			Name:                e.Location.Name,
			Coordinates:         e.Location.Coordinates,
			DistanceFromStartKm: e.OdometerKm,
			ArriveAt:            e.Start,
		})
	}
	return stops
}
