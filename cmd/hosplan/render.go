package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"hos-trip-planner/internal/api/dto"
	"hos-trip-planner/internal/services"
)

// renderText prints one block per log day followed by the trip summary.
func renderText(w io.Writer, s *services.Schedule) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	for i, d := range s.Days {
		fmt.Fprintf(tw, "Day %d  %s  driving %.2fh  on duty %.2fh  cycle left %.2fh\n",
			i+1, d.Date.Format(dto.DateLayout), d.TotalDrivingHours, d.TotalOnDutyHours, d.CycleHoursRemaining)
		for _, e := range d.Events {
			start, end := services.FormatClock(e.Start, d.Date), services.FormatClock(e.End, d.Date)
			if start == end {
				continue
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", start, end, e.Status, e.Description)
		}
		fmt.Fprintln(tw)
	}

	fuel := make([]string, 0)
	for _, km := range s.FuelStopsKm() {
		fuel = append(fuel, fmt.Sprintf("%.0f", km))
	}

	sum := s.Summary
	fmt.Fprintf(tw, "Total: %.1f km, %.2f h driving, %d days, fuel stops at [%s] km\n",
		sum.TotalDistanceKm, sum.TotalDrivingHours, sum.TotalDays, strings.Join(fuel, " "))

	return tw.Flush()
}
