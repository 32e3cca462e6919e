// Command hosplan schedules a single route offline and prints the duty log.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"hos-trip-planner/internal/api/dto"
	"hos-trip-planner/internal/config"
	"hos-trip-planner/internal/services"
)

type options struct {
	cfgPath   string
	routeFile string
	distance  float64
	hours     float64
	pickupKm  float64
	cycleUsed float64
	date      string
	format    string
}

func newRootCmd() *cobra.Command {
	var o options

	cmd := &cobra.Command{
		Use:   "hosplan",
		Short: "Build an HOS-compliant duty schedule for one route",
		Long: "Schedules a route given either as a JSON file (the /schedule request body)\n" +
			"or as distance and duration flags, and prints the day sheets.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), o, cmd.Flags().Changed("cycle"))
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.cfgPath, "config", "c", "", "configuration file with policy overrides")
	f.StringVarP(&o.routeFile, "route", "r", "", "JSON schedule request file")
	f.Float64Var(&o.distance, "distance", 0, "route distance in km")
	f.Float64Var(&o.hours, "hours", 0, "route driving time in hours")
	f.Float64Var(&o.pickupKm, "pickup-km", 0, "distance from start to pickup in km (0 estimates)")
	f.Float64Var(&o.cycleUsed, "cycle", 0, "cycle hours already used")
	f.StringVar(&o.date, "date", "", "trip start date YYYY-MM-DD (default today)")
	f.StringVarP(&o.format, "output", "o", "text", "output format: text or json")

	return cmd
}

func run(w io.Writer, o options, cycleSet bool) error {
	if o.format != "text" && o.format != "json" {
		return fmt.Errorf("unknown output format %q", o.format)
	}

	policy := services.DefaultPolicy()
	if o.cfgPath != "" {
		cfg, err := config.Load(o.cfgPath)
		if err != nil {
			return err
		}
		policy = cfg.Policy
	}

	req, err := loadRequest(o, cycleSet)
	if err != nil {
		return err
	}

	start := time.Now().UTC()
	if req.StartDate != "" {
		if start, err = time.Parse(dto.DateLayout, req.StartDate); err != nil {
			return fmt.Errorf("start date: %w", err)
		}
	}

	s, err := services.BuildSchedule(req.Route.Segment(), *req.CurrentCycleUsed, start, policy)
	if err != nil {
		return err
	}

	if o.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(dto.NewTripResponse("", s))
	}
	return renderText(w, s)
}

func loadRequest(o options, cycleSet bool) (dto.ScheduleRequest, error) {
	var req dto.ScheduleRequest

	if o.routeFile != "" {
		b, err := os.ReadFile(o.routeFile)
		if err != nil {
			return req, fmt.Errorf("read route: %w", err)
		}
		if err := json.Unmarshal(b, &req); err != nil {
			return req, fmt.Errorf("parse route %q: %w", o.routeFile, err)
		}
	} else {
		if o.distance <= 0 || o.hours <= 0 {
			return req, errors.New("either --route or both --distance and --hours are required")
		}
		req.Route = dto.RouteDTO{
			DistanceKm:       o.distance,
			DurationHours:    o.hours,
			PickupDistanceKm: o.pickupKm,
			Stops: dto.RouteStopsDTO{
				Current: dto.LocationDTO{Name: "Start"},
				Pickup:  dto.LocationDTO{Name: "Pickup"},
				Dropoff: dto.LocationDTO{Name: "Dropoff"},
			},
		}
	}

	if cycleSet || req.CurrentCycleUsed == nil {
		c := o.cycleUsed
		req.CurrentCycleUsed = &c
	}
	if o.date != "" {
		req.StartDate = o.date
	}
	return req, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
