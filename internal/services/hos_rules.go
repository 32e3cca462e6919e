package services

import (
	"errors"
	"fmt"
	"time"
)

// Property-carrying driver limits. Comparisons are made against these exact
// values; the simulation never samples or rounds.
const (
	MaxDrivingPerShift = 11 * time.Hour
	MaxDutyWindow      = 14 * time.Hour
	BreakAfterDriving  = 8 * time.Hour
	MinBreak           = 30 * time.Minute
	DailyResetDuration = 10 * time.Hour
	CycleLimit         = 70 * time.Hour
	RestartDuration    = 34 * time.Hour
)

// Policy holds the operational constants that regulations leave to the carrier.
type Policy struct {
	PreTripDuration  time.Duration `koanf:"pre_trip_duration"`
	PickupDuration   time.Duration `koanf:"pickup_duration"`
	DropoffDuration  time.Duration `koanf:"dropoff_duration"`
	FuelStopDuration time.Duration `koanf:"fuel_stop_duration"`
	FuelIntervalKm   float64       `koanf:"fuel_interval_km"`
	// Off-duty time before the first duty event of day one (e.g. 6h for a 06:00 start).
	ShiftStart time.Duration `koanf:"shift_start"`
	// Log daily resets in the sleeper berth instead of off duty.
	RestInSleeper bool `koanf:"rest_in_sleeper"`
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		PreTripDuration:  30 * time.Minute,
		PickupDuration:   time.Hour,
		DropoffDuration:  time.Hour,
		FuelStopDuration: 30 * time.Minute,
		FuelIntervalKm:   1600,
	}
}

// Validate rejects policies the scheduler cannot satisfy.
func (p Policy) Validate() error {
	tasks := map[string]time.Duration{
		"pre_trip_duration":  p.PreTripDuration,
		"pickup_duration":    p.PickupDuration,
		"dropoff_duration":   p.DropoffDuration,
		"fuel_stop_duration": p.FuelStopDuration,
	}
	for name, d := range tasks {
		if d < 0 || d > MaxDutyWindow {
			return fmt.Errorf("policy: %s must be within [0, %s], got %s", name, MaxDutyWindow, d)
		}
	}
	if p.FuelIntervalKm <= 0 {
		return errors.New("policy: fuel_interval_km must be positive")
	}
	if p.ShiftStart < 0 || p.ShiftStart >= 24*time.Hour {
		return fmt.Errorf("policy: shift_start must be within [0, 24h), got %s", p.ShiftStart)
	}
	return nil
}

// Rest is a mandatory off-duty period the rule set can demand.
type Rest int

const (
	NoRest Rest = iota
	BreakRest
	DailyReset
	CycleRestart
)

func (r Rest) String() string {
	switch r {
	case BreakRest:
		return "break"
	case DailyReset:
		return "daily_reset"
	case CycleRestart:
		return "cycle_restart"
	default:
		return "none"
	}
}

// Minimum legal length of the rest.
func (r Rest) Duration() time.Duration {
	switch r {
	case BreakRest:
		return MinBreak
	case DailyReset:
		return DailyResetDuration
	case CycleRestart:
		return RestartDuration
	default:
		return 0
	}
}

// CanDrive reports whether every limit still allows driving.
func CanDrive(s *SchedulerState) bool {
	return s.ShiftDriving < MaxDrivingPerShift &&
		s.Window < MaxDutyWindow &&
		s.SinceBreak < BreakAfterDriving &&
		s.Cycle < CycleLimit
}

// NeedsBreak reports whether 8 hours of driving have accumulated since the
// last qualifying 30-minute break.
func NeedsBreak(s *SchedulerState) bool { return s.SinceBreak >= BreakAfterDriving }

// NeedsDailyReset reports whether the 11-hour driving or 14-hour window limit is spent.
func NeedsDailyReset(s *SchedulerState) bool {
	return s.ShiftDriving >= MaxDrivingPerShift || s.Window >= MaxDutyWindow
}

// NeedsCycleRestart reports whether the 70-hour cycle is spent.
func NeedsCycleRestart(s *SchedulerState) bool { return s.Cycle >= CycleLimit }

// DueRest returns the rest required before further driving, highest priority
// first. A restart subsumes a daily reset, which subsumes a break.
func DueRest(s *SchedulerState) Rest {
	switch {
	case NeedsCycleRestart(s):
		return CycleRestart
	case NeedsDailyReset(s):
		return DailyReset
	case NeedsBreak(s):
		return BreakRest
	default:
		return NoRest
	}
}

// DrivingHeadroom is the longest driving increment that keeps every counter
// at or below its threshold.
func DrivingHeadroom(s *SchedulerState) time.Duration {
	return minDuration(
		MaxDrivingPerShift-s.ShiftDriving,
		MaxDutyWindow-s.Window,
		BreakAfterDriving-s.SinceBreak,
		CycleLimit-s.Cycle,
	)
}

// RestBeforeDuty returns the rest needed before an on-duty task of length d
// can be worked without crossing the window or cycle limit.
func RestBeforeDuty(s *SchedulerState, d time.Duration) Rest {
	switch {
	case s.Cycle+d > CycleLimit:
		return CycleRestart
	case s.Window+d > MaxDutyWindow:
		return DailyReset
	default:
		return NoRest
	}
}

func minDuration(first time.Duration, rest ...time.Duration) time.Duration {
	m := first
	for _, d := range rest {
		if d < m {
			m = d
		}
	}
	return m
}
