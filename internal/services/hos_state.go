package services

import (
	"math"
	"time"

	"hos-trip-planner/internal/domain"
)

// SchedulerState is the simulated driver's clock and the rolling counters the
// rules key off. One state belongs to exactly one scheduling run.
type SchedulerState struct {
	Clock time.Time

	// Driving since the last qualifying daily reset.
	ShiftDriving time.Duration
	// Elapsed time since the duty period opened. Breaks and fuel stops do not
	// pause the 14-hour window.
	Window time.Duration
	// Driving since the last 30 consecutive minutes off duty or in the sleeper berth.
	SinceBreak time.Duration
	// On-duty time in the rolling 70-hour cycle.
	Cycle time.Duration
	// Driving since the last fuel stop.
	SinceFuel time.Duration
	// Driving since trip start.
	Driven time.Duration

	dutyOpen bool
	offDuty  time.Duration
}

// NewSchedulerState seeds a state with the hours already used in the cycle.
func NewSchedulerState(start time.Time, cycleUsedHours float64) *SchedulerState {
	return &SchedulerState{
		Clock: start,
		Cycle: hoursToDuration(cycleUsedHours),
	}
}

// Apply advances the clock by an event of the given status and length and
// updates every counter. Counter resets follow from consecutive off-duty or
// sleeper time only; on-duty work such as loading or fuelling never counts
// towards a break.
func (s *SchedulerState) Apply(status domain.DutyStatus, d time.Duration) {
	s.Clock = s.Clock.Add(d)

	if status.OnDuty() {
		s.dutyOpen = true
	}
	if s.dutyOpen {
		s.Window += d
	}

	switch status {
	case domain.Driving:
		s.ShiftDriving += d
		s.SinceBreak += d
		s.Cycle += d
		s.SinceFuel += d
		s.Driven += d
		s.offDuty = 0
	case domain.OnDutyNotDriving:
		s.Cycle += d
		s.offDuty = 0
	default:
		s.offDuty += d
	}

	if s.offDuty >= MinBreak {
		s.SinceBreak = 0
	}
	if s.offDuty >= DailyResetDuration {
		s.ShiftDriving = 0
		s.Window = 0
		s.SinceBreak = 0
		s.dutyOpen = false
	}
	if s.offDuty >= RestartDuration {
		s.Cycle = 0
	}
}

// Refueled marks a completed fuel stop.
func (s *SchedulerState) Refueled() { s.SinceFuel = 0 }

// CycleRemaining returns the on-duty hours left in the cycle, floored at zero.
func (s *SchedulerState) CycleRemaining() time.Duration {
	if s.Cycle >= CycleLimit {
		return 0
	}
	return CycleLimit - s.Cycle
}

func hoursToDuration(h float64) time.Duration {
	return time.Duration(math.Round(h * float64(time.Hour)))
}
