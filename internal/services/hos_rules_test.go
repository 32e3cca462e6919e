package services

import (
	"testing"
	"time"
)

func TestDueRestPriority(t *testing.T) {
	tests := []struct {
		name  string
		state SchedulerState
		want  Rest
	}{
		{"fresh", SchedulerState{}, NoRest},
		{"break", SchedulerState{SinceBreak: 8 * time.Hour}, BreakRest},
		{"driving limit", SchedulerState{ShiftDriving: 11 * time.Hour, SinceBreak: 8 * time.Hour}, DailyReset},
		{"window", SchedulerState{Window: 14 * time.Hour}, DailyReset},
		{"cycle beats all", SchedulerState{Cycle: 70 * time.Hour, Window: 14 * time.Hour, SinceBreak: 8 * time.Hour}, CycleRestart},
		{"just under", SchedulerState{ShiftDriving: 11*time.Hour - 1, Window: 14*time.Hour - 1, SinceBreak: 8*time.Hour - 1, Cycle: 70*time.Hour - 1}, NoRest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.state
			if got := DueRest(&s); got != tt.want {
				t.Fatalf("DueRest = %s, want %s", got, tt.want)
			}
			if got := CanDrive(&s); got != (tt.want == NoRest) {
				t.Fatalf("CanDrive = %v with due rest %s", got, tt.want)
			}
		})
	}
}

func TestDrivingHeadroom(t *testing.T) {
	s := SchedulerState{
		ShiftDriving: 3 * time.Hour,
		Window:       12 * time.Hour,
		SinceBreak:   time.Hour,
		Cycle:        20 * time.Hour,
	}
	if got := DrivingHeadroom(&s); got != 2*time.Hour {
		t.Fatalf("headroom = %s, want 2h (window bound)", got)
	}

	s.Cycle = 69*time.Hour + 30*time.Minute
	if got := DrivingHeadroom(&s); got != 30*time.Minute {
		t.Fatalf("headroom = %s, want 30m (cycle bound)", got)
	}
}

func TestRestBeforeDuty(t *testing.T) {
	s := SchedulerState{Window: 13 * time.Hour, Cycle: 60 * time.Hour}
	if got := RestBeforeDuty(&s, time.Hour); got != NoRest {
		t.Fatalf("1h task at 13h window: got %s", got)
	}
	if got := RestBeforeDuty(&s, 61*time.Minute); got != DailyReset {
		t.Fatalf("61m task at 13h window: got %s", got)
	}

	s.Cycle = 69*time.Hour + 30*time.Minute
	if got := RestBeforeDuty(&s, time.Hour); got != CycleRestart {
		t.Fatalf("1h task at 69.5h cycle: got %s", got)
	}
}

func TestRestDurations(t *testing.T) {
	want := map[Rest]time.Duration{
		NoRest:       0,
		BreakRest:    30 * time.Minute,
		DailyReset:   10 * time.Hour,
		CycleRestart: 34 * time.Hour,
	}
	for r, d := range want {
		if r.Duration() != d {
			t.Fatalf("%s duration = %s, want %s", r, r.Duration(), d)
		}
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}

	bad := []func(*Policy){
		func(p *Policy) { p.FuelIntervalKm = 0 },
		func(p *Policy) { p.PickupDuration = -time.Minute },
		func(p *Policy) { p.DropoffDuration = 15 * time.Hour },
		func(p *Policy) { p.ShiftStart = 24 * time.Hour },
	}
	for i, mutate := range bad {
		p := DefaultPolicy()
		mutate(&p)
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}
