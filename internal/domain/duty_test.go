package domain

import (
	"testing"
	"time"
)

func TestEventTypeGridStatus(t *testing.T) {
	cases := map[EventType]DutyStatus{
		EventDriving: Driving,
		EventOnDuty:  OnDutyNotDriving,
		EventFuel:    OnDutyNotDriving,
		EventOffDuty: OffDuty,
		EventBreak:   OffDuty,
		EventRestart: OffDuty,
		EventSleeper: SleeperBerth,
	}

	for typ, want := range cases {
		if got := typ.GridStatus(); got != want {
			t.Errorf("%s.GridStatus() = %v, want %v", typ, got, want)
		}
	}
}

func TestParseEventType(t *testing.T) {
	for _, s := range []string{"driving", "on_duty", "off_duty", "sleeper", "break", "fuel", "restart"} {
		typ, err := ParseEventType(s)
		if err != nil {
			t.Fatalf("ParseEventType(%q): unexpected error: %v", s, err)
		}
		if string(typ) != s {
			t.Fatalf("ParseEventType(%q) = %q", s, typ)
		}
	}

	if _, err := ParseEventType("lunch"); err == nil {
		t.Fatal("expected error for unknown type")
	}
}

func TestDutyStatusOnDuty(t *testing.T) {
	if !Driving.OnDuty() || !OnDutyNotDriving.OnDuty() {
		t.Fatal("driving and on-duty-not-driving must count as on duty")
	}
	if OffDuty.OnDuty() || SleeperBerth.OnDuty() {
		t.Fatal("off duty and sleeper berth must not count as on duty")
	}
	if got := DutyStatus(9).String(); got != "DutyStatus(9)" {
		t.Fatalf("String() = %q", got)
	}
}

func TestDutyEventHours(t *testing.T) {
	start := time.Date(2026, 2, 22, 6, 0, 0, 0, time.UTC)
	e := DutyEvent{Start: start, End: start.Add(90 * time.Minute)}
	if e.Hours() != 1.5 {
		t.Fatalf("Hours() = %v, want 1.5", e.Hours())
	}
}
