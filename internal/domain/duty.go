package domain

import (
	"fmt"
	"time"
)

// MaxCycleHours is the on-duty limit of the rolling 8-day cycle.
const MaxCycleHours = 70.0

// DutyStatus is one of the four rows of an ELD log grid.
type DutyStatus int

const (
	OffDuty DutyStatus = iota
	SleeperBerth
	Driving
	OnDutyNotDriving
)

var dutyStatusNames = [...]string{
	OffDuty:          "off_duty",
	SleeperBerth:     "sleeper_berth",
	Driving:          "driving",
	OnDutyNotDriving: "on_duty_not_driving",
}

func (s DutyStatus) String() string {
	if s < 0 || int(s) >= len(dutyStatusNames) {
		return fmt.Sprintf("DutyStatus(%d)", int(s))
	}
	return dutyStatusNames[s]
}

// OnDuty reports whether time in this status counts against the window and cycle.
func (s DutyStatus) OnDuty() bool { return s == Driving || s == OnDutyNotDriving }

// MarshalText encodes the status by name.
func (s DutyStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// EventType is the subtype of a duty event. The set is closed.
type EventType string

const (
	EventDriving EventType = "driving"
	EventOnDuty  EventType = "on_duty"
	EventOffDuty EventType = "off_duty"
	EventSleeper EventType = "sleeper"
	EventBreak   EventType = "break"
	EventFuel    EventType = "fuel"
	EventRestart EventType = "restart"
)

// ParseEventType returns the EventType named by s.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(s); t {
	case EventDriving, EventOnDuty, EventOffDuty, EventSleeper, EventBreak, EventFuel, EventRestart:
		return t, nil
	}
	return "", fmt.Errorf("parse event type: unknown type %q", s)
}

// GridStatus is the log-grid row a renderer draws this event on.
// Breaks and restarts are off duty; fuel stops are on duty.
func (t EventType) GridStatus() DutyStatus {
	switch t {
	case EventDriving:
		return Driving
	case EventOnDuty, EventFuel:
		return OnDutyNotDriving
	case EventSleeper:
		return SleeperBerth
	default:
		return OffDuty
	}
}

// Represents one contiguous duty-status segment of a trip timeline.
type DutyEvent struct {
	Status      DutyStatus
	Type        EventType
	Start       time.Time
	End         time.Time
	Description string
	// Location is set for stationary events tied to a place.
	Location *Location
	// Stop is set when the event halts the truck at a trip stop.
	Stop StopType
	// Distance driven since trip start when the event begins.
	OdometerKm float64
}

// Duration returns the length of the event.
func (e DutyEvent) Duration() time.Duration { return e.End.Sub(e.Start) }

// Hours returns the length of the event in fractional hours.
func (e DutyEvent) Hours() float64 { return e.Duration().Hours() }
