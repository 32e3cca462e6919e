package domain

import "time"

// Represents one calendar day of a driver's log.
// A DaySheet is derived from a finalized timeline and never mutated afterwards.
// Its events cover exactly 24 hours, starting at Date.
type DaySheet struct {
	Date                time.Time
	Events              []DutyEvent
	TotalDrivingHours   float64
	TotalOnDutyHours    float64
	CycleHoursRemaining float64
}

// End returns the instant the sheet's day ends.
func (d DaySheet) End() time.Time { return d.Date.Add(24 * time.Hour) }

// Aggregate totals for a whole trip.
type TripSummary struct {
	TotalDistanceKm   float64
	TotalDrivingHours float64
	TotalDays         int
	CycleUsedAtStart  float64
}

type StopType string

const (
	StopPickup  StopType = "pickup"
	StopDropoff StopType = "dropoff"
	StopFuel    StopType = "fuel"
	StopRest    StopType = "rest"
	StopRestart StopType = "restart"
)

// A place along the route where the truck halts.
type TripStop struct {
	Type                StopType
	Name                string
	Coordinates         Coordinates
	DistanceFromStartKm float64
	ArriveAt            time.Time
}
