package dto

import "time"

type LocationDTO struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type PlanTripRequest struct {
	CurrentLocation  string   `json:"current_location"`
	PickupLocation   string   `json:"pickup_location"`
	DropoffLocation  string   `json:"dropoff_location"`
	CurrentCycleUsed *float64 `json:"current_cycle_used"`
	// YYYY-MM-DD; defaults to today (UTC).
	StartDate string `json:"start_date,omitempty"`
}

type RouteStopsDTO struct {
	Current LocationDTO `json:"current"`
	Pickup  LocationDTO `json:"pickup"`
	Dropoff LocationDTO `json:"dropoff"`
}

type RouteDTO struct {
	DistanceKm       float64       `json:"distance_km"`
	DurationHours    float64       `json:"duration_hours"`
	PickupDistanceKm float64       `json:"pickup_distance_km,omitempty"`
	Stops            RouteStopsDTO `json:"stops"`
	// Points as [lat, lng].
	Geometry [][2]float64 `json:"geometry,omitempty"`
}

type ScheduleRequest struct {
	Route            RouteDTO `json:"route"`
	CurrentCycleUsed *float64 `json:"current_cycle_used"`
	StartDate        string   `json:"start_date,omitempty"`
}

type StopResponse struct {
	StopType            string    `json:"stop_type"`
	Name                string    `json:"name"`
	Latitude            float64   `json:"latitude"`
	Longitude           float64   `json:"longitude"`
	DistanceFromStartKm float64   `json:"distance_from_start_km"`
	ArriveAt            time.Time `json:"arrive_at"`
}

// LogEventResponse is one event of a day sheet, clocked HH:MM within its day.
type LogEventResponse struct {
	Type        string `json:"type"`
	Status      string `json:"status"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description,omitempty"`
}

type DayResponse struct {
	Date                string             `json:"date"`
	Events              []LogEventResponse `json:"events"`
	TotalDrivingHours   float64            `json:"total_driving_hours"`
	TotalOnDutyHours    float64            `json:"total_on_duty_hours"`
	CycleHoursRemaining float64            `json:"cycle_hours_remaining"`
}

type SummaryResponse struct {
	TotalDistanceKm   float64 `json:"total_distance_km"`
	TotalDrivingHours float64 `json:"total_driving_hours"`
	TotalDays         int     `json:"total_days"`
	CycleUsedAtStart  float64 `json:"cycle_used_at_start"`
}

// TimelineEventResponse is one event of the unsplit timeline.
type TimelineEventResponse struct {
	Type        string       `json:"type"`
	Status      string       `json:"status"`
	Start       time.Time    `json:"start"`
	End         time.Time    `json:"end"`
	Description string       `json:"description"`
	Location    *LocationDTO `json:"location,omitempty"`
	OdometerKm  float64      `json:"odometer_km"`
}

type TripResponse struct {
	TripID             string                  `json:"trip_id"`
	CurrentLocation    LocationDTO             `json:"current_location"`
	PickupLocation     LocationDTO             `json:"pickup_location"`
	DropoffLocation    LocationDTO             `json:"dropoff_location"`
	RouteGeometry      [][2]float64            `json:"route_geometry"`
	TotalDistanceKm    float64                 `json:"total_distance_km"`
	TotalDurationHours float64                 `json:"total_duration_hours"`
	Stops              []StopResponse          `json:"stops"`
	Days               []DayResponse           `json:"days"`
	FuelStopsKm        []float64               `json:"fuel_stops_km"`
	Summary            SummaryResponse         `json:"summary"`
	Timeline           []TimelineEventResponse `json:"timeline"`
}
