package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"hos-trip-planner/internal/api/dto"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/metrics"
	"hos-trip-planner/internal/ports"
	"hos-trip-planner/internal/services"
)

// TripHandler serves trip planning and raw route scheduling.
type TripHandler struct {
	Geocoder ports.Geocoder
	Router   ports.RouteProvider
	Policy   services.Policy
	Metrics  *metrics.Recorder
}

// Plan geocodes the requested locations, routes through them and returns a
// compliant schedule with its day sheets.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PlanTripRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalid(w, r, err.Error())
		return
	}
	if req.CurrentCycleUsed == nil {
		writeInvalid(w, r, "current_cycle_used: is required")
		return
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		writeInvalid(w, r, err.Error())
		return
	}

	plan, err := services.PlanTrip(r.Context(), services.PlanTripRequest{
		CurrentLocation: req.CurrentLocation,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		CycleUsedHours:  *req.CurrentCycleUsed,
		StartDate:       start,
	}, h.Geocoder, h.Router, h.Policy)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.observe(plan.Schedule)
	writeJSON(w, r, http.StatusOK, dto.NewTripResponse(plan.ID.String(), plan.Schedule))
}

// Schedule plans a caller-supplied route without geocoding or routing.
func (h *TripHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ScheduleRequest
	if err := decodeBody(r, &req); err != nil {
		writeInvalid(w, r, err.Error())
		return
	}
	if req.CurrentCycleUsed == nil {
		writeInvalid(w, r, "current_cycle_used: is required")
		return
	}
	start, err := parseStartDate(req.StartDate)
	if err != nil {
		writeInvalid(w, r, err.Error())
		return
	}

	route := req.Route.Segment()
	if start.IsZero() {
		start = time.Now().UTC()
	}

	schedule, err := services.BuildSchedule(route, *req.CurrentCycleUsed, start, h.Policy)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	h.observe(schedule)
	writeJSON(w, r, http.StatusOK, dto.NewTripResponse("", schedule))
}

func (h *TripHandler) observe(s *services.Schedule) {
	h.Metrics.ObserveSchedule(len(s.Days), map[string]int{
		string(domain.EventBreak):   s.Count(domain.EventBreak),
		string(domain.EventSleeper): s.Count(domain.EventSleeper),
		string(domain.EventRestart): s.Count(domain.EventRestart),
		string(domain.EventFuel):    s.Count(domain.EventFuel),
	})
}

// writeServiceError maps planning errors to responses. Caller mistakes are
// 400s; everything else is logged and hidden behind a 500.
func (h *TripHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case domain.IsInvalidInput(err):
		h.Metrics.ScheduleFailed("invalid_input")
		writeInvalid(w, r, err.Error())
	case errors.Is(err, domain.ErrLocationNotFound):
		h.Metrics.ScheduleFailed("location_not_found")
		writeInvalid(w, r, err.Error())
	case domain.IsUnreachableSchedule(err):
		h.Metrics.ScheduleFailed("unreachable")
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("schedule did not converge")
		writeError(w, r, http.StatusInternalServerError, "schedule could not be computed")
	default:
		h.Metrics.ScheduleFailed("internal")
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("plan failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func writeInvalid(w http.ResponseWriter, r *http.Request, details string) {
	writeJSON(w, r, http.StatusBadRequest, map[string]string{
		"error":   "Invalid input",
		"details": details,
	})
}

func parseStartDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, errors.New("start_date: must be YYYY-MM-DD")
	}
	return t, nil
}
