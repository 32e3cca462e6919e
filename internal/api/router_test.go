package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-trip-planner/internal/adapters/routing"
	"hos-trip-planner/internal/api/dto"
	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/metrics"
	"hos-trip-planner/internal/ports"
	"hos-trip-planner/internal/services"
)

var (
	pune   = domain.Coordinates{Lon: 73.8567, Lat: 18.5204}
	mumbai = domain.Coordinates{Lon: 72.8777, Lat: 19.0760}
	jaipur = domain.Coordinates{Lon: 75.7873, Lat: 26.9124}
)

type testServer struct {
	handler http.Handler
	router  *routing.MockRouteProvider
}

func newTestServer(t *testing.T) testServer {
	t.Helper()

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	router := &routing.MockRouteProvider{Route: ports.RouteResult{
		DistanceKm:    1300,
		DurationHours: 20,
		Geometry:      []domain.Coordinates{pune, mumbai, jaipur},
		Legs:          []ports.RouteLeg{{DistanceKm: 150, DurationHours: 3}, {DistanceKm: 1150, DurationHours: 17}},
	}}

	h := NewRouter(Deps{
		Geocoder: routing.NewMockGeocoder(map[string]domain.Coordinates{
			"Pune": pune, "Mumbai": mumbai, "Jaipur": jaipur,
		}),
		Router:   router,
		Policy:   services.DefaultPolicy(),
		Logger:   zerolog.New(io.Discard),
		Metrics:  rec,
		Gatherer: reg,
	})
	return testServer{handler: h, router: router}
}

func (s testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func scheduleBody(km, hours, pickupKm, cycle float64) map[string]any {
	loc := func(name string, c domain.Coordinates) map[string]any {
		return map[string]any{"name": name, "latitude": c.Lat, "longitude": c.Lon}
	}
	return map[string]any{
		"route": map[string]any{
			"distance_km":        km,
			"duration_hours":     hours,
			"pickup_distance_km": pickupKm,
			"stops": map[string]any{
				"current": loc("Pune", pune),
				"pickup":  loc("Mumbai", mumbai),
				"dropoff": loc("Jaipur", jaipur),
			},
			"geometry": [][2]float64{pune.LatLng(), mumbai.LatLng(), jaipur.LatLng()},
		},
		"current_cycle_used": cycle,
		"start_date":         "2026-03-02",
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))

	rr = s.do(t, http.MethodPost, "/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestSchedule_MultiDayTrip(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/schedule", scheduleBody(2000, 22, 500, 0))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp dto.TripResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.Empty(t, resp.TripID)
	assert.Equal(t, "Pune", resp.CurrentLocation.Name)
	assert.Equal(t, 2000.0, resp.TotalDistanceKm)
	assert.Len(t, resp.RouteGeometry, 3)
	assert.Equal(t, []float64{1600}, resp.FuelStopsKm)

	require.Len(t, resp.Days, 2)
	assert.Equal(t, "2026-03-02", resp.Days[0].Date)
	assert.Equal(t, "2026-03-03", resp.Days[1].Date)
	assert.InDelta(t, 12.0, resp.Days[0].TotalDrivingHours, 1e-9)
	assert.InDelta(t, 56.5, resp.Days[0].CycleHoursRemaining, 1e-9)

	for _, d := range resp.Days {
		require.NotEmpty(t, d.Events)
		assert.Equal(t, "00:00", d.Events[0].Start)
		assert.Equal(t, "24:00", d.Events[len(d.Events)-1].End)
	}

	assert.Equal(t, 2, resp.Summary.TotalDays)
	assert.InDelta(t, 22.0, resp.Summary.TotalDrivingHours, 1e-9)

	var types []string
	for _, st := range resp.Stops {
		types = append(types, st.StopType)
	}
	assert.Equal(t, []string{"pickup", "rest", "fuel", "dropoff"}, types)

	require.NotEmpty(t, resp.Timeline)
	assert.Equal(t, "on_duty", resp.Timeline[0].Type)
	assert.Equal(t, "on_duty", resp.Timeline[len(resp.Timeline)-1].Type)
}

func TestSchedule_InvalidInput(t *testing.T) {
	s := newTestServer(t)

	cases := []struct {
		name string
		body any
	}{
		{"cycle above limit", scheduleBody(500, 6, 100, 75)},
		{"negative distance", scheduleBody(-1, 6, 0, 0)},
		{"pickup beyond dropoff", scheduleBody(500, 6, 600, 0)},
		{"unknown field", `{"route":{},"current_cycle_used":0,"extra":1}`},
		{"missing cycle", `{"route":{"distance_km":100,"duration_hours":2}}`},
		{"bad date", map[string]any{"route": map[string]any{}, "current_cycle_used": 0, "start_date": "02/03/2026"}},
		{"two objects", `{"current_cycle_used":0}{"current_cycle_used":0}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/schedule", tc.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, "Invalid input", body["error"])
			assert.NotEmpty(t, body["details"])
		})
	}
}

func TestPlanTrip(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/trips/plan", map[string]any{
		"current_location":   "Pune",
		"pickup_location":    "Mumbai",
		"dropoff_location":   "Jaipur",
		"current_cycle_used": 10,
		"start_date":         "2026-03-02",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp dto.TripResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.TripID)
	assert.Equal(t, "Mumbai", resp.PickupLocation.Name)
	assert.InDelta(t, jaipur.Lat, resp.DropoffLocation.Latitude, 1e-9)
	assert.Equal(t, 1300.0, resp.Summary.TotalDistanceKm)
	assert.Equal(t, 10.0, resp.Summary.CycleUsedAtStart)
	assert.Equal(t, 2, resp.Summary.TotalDays)
	assert.Equal(t, 1, s.router.Calls)

	require.NotEmpty(t, resp.Stops)
	assert.Equal(t, "pickup", resp.Stops[0].StopType)
	assert.Equal(t, 150.0, resp.Stops[0].DistanceFromStartKm)
}

func TestPlanTrip_Errors(t *testing.T) {
	t.Run("unknown location", func(t *testing.T) {
		s := newTestServer(t)
		rr := s.do(t, http.MethodPost, "/trips/plan", map[string]any{
			"current_location":   "Atlantis",
			"pickup_location":    "Mumbai",
			"dropoff_location":   "Jaipur",
			"current_cycle_used": 0,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "location not found")
		assert.Zero(t, s.router.Calls)
	})

	t.Run("empty location", func(t *testing.T) {
		s := newTestServer(t)
		rr := s.do(t, http.MethodPost, "/trips/plan", map[string]any{
			"current_location":   " ",
			"pickup_location":    "Mumbai",
			"dropoff_location":   "Jaipur",
			"current_cycle_used": 0,
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "current_location")
	})

	t.Run("routing failure is hidden", func(t *testing.T) {
		s := newTestServer(t)
		s.router.Err = errors.New("ors: status 502: bad gateway")
		rr := s.do(t, http.MethodPost, "/trips/plan", map[string]any{
			"current_location":   "Pune",
			"pickup_location":    "Mumbai",
			"dropoff_location":   "Jaipur",
			"current_cycle_used": 0,
		})
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
	})

	t.Run("wrong method", func(t *testing.T) {
		s := newTestServer(t)
		rr := s.do(t, http.MethodGet, "/trips/plan", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/schedule", scheduleBody(500, 6, 100, 0))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	s.do(t, http.MethodPost, "/schedule", scheduleBody(500, 6, 100, 90))

	rr = s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `hos_schedules_total{result="ok"} 1`)
	assert.Contains(t, body, `hos_schedules_total{result="invalid_input"} 1`)
	assert.Contains(t, body, `http_requests_total{method="POST",route="/schedule",status="200"} 1`)
}
