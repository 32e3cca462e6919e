package routing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
)

type memGeocodeCache struct {
	rows   map[string]domain.Coordinates
	putErr error
}

func (m *memGeocodeCache) GetMany(_ context.Context, keys []string) (map[string]domain.Coordinates, error) {
	out := map[string]domain.Coordinates{}
	for _, k := range keys {
		if c, ok := m.rows[k]; ok {
			out[k] = c
		}
	}
	return out, nil
}

func (m *memGeocodeCache) PutMany(_ context.Context, rows map[string]domain.Coordinates) error {
	if m.putErr != nil {
		return m.putErr
	}
	if m.rows == nil {
		m.rows = map[string]domain.Coordinates{}
	}
	for k, v := range rows {
		m.rows[k] = v
	}
	return nil
}

type memRouteCache struct {
	rows map[string]ports.RouteResult
}

func (m *memRouteCache) Get(_ context.Context, key string) (ports.RouteResult, bool, error) {
	r, ok := m.rows[key]
	return r, ok, nil
}

func (m *memRouteCache) Put(_ context.Context, key string, r ports.RouteResult) error {
	if m.rows == nil {
		m.rows = map[string]ports.RouteResult{}
	}
	m.rows[key] = r
	return nil
}

func newTestClient(t *testing.T, h http.Handler, gc ports.GeocodeCache, rc ports.RouteCache) *ORSClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewORSClient(ORSConfig{APIKey: "key", BaseURL: srv.URL, Country: "IN"}, gc, rc)
	require.NoError(t, err)
	return c
}

func TestNewORSClientRequiresKey(t *testing.T) {
	_, err := NewORSClient(ORSConfig{APIKey: " "}, nil, nil)
	assert.Error(t, err)
}

func TestGeocodeRemoteAndCache(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/geocode/search", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("Authorization"))
		assert.Equal(t, "new delhi", r.URL.Query().Get("text"))
		assert.Equal(t, "IN", r.URL.Query().Get("boundary.country"))
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[77.209,28.6139]}}]}`))
	})

	gc := &memGeocodeCache{}
	c := newTestClient(t, h, gc, nil)

	got, err := c.Geocode(context.Background(), "  New  Delhi")
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: 77.209, Lat: 28.6139}, got)
	assert.Contains(t, gc.rows, "new delhi")

	_, err = c.Geocode(context.Background(), "new delhi")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGeocodeCacheWriteFailureIsIgnored(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[80.27,13.08]}}]}`))
	})
	c := newTestClient(t, h, &memGeocodeCache{putErr: errors.New("disk full")}, nil)

	_, err := c.Geocode(context.Background(), "chennai")
	assert.NoError(t, err)
}

func TestGeocodeNotFound(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	})
	c := newTestClient(t, h, nil, nil)

	_, err := c.Geocode(context.Background(), "atlantis")
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)

	_, err = c.Geocode(context.Background(), "   ")
	assert.True(t, domain.IsInvalidInput(err))
}

func TestGeocodeRetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"features":[{"geometry":{"coordinates":[72.87,19.07]}}]}`))
	})
	c := newTestClient(t, h, nil, nil)

	_, err := c.Geocode(context.Background(), "mumbai")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGeocodeDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"bad key"}`, http.StatusForbidden)
	})
	c := newTestClient(t, h, nil, nil)

	_, err := c.Geocode(context.Background(), "mumbai")
	require.Error(t, err)
	assert.True(t, isStatus(err, http.StatusForbidden))
	assert.Equal(t, int32(1), calls.Load())
}

const directionsBody = `{
  "features": [{
    "geometry": {"coordinates": [[77.59,12.97],[78.0,15.0],[72.87,19.07]]},
    "properties": {
      "summary": {"distance": 1000000, "duration": 54000},
      "segments": [
        {"distance": 250000, "duration": 13500},
        {"distance": 750000, "duration": 40500}
      ]
    }
  }]
}`

func TestGetRoute(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/directions/driving-hgv/geojson", r.URL.Path)

		var body directionsRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, [][]float64{{77.59, 12.97}, {78.0, 15.0}, {72.87, 19.07}}, body.Coordinates)

		_, _ = w.Write([]byte(directionsBody))
	})
	rc := &memRouteCache{}
	c := newTestClient(t, h, nil, rc)

	wps := []domain.Coordinates{{Lon: 77.59, Lat: 12.97}, {Lon: 78.0, Lat: 15.0}, {Lon: 72.87, Lat: 19.07}}
	r, err := c.GetRoute(context.Background(), wps)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, r.DistanceKm, 1e-9)
	assert.InDelta(t, 15.0, r.DurationHours, 1e-9)
	require.Len(t, r.Legs, 2)
	assert.InDelta(t, 250.0, r.Legs[0].DistanceKm, 1e-9)
	assert.Len(t, r.Geometry, 3)

	_, err = c.GetRoute(context.Background(), wps)
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Len(t, rc.rows, 1)
}

func TestGetRouteErrors(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"features":[]}`))
	})
	c := newTestClient(t, h, nil, nil)

	_, err := c.GetRoute(context.Background(), []domain.Coordinates{{Lon: 1, Lat: 1}})
	assert.Error(t, err)

	_, err = c.GetRoute(context.Background(), []domain.Coordinates{{Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}})
	assert.Error(t, err)
}

func TestDoWithRetryHonoursCancellation(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	c := newTestClient(t, h, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Geocode(ctx, "pune")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 2*time.Second, parseRetryAfter("2"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}
