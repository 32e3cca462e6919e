package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
	"hos-trip-planner/internal/ports"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	Units       string      `json:"units"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Summary struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"summary"`
			Segments []struct {
				Distance float64 `json:"distance"`
				Duration float64 `json:"duration"`
			} `json:"segments"`
		} `json:"properties"`
	} `json:"features"`
}

// GetRoute fetches a driving route through the waypoints
// (/v2/directions/{profile}/geojson), consulting the route cache first.
func (o *ORSClient) GetRoute(ctx context.Context, waypoints []domain.Coordinates) (_ ports.RouteResult, err error) {
	defer obs.Time(ctx, "ors.GetRoute")(&err)

	if len(waypoints) < 2 {
		return ports.RouteResult{}, errors.New("get ORS route: at least two waypoints are required")
	}

	key := routeKey(o.profile, waypoints)
	if o.routeCache != nil {
		r, ok, err := o.routeCache.Get(ctx, key)
		if err != nil {
			return ports.RouteResult{}, fmt.Errorf("ORS get route cache: %w", err)
		}
		if ok {
			return r, nil
		}
	}

	r, err := o.fetchRoute(ctx, waypoints)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("fetching route: %w", err)
	}

	if o.routeCache != nil {
		if err := o.routeCache.Put(ctx, key, r); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("route_key", key).Msg("route cache write failed")
		}
	}

	return r, nil
}

func (o *ORSClient) fetchRoute(ctx context.Context, waypoints []domain.Coordinates) (ports.RouteResult, error) {
	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, o.profile)

	body := directionsRequest{Units: "m", Coordinates: make([][]float64, len(waypoints))}
	for i, w := range waypoints {
		body.Coordinates[i] = w.CoordsToList()
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return ports.RouteResult{}, fmt.Errorf("encode directions request: %w", err)
	}

	var decoded directionsResponse
	if err := o.getJSON(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, nil, payload)
	}, &decoded); err != nil {
		return ports.RouteResult{}, err
	}

	if len(decoded.Features) == 0 {
		return ports.RouteResult{}, errors.New("directions response has no route")
	}
	f := decoded.Features[0]

	r := ports.RouteResult{
		DistanceKm:    f.Properties.Summary.Distance / 1000,
		DurationHours: f.Properties.Summary.Duration / 3600,
		Geometry:      make([]domain.Coordinates, 0, len(f.Geometry.Coordinates)),
		Legs:          make([]ports.RouteLeg, 0, len(f.Properties.Segments)),
	}
	for _, c := range f.Geometry.Coordinates {
		if len(c) < 2 {
			return ports.RouteResult{}, fmt.Errorf("invalid geometry point %v", c)
		}
		r.Geometry = append(r.Geometry, domain.Coordinates{Lon: c[0], Lat: c[1]})
	}
	for _, s := range f.Properties.Segments {
		r.Legs = append(r.Legs, ports.RouteLeg{DistanceKm: s.Distance / 1000, DurationHours: s.Duration / 3600})
	}

	if r.DistanceKm <= 0 || r.DurationHours <= 0 {
		return ports.RouteResult{}, fmt.Errorf("directions response has empty summary (distance=%v duration=%v)",
			f.Properties.Summary.Distance, f.Properties.Summary.Duration)
	}

	return r, nil
}
