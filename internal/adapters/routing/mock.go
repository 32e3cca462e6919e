package routing

import (
	"context"
	"fmt"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
)

// MockGeocoder resolves addresses from a fixed table.
type MockGeocoder struct {
	m map[string]domain.Coordinates
}

func NewMockGeocoder(places map[string]domain.Coordinates) *MockGeocoder {
	m := make(map[string]domain.Coordinates, len(places))
	for k, v := range places {
		m[domain.NormalizeName(k)] = v
	}
	return &MockGeocoder{m: m}
}

func (g *MockGeocoder) Geocode(_ context.Context, address string) (domain.Coordinates, error) {
	c, ok := g.m[domain.NormalizeName(address)]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", address, domain.ErrLocationNotFound)
	}
	return c, nil
}

// MockRouteProvider returns a fixed route, or Err when set.
type MockRouteProvider struct {
	Route ports.RouteResult
	Err   error
	Calls int
}

func (p *MockRouteProvider) GetRoute(_ context.Context, waypoints []domain.Coordinates) (ports.RouteResult, error) {
	p.Calls++
	if p.Err != nil {
		return ports.RouteResult{}, p.Err
	}
	if len(waypoints) < 2 {
		return ports.RouteResult{}, fmt.Errorf("mock route: %d waypoints", len(waypoints))
	}
	return p.Route, nil
}
