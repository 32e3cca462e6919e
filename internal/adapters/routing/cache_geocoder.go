package routing

import (
	"context"
	"fmt"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
)

// CacheGeocoder resolves addresses from the geocode cache only. It serves
// seeded locations when no remote geocoder is configured.
type CacheGeocoder struct {
	Cache ports.GeocodeCache
}

func (g CacheGeocoder) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := domain.NormalizeName(address)
	if key == "" {
		return domain.Coordinates{}, domain.NewInvalidInput("address", "must not be empty")
	}

	hits, err := g.Cache.GetMany(ctx, []string{key})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("cache geocode %q: %w", key, err)
	}

	c, ok := hits[key]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("cache geocode %q: %w", address, domain.ErrLocationNotFound)
	}
	return c, nil
}
