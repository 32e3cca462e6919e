package ports

import (
	"context"

	"hos-trip-planner/internal/domain"
)

// Contract for resolving a free-text address to coordinates.
type Geocoder interface {
	// Return the coordinates of the address, or domain.ErrLocationNotFound.
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

// Persistent store of address -> coordinate lookups.
// Address keys are normalized by the caller.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
