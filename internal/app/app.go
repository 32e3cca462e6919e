// Package app assembles the service's concrete adapters from configuration.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"hos-trip-planner/internal/adapters/cache"
	"hos-trip-planner/internal/adapters/repositories"
	"hos-trip-planner/internal/adapters/routing"
	"hos-trip-planner/internal/config"
	"hos-trip-planner/internal/platform/db"
	"hos-trip-planner/internal/ports"
)

// Store is the database behind the geocode and route caches.
type Store struct {
	DB       *sql.DB
	Dialect  cache.Dialect
	Geocodes *cache.SQLGeocodeCache
	Routes   *cache.SQLRouteCache
}

// OpenStore connects to Postgres when a database URL is configured and to the
// local SQLite file otherwise.
func OpenStore(cfg *config.Config) (*Store, error) {
	var (
		conn    *sql.DB
		dialect cache.Dialect
		err     error
	)
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(cfg.DatabaseURL)
		dialect = cache.Postgres
	} else {
		conn, err = db.OpenSQLite(cfg.DBPath)
		dialect = cache.SQLite
	}
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Store{
		DB:       conn,
		Dialect:  dialect,
		Geocodes: cache.NewSQLGeocodeCache(conn, dialect),
		Routes:   cache.NewSQLRouteCache(conn, dialect, cfg.RouteCacheTTL),
	}, nil
}

func (s *Store) Close() error { return s.DB.Close() }

// Init creates the schema and loads the seed file when it exists. It returns
// the number of seeded locations.
func (s *Store) Init(ctx context.Context, seedPath string) (int, error) {
	if err := repositories.InitSchema(ctx, s.DB); err != nil {
		return 0, err
	}
	if seedPath == "" {
		return 0, nil
	}
	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	return repositories.SeedKnownLocations(ctx, s.Geocodes, seedPath)
}

// Providers returns the geocoder and route provider for the configuration.
//
// With an ORS key both are backed by OpenRouteService, and routing falls back
// to a straight-line estimate when ORS fails. Without one, only cached or
// seeded places resolve and every route is estimated.
func Providers(cfg *config.Config, s *Store, log zerolog.Logger) (ports.Geocoder, ports.RouteProvider, error) {
	estimate := routing.NewEstimateRouteProvider()

	if cfg.ORSAPIKey == "" {
		log.Warn().Msg("ORS_API_KEY not set; geocoding from cache only, routes estimated")
		return routing.CacheGeocoder{Cache: s.Geocodes}, estimate, nil
	}

	ors, err := routing.NewORSClient(routing.ORSConfig{
		APIKey:  cfg.ORSAPIKey,
		BaseURL: cfg.ORSBaseURL,
		Profile: cfg.ORSProfile,
		Country: cfg.ORSCountry,
	}, s.Geocodes, s.Routes)
	if err != nil {
		return nil, nil, fmt.Errorf("providers: %w", err)
	}

	return ors, routing.FallbackRouteProvider{Primary: ors, Fallback: estimate}, nil
}
