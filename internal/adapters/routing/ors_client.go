package routing

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
)

// ORSConfig configures the OpenRouteService client.
type ORSConfig struct {
	APIKey  string
	BaseURL string
	// Routing profile, e.g. "driving-hgv".
	Profile string
	// ISO country code restricting geocoding results. Empty means worldwide.
	Country string
	Timeout time.Duration
}

// ORSClient implements Geocoder and RouteProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode and route caching
//   - External API calls with retry/backoff
//
// The client is safe for concurrent use.
type ORSClient struct {
	session      *http.Client
	apiKey       string
	baseURL      string
	profile      string
	country      string
	geocodeCache ports.GeocodeCache
	routeCache   ports.RouteCache
}

func NewORSClient(
	cfg ORSConfig,
	geocodeCache ports.GeocodeCache,
	routeCache ports.RouteCache,
) (*ORSClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	c := &ORSClient{
		session:      &http.Client{Timeout: 15 * time.Second},
		apiKey:       cfg.APIKey,
		baseURL:      "https://api.openrouteservice.org",
		profile:      "driving-hgv",
		country:      strings.TrimSpace(cfg.Country),
		geocodeCache: geocodeCache,
		routeCache:   routeCache,
	}
	if cfg.BaseURL != "" {
		c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	if cfg.Profile != "" {
		c.profile = cfg.Profile
	}
	if cfg.Timeout > 0 {
		c.session.Timeout = cfg.Timeout
	}

	return c, nil
}

// routeKey identifies a route by profile and waypoints rounded to ~1 m.
func routeKey(profile string, waypoints []domain.Coordinates) string {
	parts := make([]string, len(waypoints))
	for i, w := range waypoints {
		parts[i] = fmt.Sprintf("%.5f,%.5f", w.Lon, w.Lat)
	}
	return profile + "|" + strings.Join(parts, ";")
}
