package routing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocode resolves an address through the geocode cache, then
// OpenRouteService (/geocode/search). Fresh results are written back to the
// cache; a failed cache write is logged and does not fail the lookup.
func (o *ORSClient) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	key := domain.NormalizeName(address)
	if key == "" {
		return domain.Coordinates{}, domain.NewInvalidInput("address", "must not be empty")
	}

	if o.geocodeCache != nil {
		hits, err := o.geocodeCache.GetMany(ctx, []string{key})
		if err != nil {
			return domain.Coordinates{}, fmt.Errorf("ORS get geocode cache: %w", err)
		}
		if c, ok := hits[key]; ok {
			return c, nil
		}
	}

	c, err := o.geocodeRemote(ctx, key)
	if err != nil {
		return domain.Coordinates{}, err
	}

	if o.geocodeCache != nil {
		if err := o.geocodeCache.PutMany(ctx, map[string]domain.Coordinates{key: c}); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("address", key).Msg("geocode cache write failed")
		}
	}

	return c, nil
}

func (o *ORSClient) geocodeRemote(ctx context.Context, text string) (domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"
	query := map[string]string{"text": text, "size": "1"}
	if o.country != "" {
		query["boundary.country"] = o.country
	}

	var decoded geocodeResponse
	err := o.getJSON(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodGet, endpoint, query, nil)
	}, &decoded)
	if isStatus(err, http.StatusNotFound) {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", text, domain.ErrLocationNotFound)
	}
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", text, err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q: %w", text, domain.ErrLocationNotFound)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) < 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", text)
	}

	c := domain.Coordinates{Lon: coords[0], Lat: coords[1]}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: coordinates out of range: %v", text, coords)
	}
	return c, nil
}
