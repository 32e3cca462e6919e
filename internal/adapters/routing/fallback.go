package routing

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"hos-trip-planner/internal/domain"
	"hos-trip-planner/internal/ports"
)

// FallbackRouteProvider asks Primary first and Fallback when it fails.
// Context cancellation is never masked.
type FallbackRouteProvider struct {
	Primary  ports.RouteProvider
	Fallback ports.RouteProvider
}

func (f FallbackRouteProvider) GetRoute(ctx context.Context, waypoints []domain.Coordinates) (ports.RouteResult, error) {
	if f.Primary != nil {
		r, err := f.Primary.GetRoute(ctx, waypoints)
		if err == nil {
			return r, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return ports.RouteResult{}, err
		}
		zerolog.Ctx(ctx).Warn().Err(err).Msg("primary route provider failed, using fallback")
	}
	return f.Fallback.GetRoute(ctx, waypoints)
}
