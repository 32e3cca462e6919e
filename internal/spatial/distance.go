// Package spatial holds the great-circle helpers used to place stops along a
// route polyline and to estimate routes when no routing service is reachable.
package spatial

import (
	"hos-trip-planner/internal/domain"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

const EarthRadiusKm = 6371.0

func latLng(c domain.Coordinates) s2.LatLng { return s2.LatLngFromDegrees(c.Lat, c.Lon) }

// HaversineKm returns the great-circle distance between two points in kilometres.
func HaversineKm(a, b domain.Coordinates) float64 {
	return latLng(a).Distance(latLng(b)).Radians() * EarthRadiusKm
}

// PathLengthKm sums the great-circle lengths of consecutive polyline segments.
func PathLengthKm(path []domain.Coordinates) float64 {
	var total s1.Angle
	for i := 1; i < len(path); i++ {
		total += latLng(path[i-1]).Distance(latLng(path[i]))
	}
	return total.Radians() * EarthRadiusKm
}

// InterpolateAlong returns the point at fraction f (0..1) of the polyline's length.
//
// Road distance and polyline length rarely agree, so callers pass the fraction of
// the road distance travelled rather than kilometres.
func InterpolateAlong(path []domain.Coordinates, f float64) domain.Coordinates {
	switch {
	case len(path) == 0:
		return domain.Coordinates{}
	case f <= 0 || len(path) == 1:
		return path[0]
	case f >= 1:
		return path[len(path)-1]
	}

	target := s1.Angle(f * float64(PathLengthKm(path)/EarthRadiusKm))

	var walked s1.Angle
	for i := 1; i < len(path); i++ {
		a, b := latLng(path[i-1]), latLng(path[i])
		seg := a.Distance(b)
		if walked+seg >= target {
			if seg == 0 {
				return path[i]
			}
			t := float64((target - walked) / seg)
			p := s2.Interpolate(t, s2.PointFromLatLng(a), s2.PointFromLatLng(b))
			ll := s2.LatLngFromPoint(p)
			return domain.Coordinates{Lat: ll.Lat.Degrees(), Lon: ll.Lng.Degrees()}
		}
		walked += seg
	}

	return path[len(path)-1]
}
