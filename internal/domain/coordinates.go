package domain

import "math"

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// Return coordinates as [lat, lng], the order map clients expect.
func (c Coordinates) LatLng() [2]float64 { return [2]float64{c.Lat, c.Lon} }

// IsZero reports whether the coordinates were never resolved.
func (c Coordinates) IsZero() bool { return c.Lon == 0 && c.Lat == 0 }

// Valid reports whether the coordinates are finite and within WGS84 bounds.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

const coordTolerance = 1e-6

// SameAs reports whether two coordinates resolve to the same point.
func (c Coordinates) SameAs(o Coordinates) bool {
	return math.Abs(c.Lat-o.Lat) < coordTolerance && math.Abs(c.Lon-o.Lon) < coordTolerance
}
