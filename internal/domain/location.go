package domain

import "strings"

// A named stop on a trip with its resolved coordinates.
type Location struct {
	Name string
	Coordinates
}

// NormalizeName collapses whitespace and case so that two spellings of the
// same address compare equal.
func NormalizeName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Coincides reports whether two locations describe the same place, either by
// name or by resolved coordinates.
func (l Location) Coincides(o Location) bool {
	if n := NormalizeName(l.Name); n != "" && n == NormalizeName(o.Name) {
		return true
	}
	if l.IsZero() || o.IsZero() {
		return false
	}
	return l.SameAs(o.Coordinates)
}
