package domain

import (
	"errors"
	"fmt"
)

// ErrLocationNotFound is returned by geocoders when an address cannot be resolved.
var ErrLocationNotFound = errors.New("location not found")

// InvalidInputError reports caller input the scheduler cannot plan against.
// It is never retried; the input must be corrected.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// NewInvalidInput builds an InvalidInputError with a formatted reason.
func NewInvalidInput(field, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnreachableScheduleError signals that the simulation stopped making forward
// progress. It indicates an engine defect, not a user error.
type UnreachableScheduleError struct {
	At     string
	Reason string
}

func (e *UnreachableScheduleError) Error() string {
	return fmt.Sprintf("unreachable schedule at %s: %s", e.At, e.Reason)
}

// IsInvalidInput reports whether err wraps an InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}

// IsUnreachableSchedule reports whether err wraps an UnreachableScheduleError.
func IsUnreachableSchedule(err error) bool {
	var ue *UnreachableScheduleError
	return errors.As(err, &ue)
}
