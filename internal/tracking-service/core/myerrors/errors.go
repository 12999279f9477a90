package myerrors

import (
	"errors"
	"fmt"
)

var (
	ErrTripNotFound       = errors.New("trip not found")
	ErrMalformedFix       = errors.New("malformed fix")
	ErrStaleFix           = errors.New("stale fix")
	ErrInactiveTrip       = errors.New("trip is not accepting updates")
	ErrMissingSpatialData = errors.New("restricted area data unavailable")
	ErrDeviceNotFound     = errors.New("tracking device not found")
	ErrDeviceUnauthorized = errors.New("tracking device key mismatch")
)

// ErrInvalidTransition is the errors.Is target for all rejected control
// events; the concrete value carries the context.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError names the attempted event, the state the trip
// was in, and the guard that failed. The trip is left unmodified.
type InvalidTransitionError struct {
	Event    string
	Status   string
	Phase    string
	Requires string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while status=%s phase=%s: requires %s",
		e.Event, e.Status, e.Phase, e.Requires)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// RejectionReason maps a pipeline error to the wire-level rejection name,
// empty for unclassified errors.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrMalformedFix):
		return "MalformedFix"
	case errors.Is(err, ErrStaleFix):
		return "StaleFix"
	case errors.Is(err, ErrInactiveTrip):
		return "InactiveTrip"
	case errors.Is(err, ErrInvalidTransition):
		return "InvalidTransition"
	case errors.Is(err, ErrMissingSpatialData):
		return "MissingSpatialData"
	}
	return ""
}
