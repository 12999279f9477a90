package services

import (
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/myerrors"
)

// Pure transition guards for the trip state machine. Each apply function
// either mutates the trip or returns InvalidTransitionError leaving it
// untouched. Segment bookkeeping happens in the caller, under the trip's
// lane.

func invalid(event string, t *model.Trip, requires string) error {
	return &myerrors.InvalidTransitionError{
		Event:    event,
		Status:   t.Status,
		Phase:    t.Phase,
		Requires: requires,
	}
}

func applyStartDay(t *model.Trip, now time.Time) error {
	if t.Status != model.StatusAssigned {
		return invalid("start-day", t, "status=assigned")
	}

	t.Status = model.StatusStarted
	if t.TripType == model.TripTypeTrekDay {
		t.Phase = model.PhaseToTrekStart
	} else {
		t.Phase = model.PhaseToDestination
	}
	t.IsTrackingActive = true
	t.TrackingStartedAt = &now
	t.UpdatedAt = now
	return nil
}

func applyVisiting(t *model.Trip, now time.Time) error {
	if t.TripType != model.TripTypeTourDay {
		return invalid("visiting", t, "trip_type=tour_day (treks use start-trek)")
	}
	if t.Status != model.StatusStarted || t.Phase != model.PhaseToDestination {
		return invalid("visiting", t, "status=started, phase=to_destination")
	}

	t.Status = model.StatusVisiting
	t.Phase = model.PhaseAtDestination
	t.UpdatedAt = now
	return nil
}

func applyLinkDevice(t *model.Trip, deviceID string, now time.Time) error {
	if t.TripType != model.TripTypeTrekDay {
		return invalid("link-device", t, "trip_type=trek_day")
	}
	if t.Status != model.StatusStarted {
		return invalid("link-device", t, "status=started")
	}

	// status and phase are deliberately untouched
	t.LinkedDeviceID = deviceID
	t.DeviceLinkedAt = &now
	t.UpdatedAt = now
	return nil
}

func applyStartTrek(t *model.Trip, now time.Time) error {
	if t.TripType != model.TripTypeTrekDay {
		return invalid("start-trek", t, "trip_type=trek_day")
	}
	if t.Status != model.StatusStarted {
		return invalid("start-trek", t, "status=started")
	}
	if t.LinkedDeviceID == "" {
		return invalid("start-trek", t, "a linked tracking device")
	}

	t.Status = model.StatusVisiting
	t.Phase = model.PhaseTrekActive
	t.UpdatedAt = now
	return nil
}

func applyReturnToHotel(t *model.Trip, now time.Time) error {
	if t.TripType != model.TripTypeTourDay {
		return invalid("return-to-hotel", t, "trip_type=tour_day (treks use end-trek)")
	}
	if t.Status != model.StatusVisiting {
		return invalid("return-to-hotel", t, "status=visiting")
	}

	t.Status = model.StatusReturning
	t.Phase = model.PhaseToHotel
	t.UpdatedAt = now
	return nil
}

func applyEndTrek(t *model.Trip, now time.Time) error {
	if t.TripType != model.TripTypeTrekDay {
		return invalid("end-trek", t, "trip_type=trek_day")
	}
	if t.Status != model.StatusVisiting || t.Phase != model.PhaseTrekActive {
		return invalid("end-trek", t, "status=visiting, phase=trek_active")
	}

	t.Status = model.StatusReturning
	t.Phase = model.PhaseFromTrekEnd
	t.UpdatedAt = now
	return nil
}

func applyComplete(t *model.Trip, now time.Time) error {
	if t.Status != model.StatusReturning {
		return invalid("complete", t, "status=returning")
	}

	t.Status = model.StatusCompleted
	t.Phase = model.PhaseNone
	t.IsTrackingActive = false
	t.TrackingEndedAt = &now
	t.UpdatedAt = now
	return nil
}

func applyCancel(t *model.Trip, now time.Time) error {
	if t.Terminal() {
		return invalid("cancel", t, "a non-terminal status")
	}

	t.Status = model.StatusCancelled
	t.Phase = model.PhaseNone
	t.IsTrackingActive = false
	t.TrackingEndedAt = &now
	t.UpdatedAt = now
	return nil
}

// autoAdvance applies the location-driven transition for the trip's
// current phase when the fix is within the arrival radius of the phase
// target. It returns true when the phase advanced. Repeated fixes inside
// the radius are naturally idempotent: the first one moves the trip to a
// phase with a different target.
func autoAdvance(t *model.Trip, distanceM, radiusM float64, now time.Time) bool {
	if distanceM > radiusM {
		return false
	}

	switch t.Phase {
	case model.PhaseToDestination:
		return applyVisiting(t, now) == nil
	case model.PhaseToTrekStart:
		// same guard as the manual event: no device, no trek
		return applyStartTrek(t, now) == nil
	case model.PhaseToHotel, model.PhaseFromTrekEnd:
		return applyComplete(t, now) == nil
	}
	return false
}
