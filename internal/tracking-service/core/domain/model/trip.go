package model

import (
	"time"

	"tourguard/internal/tracking-service/core/geo"
)

const (
	TripTypeTourDay = "tour_day"
	TripTypeTrekDay = "trek_day"

	StatusAssigned  = "assigned"
	StatusStarted   = "started"
	StatusVisiting  = "visiting"
	StatusReturning = "returning"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	// tour_day phases
	PhaseToDestination = "to_destination"
	PhaseAtDestination = "at_destination"
	PhaseToHotel       = "to_hotel"

	// trek_day phases
	PhaseToTrekStart = "to_trek_start"
	PhaseTrekActive  = "trek_active"
	PhaseFromTrekEnd = "from_trek_end"

	// terminal
	PhaseNone = "none"
)

// Trip is the authoritative tracking state of one tourist day. It is
// owned by the trip state machine and mutated only under the trip's
// execution lane.
type Trip struct {
	ID        string
	TouristID string
	TripType  string
	Status    string
	Phase     string

	Hotel           geo.Point
	HotelName       string
	Destination     *geo.Point
	DestinationName string
	TrekID          string
	TrekStart       *geo.Point
	TrekEnd         *geo.Point

	LinkedDeviceID string
	DeviceLinkedAt *time.Time

	IsTrackingActive  bool
	TrackingStartedAt *time.Time
	TrackingEndedAt   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the trip no longer accepts mutations.
func (t *Trip) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}

// ArrivalTarget returns the point the current phase is traveling toward,
// or nil when the phase has no location-driven transition.
func (t *Trip) ArrivalTarget() *geo.Point {
	switch t.Phase {
	case PhaseToDestination:
		return t.Destination
	case PhaseToTrekStart:
		return t.TrekStart
	case PhaseToHotel, PhaseFromTrekEnd:
		hotel := t.Hotel
		return &hotel
	}
	return nil
}
