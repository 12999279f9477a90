package ports

import (
	"tourguard/internal/tracking-service/core/domain/dto"
	"tourguard/internal/tracking-service/core/domain/model"
)

// ITrackingService is the driver port the HTTP layer calls. Control
// events return the updated trip or an InvalidTransition error; location
// submissions always return a result describing what happened to the fix.
type ITrackingService interface {
	StartDay(tripID string, req dto.StartDayRequestDto) (*model.Trip, error)
	SubmitLocation(tripID string, fix dto.LocationFixDto) (dto.SubmitLocationResponseDto, error)

	MarkVisiting(tripID string) (*model.Trip, error)
	ReturnToHotel(tripID string, req dto.ReturnToHotelRequestDto) (*model.Trip, error)
	LinkDevice(tripID string, req dto.LinkDeviceRequestDto) (*model.Trip, error)
	StartTrek(tripID string, req dto.StartTrekRequestDto) (*model.Trip, *model.TrekPath, error)
	EndTrek(tripID string, req dto.EndTrekRequestDto) (*model.Trip, error)
	Cancel(tripID string) (*model.Trip, error)

	GetActiveRouteSegment(tripID string) (*model.RouteSegment, error)
	GetTripPhase(tripID string) (status, phase string, err error)
	GetTripStats(tripID string) (*model.TripStats, error)
}

// IGeofenceService is the driver port for the geofence read surface.
type IGeofenceService interface {
	CheckPoint(lat, lon float64) model.GeofenceEvaluation
	BlockAreas() []string
}
