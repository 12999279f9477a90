package ports

import (
	"context"

	"tourguard/internal/tracking-service/core/domain/model"
)

// Persistence is audit-trail only: the core's hot path never waits on a
// repo to decide a transition or a classification.

type ITripRepo interface {
	SaveTrip(ctx context.Context, trip *model.Trip) error
	LoadTrip(ctx context.Context, tripID string) (*model.Trip, error)
}

type ILocationRepo interface {
	InsertFix(ctx context.Context, fix *model.LocationFix) error
	// InsertRejectedRaw keeps a raw audit row for fixes the pipeline
	// dropped; they never reach trip state.
	InsertRejectedRaw(ctx context.Context, tripID string, lat, lon float64, reason string) error
}

type ISegmentRepo interface {
	InsertSegment(ctx context.Context, seg *model.RouteSegment) error
}

type IViolationRepo interface {
	OpenViolation(ctx context.Context, tripID string, areaID int64, lat, lon float64) error
	CloseViolation(ctx context.Context, tripID string, areaID int64) error
}

// IAreaSource is the Restricted Area Source collaborator. A fetch failure
// means "keep the last known snapshot", never a fatal error.
type IAreaSource interface {
	FetchActive(ctx context.Context) ([]model.RestrictedArea, error)
}

type ITrekPathRepo interface {
	GetByTrekID(ctx context.Context, trekID string) (*model.TrekPath, error)
}

type IDeviceRepo interface {
	FindByID(ctx context.Context, deviceID string) (*model.TrackingDevice, error)
	TouchLastSeen(ctx context.Context, deviceID string, lat, lon float64) error
}
