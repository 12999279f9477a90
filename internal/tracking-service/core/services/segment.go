package services

import (
	"fmt"
	"math/rand"
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
)

// newSegment opens a route segment for the given phase.
func newSegment(tripID, phase string, now time.Time) *model.RouteSegment {
	return &model.RouteSegment{
		ID:          generateSegmentID(),
		TripID:      tripID,
		SegmentType: phase,
		StartedAt:   now,
	}
}

// appendFix folds one accepted fix into an open segment: cumulative
// haversine distance, running average speed and max instantaneous speed.
// The reported speed field wins when present, otherwise speed is derived
// from the previous fix.
func appendFix(seg *model.RouteSegment, fix *model.LocationFix) {
	if seg == nil || seg.IsCompleted {
		return
	}

	prev := seg.EndFix
	if seg.StartFix == nil {
		seg.StartFix = fix
	}
	seg.EndFix = fix
	seg.FixCount++

	if prev != nil {
		seg.TotalDistanceMeters += geo.Haversine(prev.Point(), fix.Point())
	}
	seg.TotalDurationSeconds = fix.Timestamp.Sub(seg.StartFix.Timestamp).Seconds()
	if seg.TotalDurationSeconds > 0 {
		seg.AvgSpeedMS = seg.TotalDistanceMeters / seg.TotalDurationSeconds
	}

	speed := instantSpeed(prev, fix)
	if speed > seg.MaxSpeedMS {
		seg.MaxSpeedMS = speed
	}
}

// closeSegment finalizes a segment. A zero-fix segment closes with all
// metrics at zero.
func closeSegment(seg *model.RouteSegment, now time.Time) {
	if seg == nil || seg.IsCompleted {
		return
	}
	seg.IsCompleted = true
	seg.CompletedAt = &now
}

func instantSpeed(prev, cur *model.LocationFix) float64 {
	if cur.Speed != nil {
		return *cur.Speed
	}
	if prev == nil {
		return 0
	}
	dt := cur.Timestamp.Sub(prev.Timestamp).Seconds()
	if dt <= 0 {
		return 0
	}
	return geo.Haversine(prev.Point(), cur.Point()) / dt
}

func generateSegmentID() string {
	return fmt.Sprintf("seg_%d_%04d", time.Now().UnixNano(), rand.Intn(10000))
}
