package model

import "time"

// RouteSegment accumulates the fixes of one trip phase. Open while the
// phase is active, immutable once closed.
type RouteSegment struct {
	ID          string
	TripID      string
	SegmentType string // the phase this segment belongs to

	StartFix *LocationFix
	EndFix   *LocationFix
	FixCount int

	TotalDistanceMeters  float64
	TotalDurationSeconds float64
	AvgSpeedMS           float64
	MaxSpeedMS           float64

	StartedAt   time.Time
	CompletedAt *time.Time
	IsCompleted bool
}

// TripStats are whole-trip totals assembled from closed segments plus the
// live one.
type TripStats struct {
	TripID               string  `json:"trip_id"`
	TotalDistanceMeters  float64 `json:"total_distance_meters"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	AvgSpeedMS           float64 `json:"avg_speed_ms"`
	MaxSpeedMS           float64 `json:"max_speed_ms"`
	FixesRecorded        int     `json:"fixes_recorded"`
	SegmentsCompleted    int     `json:"segments_completed"`
	CurrentPhase         string  `json:"current_phase"`
}
