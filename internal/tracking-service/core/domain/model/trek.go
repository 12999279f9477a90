package model

import "tourguard/internal/tracking-service/core/geo"

// TrekPath is the pre-surveyed route of a trek. Read-only reference data
// consulted when a trek starts.
type TrekPath struct {
	ID     string
	TrekID string
	Name   string

	Waypoints []geo.Point

	TotalDistanceMeters    float64
	EstimatedDurationHours float64
	ElevationGainMeters    float64
	SafetyNotes            string
}
