package model

import (
	"time"

	"tourguard/internal/tracking-service/core/geo"
)

const (
	AreaStatusActive              = "active"
	AreaStatusInactive            = "inactive"
	AreaStatusTemporarilyDisabled = "temporarily_disabled"
)

const DefaultBufferDistanceMeters = 100

// RestrictedArea is an administrator-defined no-go polygon. The core only
// reads these; creation and editing belong to the admin surface.
type RestrictedArea struct {
	ID          int64
	Name        string
	Description string
	AreaType    string
	Status      string

	Boundary geo.Polygon

	SeverityLevel        int // 1 (low) to 5 (high)
	BufferDistanceMeters float64

	ValidFrom  *time.Time
	ValidUntil *time.Time
}

// ValidAt reports whether the area is active and its validity window
// covers the given instant.
func (a *RestrictedArea) ValidAt(now time.Time) bool {
	if a.Status != AreaStatusActive {
		return false
	}
	if a.ValidFrom != nil && a.ValidFrom.After(now) {
		return false
	}
	if a.ValidUntil != nil && !a.ValidUntil.After(now) {
		return false
	}
	return true
}

// Buffer returns the warning buffer in meters, falling back to the
// default when unset.
func (a *RestrictedArea) Buffer() float64 {
	if a.BufferDistanceMeters <= 0 {
		return DefaultBufferDistanceMeters
	}
	return a.BufferDistanceMeters
}

const (
	ClassificationClear     = "clear"
	ClassificationWarning   = "warning"
	ClassificationViolation = "violation"
)

// AreaMatch is one restricted area that contains or is within buffer
// distance of an evaluated point.
type AreaMatch struct {
	AreaID         int64   `json:"area_id"`
	Name           string  `json:"name"`
	SeverityLevel  int     `json:"severity_level"`
	Contained      bool    `json:"contained"`
	DistanceMeters float64 `json:"distance_meters"`
}

// GeofenceEvaluation is the derived classification of one fix. Not
// persisted by the core.
type GeofenceEvaluation struct {
	Classification string      `json:"classification"`
	Matches        []AreaMatch `json:"matches,omitempty"`
	// NearestDistanceMeters is the boundary distance of the closest match,
	// zero when there are no matches.
	NearestDistanceMeters float64 `json:"nearest_distance_meters"`
}
