package model

import "time"

const (
	DeviceStatusActive      = "active"
	DeviceStatusInactive    = "inactive"
	DeviceStatusMaintenance = "maintenance"
)

// TrackingDevice is a dedicated GPS tracker that can be linked to a trek
// day. APIKeyHash holds the bcrypt hash of the device's API key.
type TrackingDevice struct {
	ID         string
	APIKeyHash string
	Status     string

	LastLatitude  *float64
	LastLongitude *float64
	LastSeenAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
