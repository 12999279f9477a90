package model

import (
	"time"

	"tourguard/internal/tracking-service/core/geo"
)

const (
	SourceMobileGPS      = "mobile_gps"
	SourceTrackingDevice = "tracking_device"
)

// LocationFix is one accepted GPS sample. Immutable after acceptance;
// rejected fixes never become a LocationFix.
type LocationFix struct {
	TripID    string
	Latitude  float64
	Longitude float64

	Altitude *float64
	Accuracy *float64
	Speed    *float64
	Bearing  *float64

	Source   string
	DeviceID string

	Timestamp  time.Time // client clock
	ReceivedAt time.Time // server clock
	// PhaseAtReceipt is the trip phase at the moment the fix was accepted,
	// recorded before any auto-transition the fix itself triggers.
	PhaseAtReceipt string
}

func (f *LocationFix) Point() geo.Point {
	return geo.Point{Latitude: f.Latitude, Longitude: f.Longitude}
}
