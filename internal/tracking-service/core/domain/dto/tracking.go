package dto

import (
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
)

type PointDto struct {
	Latitude  float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Name      string  `json:"name,omitempty" validate:"max=255"`
}

type StartDayRequestDto struct {
	TripType    string    `json:"trip_type" validate:"required,oneof=tour_day trek_day"`
	Hotel       PointDto  `json:"hotel" validate:"required"`
	Destination *PointDto `json:"destination,omitempty"`
	TrekID      string    `json:"trek_id,omitempty"`
	TrekStart   *PointDto `json:"trek_start,omitempty"`
	TrekEnd     *PointDto `json:"trek_end,omitempty"`
}

type LocationFixDto struct {
	Latitude  float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64  `json:"longitude" validate:"gte=-180,lte=180"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Bearing   *float64 `json:"bearing,omitempty"`

	Source    string    `json:"source" validate:"required,oneof=mobile_gps tracking_device"`
	DeviceID  string    `json:"device_id,omitempty"`
	DeviceKey string    `json:"device_key,omitempty"`
	Timestamp time.Time `json:"timestamp" validate:"required"`
}

type SubmitLocationResponseDto struct {
	Accepted     bool                      `json:"accepted"`
	PhaseChanged bool                      `json:"phase_changed"`
	Status       string                    `json:"status"`
	Phase        string                    `json:"phase"`
	Geofence     *model.GeofenceEvaluation `json:"geofence,omitempty"`
	Rejection    string                    `json:"rejection,omitempty"`
}

type ReturnToHotelRequestDto struct {
	Current PointDto `json:"current" validate:"required"`
}

type LinkDeviceRequestDto struct {
	DeviceID  string `json:"device_id" validate:"required"`
	DeviceKey string `json:"device_key" validate:"required"`
}

type StartTrekRequestDto struct {
	DeviceID string `json:"device_id" validate:"required"`
}

type EndTrekRequestDto struct {
	End PointDto `json:"end" validate:"required"`
}

type TripResponseDto struct {
	TripID   string `json:"trip_id"`
	TripType string `json:"trip_type"`
	Status   string `json:"status"`
	Phase    string `json:"phase"`

	RouteTo      *PointDto `json:"route_to,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
}

type TripPhaseResponseDto struct {
	TripID string `json:"trip_id"`
	Status string `json:"status"`
	Phase  string `json:"phase"`
}

type RouteSegmentResponseDto struct {
	SegmentID            string  `json:"segment_id"`
	SegmentType          string  `json:"segment_type"`
	FixCount             int     `json:"fix_count"`
	TotalDistanceMeters  float64 `json:"total_distance_meters"`
	TotalDurationSeconds float64 `json:"total_duration_seconds"`
	AvgSpeedMS           float64 `json:"avg_speed_ms"`
	MaxSpeedMS           float64 `json:"max_speed_ms"`
	IsCompleted          bool    `json:"is_completed"`
}

type TrekDataDto struct {
	PathID                 string  `json:"path_id,omitempty"`
	Name                   string  `json:"name,omitempty"`
	TotalDistanceMeters    float64 `json:"total_distance_meters,omitempty"`
	EstimatedDurationHours float64 `json:"estimated_duration_hours,omitempty"`
	SafetyNotes            string  `json:"safety_notes,omitempty"`
}

type StartTrekResponseDto struct {
	TripResponseDto
	TrekData *TrekDataDto `json:"trek_data,omitempty"`
}
