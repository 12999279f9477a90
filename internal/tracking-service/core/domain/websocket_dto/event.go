package websocketdto

import "encoding/json"

// Event is the envelope pushed to trip watchers over WebSocket.
type Event struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	TypeLocationUpdate = "location_update"
	TypePhaseChange    = "phase_change"
	TypeGeofenceAlert  = "geofence_alert"
)

type LocationUpdateDto struct {
	TripID    string   `json:"trip_id"`
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Speed     *float64 `json:"speed,omitempty"`
	Phase     string   `json:"phase"`
	Timestamp string   `json:"timestamp"`
}

type PhaseChangeDto struct {
	TripID string `json:"trip_id"`
	Status string `json:"status"`
	Phase  string `json:"phase"`
}

type GeofenceAlertDto struct {
	TripID         string `json:"trip_id"`
	Classification string `json:"classification"`
	AreaName       string `json:"area_name,omitempty"`
	SeverityLevel  int    `json:"severity_level,omitempty"`
}
