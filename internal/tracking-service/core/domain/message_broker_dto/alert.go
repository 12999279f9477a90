package messagebrokerdto

// Alert is the deviation message published to the alert exchange when a
// tourist first enters a restricted area.
type Alert struct {
	TripID        string  `json:"trip_id"`
	TouristID     string  `json:"tourist_id,omitempty"`
	Kind          string  `json:"kind"` // always DEVIATION from this service
	AreaID        int64   `json:"area_id"`
	AreaName      string  `json:"area_name"`
	SeverityLevel int     `json:"severity_level"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Description   string  `json:"description"`
	DetectedAt    string  `json:"detected_at"`
	CorrelationID string  `json:"correlation_id"`
}

const KindDeviation = "DEVIATION"
