package dto

type GeofenceCheckRequestDto struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

type BlockAreasResponseDto struct {
	BlockAreas []string `json:"block_areas"`
	Count      int      `json:"count"`
}
