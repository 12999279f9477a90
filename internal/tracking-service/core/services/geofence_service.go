package services

import (
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
	"tourguard/internal/tracking-service/core/geofence"
	"tourguard/internal/tracking-service/core/ports"
)

// GeofenceService is the stateless read surface over the area index: ad
// hoc point checks and the block-area export for the routing service.
type GeofenceService struct {
	index *geofence.AreaIndex
}

func NewGeofenceService(index *geofence.AreaIndex) ports.IGeofenceService {
	return &GeofenceService{index: index}
}

func (gs *GeofenceService) CheckPoint(lat, lon float64) model.GeofenceEvaluation {
	matches := gs.index.Query(geo.Point{Latitude: lat, Longitude: lon}, time.Now().UTC())
	return geofence.Classify(matches)
}

func (gs *GeofenceService) BlockAreas() []string {
	return gs.index.BlockAreas(time.Now().UTC())
}
