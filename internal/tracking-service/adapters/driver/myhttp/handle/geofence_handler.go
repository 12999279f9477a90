package handle

import (
	"encoding/json"
	"net/http"

	"tourguard/internal/mylogger"
	"tourguard/internal/tracking-service/core/domain/dto"
	"tourguard/internal/tracking-service/core/ports"
)

type GeofenceHandler struct {
	geofenceService ports.IGeofenceService
	log             mylogger.Logger
}

func NewGeofenceHandler(gs ports.IGeofenceService, log mylogger.Logger) *GeofenceHandler {
	return &GeofenceHandler{
		geofenceService: gs,
		log:             log,
	}
}

// CheckPoint classifies an arbitrary point against the restricted areas
// without touching any trip state.
func (gh *GeofenceHandler) CheckPoint() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.GeofenceCheckRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if err := validate.Struct(req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		eval := gh.geofenceService.CheckPoint(req.Latitude, req.Longitude)
		jsonResponse(w, http.StatusOK, eval)
	}
}

// BlockAreas exports every active area as a WKT polygon for routing
// engines.
func (gh *GeofenceHandler) BlockAreas() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		areas := gh.geofenceService.BlockAreas()
		jsonResponse(w, http.StatusOK, dto.BlockAreasResponseDto{
			BlockAreas: areas,
			Count:      len(areas),
		})
	}
}
