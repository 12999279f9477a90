package handle

import (
	"encoding/json"
	"net/http"

	"tourguard/internal/mylogger"
	"tourguard/internal/tracking-service/core/domain/dto"
	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/ports"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type TrackingHandler struct {
	trackingService ports.ITrackingService
	log             mylogger.Logger
}

func NewTrackingHandler(ts ports.ITrackingService, log mylogger.Logger) *TrackingHandler {
	return &TrackingHandler{
		trackingService: ts,
		log:             log,
	}
}

func (th *TrackingHandler) StartDay() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")
		req := dto.StartDayRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if err := validate.Struct(req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		trip, err := th.trackingService.StartDay(tripID, req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		jsonResponse(w, http.StatusCreated, tripResponse(trip))
	}
}

func (th *TrackingHandler) SubmitLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")
		req := dto.LocationFixDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := th.trackingService.SubmitLocation(tripID, req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		code := http.StatusOK
		if !res.Accepted {
			code = http.StatusUnprocessableEntity
		}
		jsonResponse(w, code, res)
	}
}

func (th *TrackingHandler) MarkVisiting() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trip, err := th.trackingService.MarkVisiting(r.PathValue("trip_id"))
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, tripResponse(trip))
	}
}

func (th *TrackingHandler) ReturnToHotel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")
		req := dto.ReturnToHotelRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if err := validate.Struct(req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		trip, err := th.trackingService.ReturnToHotel(tripID, req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, tripResponse(trip))
	}
}

func (th *TrackingHandler) LinkDevice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")
		req := dto.LinkDeviceRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if err := validate.Struct(req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		trip, err := th.trackingService.LinkDevice(tripID, req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, tripResponse(trip))
	}
}

func (th *TrackingHandler) StartTrek() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")
		req := dto.StartTrekRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if err := validate.Struct(req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		trip, path, err := th.trackingService.StartTrek(tripID, req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}

		res := dto.StartTrekResponseDto{TripResponseDto: *tripResponse(trip)}
		if path != nil {
			res.TrekData = &dto.TrekDataDto{
				PathID:                 path.ID,
				Name:                   path.Name,
				TotalDistanceMeters:    path.TotalDistanceMeters,
				EstimatedDurationHours: path.EstimatedDurationHours,
				SafetyNotes:            path.SafetyNotes,
			}
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (th *TrackingHandler) EndTrek() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")
		req := dto.EndTrekRequestDto{}

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}
		if err := validate.Struct(req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		trip, err := th.trackingService.EndTrek(tripID, req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, tripResponse(trip))
	}
}

func (th *TrackingHandler) Cancel() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		trip, err := th.trackingService.Cancel(r.PathValue("trip_id"))
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, tripResponse(trip))
	}
}

func (th *TrackingHandler) GetPhase() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tripID := r.PathValue("trip_id")
		status, phase, err := th.trackingService.GetTripPhase(tripID)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.TripPhaseResponseDto{
			TripID: tripID,
			Status: status,
			Phase:  phase,
		})
	}
}

func (th *TrackingHandler) GetActiveSegment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seg, err := th.trackingService.GetActiveRouteSegment(r.PathValue("trip_id"))
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		if seg == nil {
			jsonResponse(w, http.StatusNoContent, nil)
			return
		}
		jsonResponse(w, http.StatusOK, dto.RouteSegmentResponseDto{
			SegmentID:            seg.ID,
			SegmentType:          seg.SegmentType,
			FixCount:             seg.FixCount,
			TotalDistanceMeters:  seg.TotalDistanceMeters,
			TotalDurationSeconds: seg.TotalDurationSeconds,
			AvgSpeedMS:           seg.AvgSpeedMS,
			MaxSpeedMS:           seg.MaxSpeedMS,
			IsCompleted:          seg.IsCompleted,
		})
	}
}

func (th *TrackingHandler) GetStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := th.trackingService.GetTripStats(r.PathValue("trip_id"))
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, stats)
	}
}

func tripResponse(t *model.Trip) *dto.TripResponseDto {
	res := &dto.TripResponseDto{
		TripID:   t.ID,
		TripType: t.TripType,
		Status:   t.Status,
		Phase:    t.Phase,
	}
	if target := t.ArrivalTarget(); target != nil {
		res.RouteTo = &dto.PointDto{Latitude: target.Latitude, Longitude: target.Longitude}
	}
	switch t.Phase {
	case model.PhaseToDestination:
		res.Instructions = "head to the destination"
	case model.PhaseAtDestination:
		res.Instructions = "enjoy the visit, tracking continues"
	case model.PhaseToHotel, model.PhaseFromTrekEnd:
		res.Instructions = "return to the hotel"
	case model.PhaseToTrekStart:
		res.Instructions = "head to the trek start"
	case model.PhaseTrekActive:
		res.Instructions = "trek in progress, keep the device on"
	}
	return res
}
