package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tourguard/internal/tracking-service/core/domain/dto"
	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
	"tourguard/internal/tracking-service/core/myerrors"

	messagebrokerdto "tourguard/internal/tracking-service/core/domain/message_broker_dto"
	websocketdto "tourguard/internal/tracking-service/core/domain/websocket_dto"
)

// SubmitLocation drives the ingestion pipeline for one raw fix: validate,
// order, then under the trip lane run the auto-transition check, the
// geofence evaluation and the segment append. The three steps are
// independent; a geofence hit never blocks a phase transition.
func (s *TrackingService) SubmitLocation(tripID string, raw dto.LocationFixDto) (dto.SubmitLocationResponseDto, error) {
	log := s.mylog.Action("SubmitLocation")

	st, err := s.state(tripID)
	if err != nil {
		return dto.SubmitLocationResponseDto{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now().UTC()
	trip := &st.trip

	reject := func(reason error) dto.SubmitLocationResponseDto {
		name := myerrors.RejectionReason(reason)
		log.Debug("fix rejected", "trip_id", tripID, "reason", name)
		if s.co.LocRepo != nil {
			s.audit("raw_fix_audit", func(ctx context.Context) error {
				return s.co.LocRepo.InsertRejectedRaw(ctx, tripID, raw.Latitude, raw.Longitude, name)
			})
		}
		return dto.SubmitLocationResponseDto{
			Accepted:  false,
			Status:    trip.Status,
			Phase:     trip.Phase,
			Rejection: name,
		}
	}

	if trip.Terminal() || !trip.IsTrackingActive {
		return reject(myerrors.ErrInactiveTrip), nil
	}
	if err := validateFix(raw, now, s.tuning.FutureSkew); err != nil {
		return reject(err), nil
	}
	if raw.Source == model.SourceTrackingDevice && trip.LinkedDeviceID != "" && raw.DeviceID != trip.LinkedDeviceID {
		return reject(fmt.Errorf("%w: unlinked device %s", myerrors.ErrMalformedFix, raw.DeviceID)), nil
	}
	if st.lastFix != nil && raw.Timestamp.Before(st.lastFix.Timestamp.Add(-s.tuning.ReorderTolerance)) {
		return reject(myerrors.ErrStaleFix), nil
	}

	fix := &model.LocationFix{
		TripID:         tripID,
		Latitude:       raw.Latitude,
		Longitude:      raw.Longitude,
		Altitude:       raw.Altitude,
		Accuracy:       raw.Accuracy,
		Speed:          raw.Speed,
		Bearing:        raw.Bearing,
		Source:         raw.Source,
		DeviceID:       raw.DeviceID,
		Timestamp:      raw.Timestamp,
		ReceivedAt:     now,
		PhaseAtReceipt: trip.Phase,
	}

	// 1) state machine: arrival / return detection
	phaseChanged := false
	if target := trip.ArrivalTarget(); target != nil {
		dist := geo.Haversine(fix.Point(), *target)
		if autoAdvance(trip, dist, s.tuning.ArrivalRadiusM, now) {
			phaseChanged = true
			s.rotateSegment(st, now)
			log.Info("location-driven transition", "trip_id", tripID,
				"status", trip.Status, "phase", trip.Phase, "distance_m", dist)
			s.persistTrip(st)
			s.notifyPhase(st)
		}
	}

	// 2) geofence evaluation
	res := s.evaluator.Evaluate(tripID, fix.Point(), now)
	s.reportGeofence(trip, fix, res.Evaluation.Classification, res.Opened, res.Closed)

	// 3) segment append
	appendFix(st.openSeg, fix)
	st.lastFix = fix
	st.fixCount++

	if s.co.LocRepo != nil {
		s.audit("fix_audit", func(ctx context.Context) error {
			return s.co.LocRepo.InsertFix(ctx, fix)
		})
	}
	if fix.Source == model.SourceTrackingDevice && s.co.DevRepo != nil && fix.DeviceID != "" {
		s.audit("device_touch", func(ctx context.Context) error {
			return s.co.DevRepo.TouchLastSeen(ctx, fix.DeviceID, fix.Latitude, fix.Longitude)
		})
	}
	s.notifyLocation(trip, fix)

	eval := res.Evaluation
	return dto.SubmitLocationResponseDto{
		Accepted:     true,
		PhaseChanged: phaseChanged,
		Status:       trip.Status,
		Phase:        trip.Phase,
		Geofence:     &eval,
	}, nil
}

func validateFix(raw dto.LocationFixDto, now time.Time, futureSkew time.Duration) error {
	if raw.Latitude < -90 || raw.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v out of range", myerrors.ErrMalformedFix, raw.Latitude)
	}
	if raw.Longitude < -180 || raw.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v out of range", myerrors.ErrMalformedFix, raw.Longitude)
	}
	if raw.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", myerrors.ErrMalformedFix)
	}
	if raw.Timestamp.After(now.Add(futureSkew)) {
		return fmt.Errorf("%w: timestamp %s too far in the future", myerrors.ErrMalformedFix, raw.Timestamp.Format(time.RFC3339))
	}
	switch raw.Source {
	case model.SourceMobileGPS, model.SourceTrackingDevice:
	default:
		return fmt.Errorf("%w: unknown source %q", myerrors.ErrMalformedFix, raw.Source)
	}
	return nil
}

// reportGeofence fans the dedup outcome out to the alert sink, the
// violation audit trail and the trip watchers. All fire-and-forget.
func (s *TrackingService) reportGeofence(trip *model.Trip, fix *model.LocationFix, classification string, opened []model.AreaMatch, closed []int64) {
	log := s.mylog.Action("reportGeofence")

	for _, m := range opened {
		alert := messagebrokerdto.Alert{
			TripID:        trip.ID,
			TouristID:     trip.TouristID,
			Kind:          messagebrokerdto.KindDeviation,
			AreaID:        m.AreaID,
			AreaName:      m.Name,
			SeverityLevel: m.SeverityLevel,
			Latitude:      fix.Latitude,
			Longitude:     fix.Longitude,
			Description:   fmt.Sprintf("tourist entered restricted area %q (severity %d)", m.Name, m.SeverityLevel),
			DetectedAt:    fix.ReceivedAt.Format(time.RFC3339),
			CorrelationID: generateCorrelationID(),
		}
		if s.co.Alerts != nil {
			s.audit("alert_raise", func(ctx context.Context) error {
				return s.co.Alerts.Raise(ctx, alert)
			})
		}
		if s.co.VioRepo != nil {
			areaID := m.AreaID
			s.audit("violation_open", func(ctx context.Context) error {
				return s.co.VioRepo.OpenViolation(ctx, trip.ID, areaID, fix.Latitude, fix.Longitude)
			})
		}
		log.Warn("violation opened", "trip_id", trip.ID, "area_id", m.AreaID, "severity", m.SeverityLevel)
	}

	for _, areaID := range closed {
		if s.co.VioRepo != nil {
			id := areaID
			s.audit("violation_close", func(ctx context.Context) error {
				return s.co.VioRepo.CloseViolation(ctx, trip.ID, id)
			})
		}
		log.Info("violation closed", "trip_id", trip.ID, "area_id", areaID)
	}

	if classification != model.ClassificationClear && s.co.Websocket != nil {
		ev := websocketdto.GeofenceAlertDto{
			TripID:         trip.ID,
			Classification: classification,
		}
		if len(opened) > 0 {
			ev.AreaName = opened[0].Name
			ev.SeverityLevel = opened[0].SeverityLevel
		}
		if data, err := json.Marshal(ev); err == nil {
			s.co.Websocket.NotifyTrip(trip.ID, websocketdto.Event{
				Type: websocketdto.TypeGeofenceAlert,
				Data: data,
			})
		}
	}
}

func (s *TrackingService) notifyLocation(trip *model.Trip, fix *model.LocationFix) {
	if s.co.Websocket == nil {
		return
	}
	data, err := json.Marshal(websocketdto.LocationUpdateDto{
		TripID:    trip.ID,
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Speed:     fix.Speed,
		Phase:     trip.Phase,
		Timestamp: fix.Timestamp.Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	s.co.Websocket.NotifyTrip(trip.ID, websocketdto.Event{
		Type: websocketdto.TypeLocationUpdate,
		Data: data,
	})
}
