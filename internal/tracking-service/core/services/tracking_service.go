package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"tourguard/internal/mylogger"
	"tourguard/internal/tracking-service/core/domain/dto"
	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
	"tourguard/internal/tracking-service/core/geofence"
	"tourguard/internal/tracking-service/core/myerrors"
	"tourguard/internal/tracking-service/core/ports"

	websocketdto "tourguard/internal/tracking-service/core/domain/websocket_dto"
)

const auditTimeout = 5 * time.Second

// Tuning carries the tracking constants that stay configurable rather
// than hard-coded: how close counts as arrived, how far back in time a
// fix may lag, and how far ahead a client clock may run.
type Tuning struct {
	ArrivalRadiusM   float64
	ReorderTolerance time.Duration
	FutureSkew       time.Duration
}

func DefaultTuning() Tuning {
	return Tuning{
		ArrivalRadiusM:   50,
		ReorderTolerance: 2 * time.Minute,
		FutureSkew:       5 * time.Minute,
	}
}

// Collaborators are the driven ports the service talks to. Any of them
// may be nil; the core degrades to pure in-memory tracking, it never
// blocks a fix on a missing collaborator.
type Collaborators struct {
	TripRepo  ports.ITripRepo
	LocRepo   ports.ILocationRepo
	SegRepo   ports.ISegmentRepo
	VioRepo   ports.IViolationRepo
	TrekRepo  ports.ITrekPathRepo
	DevRepo   ports.IDeviceRepo
	Alerts    ports.IAlertBroker
	Websocket ports.INotifyWebsocket
}

// tripState is one trip's mutable tracking state. All access goes through
// its mutex: the per-trip exclusive lane from which every transition and
// segment update is applied.
type tripState struct {
	mu         sync.Mutex
	trip       model.Trip
	lastFix    *model.LocationFix
	openSeg    *model.RouteSegment
	closedSegs []*model.RouteSegment
	fixCount   int
}

type TrackingService struct {
	ctx       context.Context
	mylog     mylogger.Logger
	tuning    Tuning
	evaluator *geofence.Evaluator
	co        Collaborators

	mu    sync.RWMutex
	trips map[string]*tripState
}

func NewTrackingService(ctx context.Context, log mylogger.Logger, tuning Tuning, evaluator *geofence.Evaluator, co Collaborators) *TrackingService {
	return &TrackingService{
		ctx:       ctx,
		mylog:     log,
		tuning:    tuning,
		evaluator: evaluator,
		co:        co,
		trips:     make(map[string]*tripState),
	}
}

var _ ports.ITrackingService = (*TrackingService)(nil)

// ------------------------------------------------------------------ //
// control events                                                     //
// ------------------------------------------------------------------ //

func (s *TrackingService) StartDay(tripID string, req dto.StartDayRequestDto) (*model.Trip, error) {
	log := s.mylog.Action("StartDay")
	now := time.Now().UTC()

	st := s.getOrCreateState(tripID)
	st.mu.Lock()
	defer st.mu.Unlock()

	// stage the request on a copy; a rejected start must leave the live
	// trip exactly as it was
	staged := st.trip
	staged.TripType = req.TripType
	staged.Hotel = geo.Point{Latitude: req.Hotel.Latitude, Longitude: req.Hotel.Longitude}
	staged.HotelName = req.Hotel.Name
	if req.Destination != nil {
		staged.Destination = &geo.Point{Latitude: req.Destination.Latitude, Longitude: req.Destination.Longitude}
		staged.DestinationName = req.Destination.Name
	}
	staged.TrekID = req.TrekID
	if req.TrekStart != nil {
		staged.TrekStart = &geo.Point{Latitude: req.TrekStart.Latitude, Longitude: req.TrekStart.Longitude}
	}
	if req.TrekEnd != nil {
		staged.TrekEnd = &geo.Point{Latitude: req.TrekEnd.Latitude, Longitude: req.TrekEnd.Longitude}
	}

	if err := applyStartDay(&staged, now); err != nil {
		return nil, err
	}
	st.trip = staged
	t := &st.trip

	// a trek day without explicit endpoints falls back to the surveyed path
	if t.TripType == model.TripTypeTrekDay && t.TrekStart == nil && t.TrekID != "" && s.co.TrekRepo != nil {
		ctx, cancel := context.WithTimeout(s.ctx, auditTimeout)
		path, err := s.co.TrekRepo.GetByTrekID(ctx, t.TrekID)
		cancel()
		if err != nil {
			log.Warn("trek path unavailable, arrival detection at trek start disabled", "trek_id", t.TrekID)
		} else if len(path.Waypoints) > 0 {
			first := path.Waypoints[0]
			last := path.Waypoints[len(path.Waypoints)-1]
			t.TrekStart = &first
			t.TrekEnd = &last
		}
	}

	st.openSeg = newSegment(tripID, t.Phase, now)

	log.Info("day started", "trip_id", tripID, "trip_type", t.TripType, "phase", t.Phase)
	s.persistTrip(st)
	s.notifyPhase(st)
	return copyTrip(t), nil
}

func (s *TrackingService) MarkVisiting(tripID string) (*model.Trip, error) {
	return s.controlEvent(tripID, "MarkVisiting", applyVisiting)
}

func (s *TrackingService) ReturnToHotel(tripID string, req dto.ReturnToHotelRequestDto) (*model.Trip, error) {
	return s.controlEvent(tripID, "ReturnToHotel", applyReturnToHotel,
		func(st *tripState, priorPhase string, now time.Time) {
			// the reported departure point becomes the dwell segment's
			// last fix, so the trail shows where the return leg began
			appendFix(st.openSeg, &model.LocationFix{
				TripID:         tripID,
				Latitude:       req.Current.Latitude,
				Longitude:      req.Current.Longitude,
				Source:         model.SourceMobileGPS,
				Timestamp:      now,
				ReceivedAt:     now,
				PhaseAtReceipt: priorPhase,
			})
		})
}

func (s *TrackingService) EndTrek(tripID string, req dto.EndTrekRequestDto) (*model.Trip, error) {
	return s.controlEvent(tripID, "EndTrek", func(t *model.Trip, now time.Time) error {
		if err := applyEndTrek(t, now); err != nil {
			return err
		}
		t.TrekEnd = &geo.Point{Latitude: req.End.Latitude, Longitude: req.End.Longitude}
		return nil
	})
}

func (s *TrackingService) LinkDevice(tripID string, req dto.LinkDeviceRequestDto) (*model.Trip, error) {
	log := s.mylog.Action("LinkDevice")

	if err := s.authorizeDevice(req.DeviceID, req.DeviceKey); err != nil {
		return nil, err
	}

	st, err := s.state(tripID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now().UTC()
	if err := applyLinkDevice(&st.trip, req.DeviceID, now); err != nil {
		return nil, err
	}

	log.Info("device linked", "trip_id", tripID, "device_id", req.DeviceID)
	s.persistTrip(st)
	return copyTrip(&st.trip), nil
}

func (s *TrackingService) StartTrek(tripID string, req dto.StartTrekRequestDto) (*model.Trip, *model.TrekPath, error) {
	log := s.mylog.Action("StartTrek")

	st, err := s.state(tripID)
	if err != nil {
		return nil, nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now().UTC()
	t := &st.trip
	if t.LinkedDeviceID != "" && t.LinkedDeviceID != req.DeviceID {
		return nil, nil, invalid("start-trek", t, "the linked device id")
	}
	if err := applyStartTrek(t, now); err != nil {
		return nil, nil, err
	}
	s.rotateSegment(st, now)

	var path *model.TrekPath
	if t.TrekID != "" && s.co.TrekRepo != nil {
		ctx, cancel := context.WithTimeout(s.ctx, auditTimeout)
		path, err = s.co.TrekRepo.GetByTrekID(ctx, t.TrekID)
		cancel()
		if err != nil {
			// reference data only, the trek still starts
			log.Warn("no trek path for trek", "trek_id", t.TrekID)
			path = nil
		} else if t.TrekEnd == nil && len(path.Waypoints) > 0 {
			last := path.Waypoints[len(path.Waypoints)-1]
			t.TrekEnd = &last
		}
	}

	log.Info("trek started", "trip_id", tripID, "device_id", req.DeviceID)
	s.persistTrip(st)
	s.notifyPhase(st)
	return copyTrip(t), path, nil
}

func (s *TrackingService) Cancel(tripID string) (*model.Trip, error) {
	log := s.mylog.Action("Cancel")

	st, err := s.state(tripID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now().UTC()
	if err := applyCancel(&st.trip, now); err != nil {
		return nil, err
	}
	s.closeOpenSegment(st, now)
	s.evaluator.ClearTrip(tripID)

	log.Info("trip cancelled", "trip_id", tripID)
	s.persistTrip(st)
	s.notifyPhase(st)
	return copyTrip(&st.trip), nil
}

// controlEvent runs a guard under the trip lane with the shared
// close-prior-segment-open-next bookkeeping. A beforeRotate hook, when
// given, runs after the guard passed but before the segment rotates; it
// receives the phase the trip left.
func (s *TrackingService) controlEvent(tripID, action string, apply func(*model.Trip, time.Time) error, beforeRotate ...func(st *tripState, priorPhase string, now time.Time)) (*model.Trip, error) {
	log := s.mylog.Action(action)

	st, err := s.state(tripID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now().UTC()
	priorPhase := st.trip.Phase
	if err := apply(&st.trip, now); err != nil {
		return nil, err
	}
	for _, hook := range beforeRotate {
		hook(st, priorPhase, now)
	}
	s.rotateSegment(st, now)

	log.Info("phase transition", "trip_id", tripID, "status", st.trip.Status, "phase", st.trip.Phase)
	s.persistTrip(st)
	s.notifyPhase(st)
	return copyTrip(&st.trip), nil
}

// ------------------------------------------------------------------ //
// reads                                                              //
// ------------------------------------------------------------------ //

func (s *TrackingService) GetActiveRouteSegment(tripID string) (*model.RouteSegment, error) {
	st, err := s.state(tripID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.openSeg == nil {
		return nil, nil
	}
	seg := *st.openSeg
	return &seg, nil
}

func (s *TrackingService) GetTripPhase(tripID string) (string, string, error) {
	st, err := s.state(tripID)
	if err != nil {
		return "", "", err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.trip.Status, st.trip.Phase, nil
}

func (s *TrackingService) GetTripStats(tripID string) (*model.TripStats, error) {
	st, err := s.state(tripID)
	if err != nil {
		return nil, err
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	stats := &model.TripStats{
		TripID:       tripID,
		CurrentPhase: st.trip.Phase,
	}
	segs := st.closedSegs
	if st.openSeg != nil {
		segs = append(append([]*model.RouteSegment{}, segs...), st.openSeg)
	}
	for _, seg := range segs {
		stats.TotalDistanceMeters += seg.TotalDistanceMeters
		stats.TotalDurationSeconds += seg.TotalDurationSeconds
		stats.FixesRecorded += seg.FixCount
		if seg.MaxSpeedMS > stats.MaxSpeedMS {
			stats.MaxSpeedMS = seg.MaxSpeedMS
		}
		if seg.IsCompleted {
			stats.SegmentsCompleted++
		}
	}
	if stats.TotalDurationSeconds > 0 {
		stats.AvgSpeedMS = stats.TotalDistanceMeters / stats.TotalDurationSeconds
	}
	return stats, nil
}

// ------------------------------------------------------------------ //
// internals                                                          //
// ------------------------------------------------------------------ //

func (s *TrackingService) getOrCreateState(tripID string) *tripState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.trips[tripID]; ok {
		return st
	}
	now := time.Now().UTC()
	st := &tripState{
		trip: model.Trip{
			ID:        tripID,
			Status:    model.StatusAssigned,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
	s.trips[tripID] = st
	return st
}

func (s *TrackingService) state(tripID string) (*tripState, error) {
	s.mu.RLock()
	st, ok := s.trips[tripID]
	s.mu.RUnlock()
	if ok {
		return st, nil
	}
	return s.rehydrate(tripID)
}

// rehydrate reloads a trip the in-memory registry does not know (after a
// restart) from storage before giving up with ErrTripNotFound.
func (s *TrackingService) rehydrate(tripID string) (*tripState, error) {
	if s.co.TripRepo == nil {
		return nil, fmt.Errorf("%w: %s", myerrors.ErrTripNotFound, tripID)
	}

	ctx, cancel := context.WithTimeout(s.ctx, auditTimeout)
	defer cancel()
	trip, err := s.co.TripRepo.LoadTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.trips[tripID]; ok {
		return st, nil
	}
	st := &tripState{trip: *trip}
	// an in-flight trip resumes with a fresh segment for its phase; the
	// segments closed before the restart are already persisted
	if !trip.Terminal() && trip.IsTrackingActive {
		st.openSeg = newSegment(tripID, trip.Phase, time.Now().UTC())
	}
	s.trips[tripID] = st

	s.mylog.Action("rehydrate").Info("trip reloaded from storage",
		"trip_id", tripID, "status", trip.Status, "phase", trip.Phase)
	return st, nil
}

// rotateSegment closes the open segment and opens the next one for the
// trip's (already updated) phase. Terminal trips get no new segment.
func (s *TrackingService) rotateSegment(st *tripState, now time.Time) {
	s.closeOpenSegment(st, now)
	if !st.trip.Terminal() {
		st.openSeg = newSegment(st.trip.ID, st.trip.Phase, now)
	}
}

func (s *TrackingService) closeOpenSegment(st *tripState, now time.Time) {
	seg := st.openSeg
	if seg == nil {
		return
	}
	closeSegment(seg, now)
	st.closedSegs = append(st.closedSegs, seg)
	st.openSeg = nil

	if s.co.SegRepo != nil {
		s.audit("segment_close", func(ctx context.Context) error {
			return s.co.SegRepo.InsertSegment(ctx, seg)
		})
	}
}

func (s *TrackingService) persistTrip(st *tripState) {
	if s.co.TripRepo == nil {
		return
	}
	trip := copyTrip(&st.trip)
	s.audit("trip_save", func(ctx context.Context) error {
		return s.co.TripRepo.SaveTrip(ctx, trip)
	})
}

// audit runs a persistence write off the hot path. Failures are logged
// and never surface to the caller.
func (s *TrackingService) audit(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(s.ctx, auditTimeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			s.mylog.Action(op).Error("audit write failed", err)
		}
	}()
}

func (s *TrackingService) notifyPhase(st *tripState) {
	if s.co.Websocket == nil {
		return
	}
	data, err := json.Marshal(websocketdto.PhaseChangeDto{
		TripID: st.trip.ID,
		Status: st.trip.Status,
		Phase:  st.trip.Phase,
	})
	if err != nil {
		return
	}
	s.co.Websocket.NotifyTrip(st.trip.ID, websocketdto.Event{
		Type: websocketdto.TypePhaseChange,
		Data: data,
	})
}

func copyTrip(t *model.Trip) *model.Trip {
	cp := *t
	return &cp
}

func generateCorrelationID() string {
	charSet := []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")
	b := make([]rune, 8)
	for i := range b {
		b[i] = charSet[rand.Intn(len(charSet))]
	}
	return "alrt_" + string(b)
}
