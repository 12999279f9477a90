package services

import (
	"math"
	"testing"
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
)

func fixAt(lat, lon float64, ts time.Time, speed *float64) *model.LocationFix {
	return &model.LocationFix{
		TripID:    "trip-1",
		Latitude:  lat,
		Longitude: lon,
		Speed:     speed,
		Source:    model.SourceMobileGPS,
		Timestamp: ts,
	}
}

func TestSegmentAccumulation(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	seg := newSegment("trip-1", model.PhaseToDestination, start)

	a := fixAt(28.6139, 77.2090, start, nil)
	b := fixAt(28.6200, 77.2150, start.Add(5*time.Minute), nil)
	c := fixAt(28.6260, 77.2210, start.Add(10*time.Minute), nil)

	appendFix(seg, a)
	appendFix(seg, b)
	appendFix(seg, c)

	wantDist := geo.Haversine(a.Point(), b.Point()) + geo.Haversine(b.Point(), c.Point())
	if math.Abs(seg.TotalDistanceMeters-wantDist) > 0.01 {
		t.Errorf("distance = %v, want %v", seg.TotalDistanceMeters, wantDist)
	}
	if seg.FixCount != 3 {
		t.Errorf("fix count = %d, want 3", seg.FixCount)
	}
	if seg.TotalDurationSeconds != 600 {
		t.Errorf("duration = %v, want 600", seg.TotalDurationSeconds)
	}
	wantAvg := wantDist / 600
	if math.Abs(seg.AvgSpeedMS-wantAvg) > 1e-9 {
		t.Errorf("avg speed = %v, want %v", seg.AvgSpeedMS, wantAvg)
	}
	if seg.StartFix != a || seg.EndFix != c {
		t.Error("start/end fixes not tracked")
	}
}

func TestSegmentMaxSpeedPrefersReportedField(t *testing.T) {
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	seg := newSegment("trip-1", model.PhaseToDestination, start)

	reported := 12.5
	appendFix(seg, fixAt(28.6139, 77.2090, start, nil))
	appendFix(seg, fixAt(28.6145, 77.2095, start.Add(time.Minute), &reported))
	if seg.MaxSpeedMS != reported {
		t.Errorf("max speed = %v, want reported %v", seg.MaxSpeedMS, reported)
	}

	// derived speed from consecutive fixes when no field present
	seg2 := newSegment("trip-1", model.PhaseToDestination, start)
	a := fixAt(28.6139, 77.2090, start, nil)
	b := fixAt(28.6200, 77.2090, start.Add(time.Minute), nil)
	appendFix(seg2, a)
	appendFix(seg2, b)
	wantSpeed := geo.Haversine(a.Point(), b.Point()) / 60
	if math.Abs(seg2.MaxSpeedMS-wantSpeed) > 1e-9 {
		t.Errorf("derived max speed = %v, want %v", seg2.MaxSpeedMS, wantSpeed)
	}
}

func TestZeroFixSegmentClosesClean(t *testing.T) {
	start := time.Now()
	seg := newSegment("trip-1", model.PhaseToHotel, start)
	closeSegment(seg, start.Add(time.Minute))

	if !seg.IsCompleted {
		t.Fatal("segment not completed")
	}
	if seg.TotalDistanceMeters != 0 || seg.AvgSpeedMS != 0 || seg.MaxSpeedMS != 0 || seg.FixCount != 0 {
		t.Errorf("zero-fix segment has non-zero metrics: %+v", seg)
	}
}

func TestClosedSegmentIsImmutable(t *testing.T) {
	start := time.Now()
	seg := newSegment("trip-1", model.PhaseToDestination, start)
	appendFix(seg, fixAt(28.6139, 77.2090, start, nil))
	closeSegment(seg, start.Add(time.Minute))

	before := *seg
	appendFix(seg, fixAt(28.6200, 77.2150, start.Add(2*time.Minute), nil))
	closeSegment(seg, start.Add(3*time.Minute))

	if seg.FixCount != before.FixCount || seg.TotalDistanceMeters != before.TotalDistanceMeters {
		t.Error("closed segment accepted an append")
	}
	if !seg.CompletedAt.Equal(*before.CompletedAt) {
		t.Error("closed segment was re-closed")
	}
}

func TestDuplicateFixDoesNotAddDistance(t *testing.T) {
	start := time.Now()
	seg := newSegment("trip-1", model.PhaseToDestination, start)
	a := fixAt(28.6139, 77.2090, start, nil)

	appendFix(seg, a)
	appendFix(seg, a)
	if seg.TotalDistanceMeters != 0 {
		t.Errorf("identical consecutive fixes added distance: %v", seg.TotalDistanceMeters)
	}
}
