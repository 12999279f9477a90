package geofence

import (
	"strings"
	"testing"
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
)

var testSquare = geo.Polygon{Outer: geo.Ring{
	{Latitude: 28.5678, Longitude: 77.1234},
	{Latitude: 28.5678, Longitude: 77.1345},
	{Latitude: 28.5789, Longitude: 77.1345},
	{Latitude: 28.5789, Longitude: 77.1234},
}}

func testArea(id int64, severity int, buffer float64) model.RestrictedArea {
	return model.RestrictedArea{
		ID:                   id,
		Name:                 "test area",
		AreaType:             "danger_zone",
		Status:               model.AreaStatusActive,
		Boundary:             testSquare,
		SeverityLevel:        severity,
		BufferDistanceMeters: buffer,
	}
}

func TestQueryContainment(t *testing.T) {
	idx := NewAreaIndex()
	idx.Replace([]model.RestrictedArea{testArea(1, 3, 100)})
	now := time.Now()

	matches := idx.Query(geo.Point{Latitude: 28.5700, Longitude: 77.1250}, now)
	if len(matches) != 1 || !matches[0].Contained || matches[0].AreaID != 1 {
		t.Fatalf("inside point: got %+v, want single contained match for area 1", matches)
	}
	if matches[0].DistanceMeters != 0 {
		t.Errorf("contained match distance = %v, want 0", matches[0].DistanceMeters)
	}

	if matches := idx.Query(geo.Point{Latitude: 28.6000, Longitude: 77.2000}, now); len(matches) != 0 {
		t.Errorf("far point: got %d matches, want 0", len(matches))
	}
}

func TestQueryBufferEdge(t *testing.T) {
	idx := NewAreaIndex()
	idx.Replace([]model.RestrictedArea{testArea(1, 3, 200)})
	now := time.Now()

	// points due west of the western edge at its midpoint latitude
	lat := 28.5730
	metersToLonDeg := func(m float64) float64 { return m / 97800 } // ~111320*cos(28.57°)

	near := geo.Point{Latitude: lat, Longitude: 77.1234 - metersToLonDeg(150)}
	if m := idx.Query(near, now); len(m) != 1 || m[0].Contained {
		t.Errorf("point inside buffer: got %+v, want one non-contained match", m)
	}

	far := geo.Point{Latitude: lat, Longitude: 77.1234 - metersToLonDeg(260)}
	if m := idx.Query(far, now); len(m) != 0 {
		t.Errorf("point beyond buffer: got %+v, want clear", m)
	}
}

func TestQueryOrdering(t *testing.T) {
	low := testArea(1, 2, 100)
	high := testArea(2, 5, 100)
	idx := NewAreaIndex()
	idx.Replace([]model.RestrictedArea{low, high})

	matches := idx.Query(geo.Point{Latitude: 28.5700, Longitude: 77.1250}, time.Now())
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].AreaID != 2 || matches[1].AreaID != 1 {
		t.Errorf("order = [%d %d], want severity descending [2 1]", matches[0].AreaID, matches[1].AreaID)
	}
}

func TestQueryValidityWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	expired := testArea(1, 3, 100)
	expired.ValidUntil = &past

	notYet := testArea(2, 3, 100)
	notYet.ValidFrom = &future

	disabled := testArea(3, 3, 100)
	disabled.Status = model.AreaStatusTemporarilyDisabled

	current := testArea(4, 3, 100)
	current.ValidFrom = &past
	current.ValidUntil = &future

	degenerate := testArea(5, 3, 100)
	degenerate.Boundary = geo.Polygon{Outer: geo.Ring{{Latitude: 28.57, Longitude: 77.12}}}

	idx := NewAreaIndex()
	idx.Replace([]model.RestrictedArea{expired, notYet, disabled, current, degenerate})

	matches := idx.Query(geo.Point{Latitude: 28.5700, Longitude: 77.1250}, now)
	if len(matches) != 1 || matches[0].AreaID != 4 {
		t.Errorf("got %+v, want only the currently-valid area 4", matches)
	}
}

func TestReplaceBumpsVersion(t *testing.T) {
	idx := NewAreaIndex()
	if v := idx.Version(); v != 0 {
		t.Fatalf("fresh index version = %d, want 0", v)
	}
	idx.Replace(nil)
	idx.Replace([]model.RestrictedArea{testArea(1, 1, 100)})
	if v := idx.Version(); v != 2 {
		t.Errorf("version after two replaces = %d, want 2", v)
	}
	if got := len(idx.Snapshot()); got != 1 {
		t.Errorf("snapshot size = %d, want 1", got)
	}
}

func TestBlockAreas(t *testing.T) {
	idx := NewAreaIndex()
	inactive := testArea(2, 1, 100)
	inactive.Status = model.AreaStatusInactive
	idx.Replace([]model.RestrictedArea{testArea(1, 1, 100), inactive})

	wkts := idx.BlockAreas(time.Now())
	if len(wkts) != 1 {
		t.Fatalf("got %d block areas, want 1", len(wkts))
	}
	wkt := wkts[0]
	if !strings.HasPrefix(wkt, "POLYGON((") || !strings.HasSuffix(wkt, "))") {
		t.Fatalf("bad WKT form: %q", wkt)
	}
	// closed ring: first and last coordinate pair identical
	inner := strings.TrimSuffix(strings.TrimPrefix(wkt, "POLYGON(("), "))")
	pairs := strings.Split(inner, ", ")
	if pairs[0] != pairs[len(pairs)-1] {
		t.Errorf("ring not closed: first %q last %q", pairs[0], pairs[len(pairs)-1])
	}
	// longitude before latitude
	if !strings.HasPrefix(pairs[0], "77.") {
		t.Errorf("expected longitude first in %q", pairs[0])
	}
}
