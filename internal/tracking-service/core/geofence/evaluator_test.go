package geofence

import (
	"testing"
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
)

func newTestEvaluator(areas ...model.RestrictedArea) *Evaluator {
	idx := NewAreaIndex()
	idx.Replace(areas)
	return NewEvaluator(idx)
}

func TestEvaluateOpenCloseCycle(t *testing.T) {
	e := newTestEvaluator(testArea(7, 4, 100))
	now := time.Now()
	inside := geo.Point{Latitude: 28.5700, Longitude: 77.1250}
	outside := geo.Point{Latitude: 28.6000, Longitude: 77.2000}

	// first fix inside: violation, alert opens
	res := e.Evaluate("trip-1", inside, now)
	if res.Evaluation.Classification != model.ClassificationViolation {
		t.Fatalf("classification = %q, want violation", res.Evaluation.Classification)
	}
	if len(res.Opened) != 1 || res.Opened[0].AreaID != 7 {
		t.Fatalf("opened = %+v, want area 7", res.Opened)
	}

	// second fix at the same point: still a violation, but no re-emission
	res = e.Evaluate("trip-1", inside, now)
	if res.Evaluation.Classification != model.ClassificationViolation {
		t.Fatalf("second fix classification = %q, want violation", res.Evaluation.Classification)
	}
	if len(res.Opened) != 0 {
		t.Errorf("second fix re-opened: %+v", res.Opened)
	}
	if got := e.OpenViolations("trip-1"); len(got) != 1 {
		t.Errorf("open violations = %v, want one", got)
	}

	// leaving the area clears and closes the open violation
	res = e.Evaluate("trip-1", outside, now)
	if res.Evaluation.Classification != model.ClassificationClear {
		t.Fatalf("exit classification = %q, want clear", res.Evaluation.Classification)
	}
	if len(res.Closed) != 1 || res.Closed[0] != 7 {
		t.Errorf("closed = %v, want [7]", res.Closed)
	}

	// re-entering re-opens
	res = e.Evaluate("trip-1", inside, now)
	if len(res.Opened) != 1 {
		t.Errorf("re-entry did not re-open: %+v", res.Opened)
	}
}

func TestEvaluateWarningNotDeduplicated(t *testing.T) {
	e := newTestEvaluator(testArea(7, 2, 500))
	now := time.Now()
	near := geo.Point{Latitude: 28.5730, Longitude: 77.1220} // outside, inside buffer

	for i := 0; i < 3; i++ {
		res := e.Evaluate("trip-1", near, now)
		if res.Evaluation.Classification != model.ClassificationWarning {
			t.Fatalf("fix %d classification = %q, want warning", i, res.Evaluation.Classification)
		}
		if len(res.Opened) != 0 {
			t.Errorf("warning opened a violation: %+v", res.Opened)
		}
	}
}

func TestEvaluateHighestSeverityWins(t *testing.T) {
	e := newTestEvaluator(testArea(1, 1, 100), testArea(2, 5, 100))
	res := e.Evaluate("trip-1", geo.Point{Latitude: 28.5700, Longitude: 77.1250}, time.Now())

	if res.Evaluation.Classification != model.ClassificationViolation {
		t.Fatalf("classification = %q, want violation", res.Evaluation.Classification)
	}
	if res.Evaluation.Matches[0].AreaID != 2 {
		t.Errorf("first match = area %d, want the severity-5 area 2", res.Evaluation.Matches[0].AreaID)
	}
	if len(res.Opened) != 2 {
		t.Errorf("opened %d violations, want 2 (both contained areas)", len(res.Opened))
	}
}

func TestEvaluateTripsIndependent(t *testing.T) {
	e := newTestEvaluator(testArea(7, 3, 100))
	now := time.Now()
	inside := geo.Point{Latitude: 28.5700, Longitude: 77.1250}

	e.Evaluate("trip-a", inside, now)
	res := e.Evaluate("trip-b", inside, now)
	if len(res.Opened) != 1 {
		t.Errorf("trip-b suppressed by trip-a's open violation: %+v", res.Opened)
	}
}

func TestClearTrip(t *testing.T) {
	e := newTestEvaluator(testArea(7, 3, 100))
	now := time.Now()
	inside := geo.Point{Latitude: 28.5700, Longitude: 77.1250}

	e.Evaluate("trip-1", inside, now)
	e.ClearTrip("trip-1")
	if got := e.OpenViolations("trip-1"); len(got) != 0 {
		t.Fatalf("open violations after clear = %v", got)
	}
	if res := e.Evaluate("trip-1", inside, now); len(res.Opened) != 1 {
		t.Errorf("cleared trip should re-open on next containment")
	}
}

func latSquare(id int64, severity int, buffer, latLo, latHi float64) model.RestrictedArea {
	return model.RestrictedArea{
		ID:     id,
		Name:   "test area",
		Status: model.AreaStatusActive,
		Boundary: geo.Polygon{Outer: geo.Ring{
			{Latitude: latLo, Longitude: 77.12},
			{Latitude: latLo, Longitude: 77.14},
			{Latitude: latHi, Longitude: 77.14},
			{Latitude: latHi, Longitude: 77.12},
		}},
		SeverityLevel:        severity,
		BufferDistanceMeters: buffer,
	}
}

func TestNearestDistanceIsMinimumOverMatches(t *testing.T) {
	// a high-severity area ~1425 m north and a low-severity one ~100 m
	// north: ordering puts the far one first, the nearest distance must
	// still come from the close one
	far := latSquare(1, 5, 1500, 28.5128, 28.5200)
	near := latSquare(2, 1, 150, 28.5009, 28.5100)
	e := newTestEvaluator(far, near)

	res := e.Evaluate("trip-1", geo.Point{Latitude: 28.5000, Longitude: 77.1300}, time.Now())
	eval := res.Evaluation
	if eval.Classification != model.ClassificationWarning {
		t.Fatalf("classification = %q, want warning", eval.Classification)
	}
	if len(eval.Matches) != 2 || eval.Matches[0].AreaID != 1 {
		t.Fatalf("matches = %+v, want both areas with severity 5 first", eval.Matches)
	}
	if eval.NearestDistanceMeters < 95 || eval.NearestDistanceMeters > 105 {
		t.Errorf("nearest distance = %.1f m, want ~100 m (the close boundary, not the high-severity one)",
			eval.NearestDistanceMeters)
	}

	// containment pins the nearest distance at zero even with a farther
	// warning match present
	res = e.Evaluate("trip-1", geo.Point{Latitude: 28.5050, Longitude: 77.1300}, time.Now())
	if res.Evaluation.Classification != model.ClassificationViolation {
		t.Fatalf("contained classification = %q, want violation", res.Evaluation.Classification)
	}
	if res.Evaluation.NearestDistanceMeters != 0 {
		t.Errorf("contained nearest distance = %v, want 0", res.Evaluation.NearestDistanceMeters)
	}
}
