package geofence

import (
	"sync"
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
)

// Evaluator classifies fixes against the area index and tracks which
// violations are currently open per trip, so that a tourist sitting
// inside an area raises exactly one alert until they leave it.
type Evaluator struct {
	index *AreaIndex

	mu   sync.Mutex
	open map[string]map[int64]bool // trip id -> area ids with an open violation
}

// Result pairs the classification with the dedup outcome: Opened holds
// the areas the fix newly entered (these are the ones to alert on),
// Closed the area ids the trip has just left.
type Result struct {
	Evaluation model.GeofenceEvaluation
	Opened     []model.AreaMatch
	Closed     []int64
}

func NewEvaluator(index *AreaIndex) *Evaluator {
	return &Evaluator{
		index: index,
		open:  make(map[string]map[int64]bool),
	}
}

// Classify derives the evaluation from a match set: any containment is a
// violation, otherwise proximity is a warning. NearestDistanceMeters is
// the minimum boundary distance over all matches, not the distance of the
// highest-severity one.
func Classify(matches []model.AreaMatch) model.GeofenceEvaluation {
	eval := model.GeofenceEvaluation{Classification: model.ClassificationClear}
	if len(matches) == 0 {
		return eval
	}

	eval.Matches = matches
	eval.Classification = model.ClassificationWarning
	eval.NearestDistanceMeters = matches[0].DistanceMeters
	for _, m := range matches {
		if m.Contained {
			eval.Classification = model.ClassificationViolation
		}
		if m.DistanceMeters < eval.NearestDistanceMeters {
			eval.NearestDistanceMeters = m.DistanceMeters
		}
	}
	return eval
}

// Evaluate classifies one fix. Warnings are never deduplicated, proximity
// can flap near a boundary; only containment carries open/close state.
func (e *Evaluator) Evaluate(tripID string, p geo.Point, now time.Time) Result {
	matches := e.index.Query(p, now)
	eval := Classify(matches)

	e.mu.Lock()
	defer e.mu.Unlock()

	openSet := e.open[tripID]
	res := Result{Evaluation: eval}

	containedNow := make(map[int64]bool, len(matches))
	for _, m := range matches {
		if !m.Contained {
			continue
		}
		containedNow[m.AreaID] = true
		if !openSet[m.AreaID] {
			if openSet == nil {
				openSet = make(map[int64]bool)
				e.open[tripID] = openSet
			}
			openSet[m.AreaID] = true
			res.Opened = append(res.Opened, m)
		}
	}

	for areaID := range openSet {
		if !containedNow[areaID] {
			delete(openSet, areaID)
			res.Closed = append(res.Closed, areaID)
		}
	}
	if len(openSet) == 0 {
		delete(e.open, tripID)
	}

	return res
}

// OpenViolations returns the area ids currently open for a trip.
func (e *Evaluator) OpenViolations(tripID string) []int64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]int64, 0, len(e.open[tripID]))
	for id := range e.open[tripID] {
		ids = append(ids, id)
	}
	return ids
}

// ClearTrip drops all open-violation state for a finished trip.
func (e *Evaluator) ClearTrip(tripID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.open, tripID)
}
