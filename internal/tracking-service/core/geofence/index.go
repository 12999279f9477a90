package geofence

import (
	"sort"
	"sync/atomic"
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
)

// AreaIndex holds the working set of restricted areas. Readers always see
// a complete snapshot: Replace swaps the whole set atomically, queries
// never observe a partial refresh.
type AreaIndex struct {
	snap atomic.Pointer[snapshot]
}

type snapshot struct {
	version  int64
	areas    []model.RestrictedArea
	loadedAt time.Time
}

func NewAreaIndex() *AreaIndex {
	idx := &AreaIndex{}
	idx.snap.Store(&snapshot{})
	return idx
}

// Replace installs a new working set. Called by the refresh loop; safe
// against concurrent queries.
func (idx *AreaIndex) Replace(areas []model.RestrictedArea) {
	prev := idx.snap.Load()
	next := &snapshot{
		version:  prev.version + 1,
		areas:    areas,
		loadedAt: time.Now().UTC(),
	}
	idx.snap.Store(next)
}

// Version returns the snapshot generation, starting at 0 before the first
// Replace.
func (idx *AreaIndex) Version() int64 {
	return idx.snap.Load().version
}

// Query returns every area that contains p or whose boundary lies within
// the area's buffer distance, ordered by severity descending then
// distance ascending. Inactive areas and areas outside their validity
// window contribute nothing.
func (idx *AreaIndex) Query(p geo.Point, now time.Time) []model.AreaMatch {
	snap := idx.snap.Load()

	var matches []model.AreaMatch
	for i := range snap.areas {
		a := &snap.areas[i]
		if !a.ValidAt(now) {
			continue
		}
		if len(a.Boundary.Outer) < 3 {
			// a missing boundary never fails the whole query
			continue
		}

		contained := a.Boundary.Contains(p)
		dist := a.Boundary.DistanceToBoundary(p)
		if !contained && dist > a.Buffer() {
			continue
		}
		if contained {
			dist = 0
		}

		matches = append(matches, model.AreaMatch{
			AreaID:         a.ID,
			Name:           a.Name,
			SeverityLevel:  a.SeverityLevel,
			Contained:      contained,
			DistanceMeters: dist,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].SeverityLevel != matches[j].SeverityLevel {
			return matches[i].SeverityLevel > matches[j].SeverityLevel
		}
		return matches[i].DistanceMeters < matches[j].DistanceMeters
	})
	return matches
}

// Snapshot returns the current working set for read-only consumers.
func (idx *AreaIndex) Snapshot() []model.RestrictedArea {
	return idx.snap.Load().areas
}

// BlockAreas renders the active areas as WKT POLYGON strings for the
// external road-routing service.
func (idx *AreaIndex) BlockAreas(now time.Time) []string {
	snap := idx.snap.Load()

	out := make([]string, 0, len(snap.areas))
	for i := range snap.areas {
		a := &snap.areas[i]
		if !a.ValidAt(now) || len(a.Boundary.Outer) < 3 {
			continue
		}
		out = append(out, a.Boundary.ToWKT())
	}
	return out
}
