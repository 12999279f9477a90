package geo

import "math"

const (
	earthRadiusM = 6371000

	degToRad = math.Pi / 180
	// meters per degree of latitude, good enough at area scale
	metersPerDegree = 111320
)

type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Ring is an ordered, closed polygon ring of (lon, lat) vertices. The
// closing vertex may be repeated or omitted, both forms are accepted.
type Ring []Point

// Polygon is a simple polygon: one outer ring and optional holes.
type Polygon struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes,omitempty"`
}

// Haversine returns the great-circle distance between two points in meters.
func Haversine(a, b Point) float64 {
	lat1 := a.Latitude * degToRad
	lat2 := b.Latitude * degToRad
	dLat := (b.Latitude - a.Latitude) * degToRad
	dLon := (b.Longitude - a.Longitude) * degToRad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusM * c
}

// vertices returns the ring without a repeated closing vertex.
func (r Ring) vertices() Ring {
	if len(r) > 1 && r[0] == r[len(r)-1] {
		return r[:len(r)-1]
	}
	return r
}

// Contains reports whether p lies inside the ring using a ray-casting
// crossing test over planar (lon, lat). A point sitting exactly on a
// vertex counts as contained. Rings with fewer than 3 distinct vertices
// contain nothing.
func (r Ring) Contains(p Point) bool {
	vs := r.vertices()
	if len(vs) < 3 {
		return false
	}

	for _, v := range vs {
		if v.Latitude == p.Latitude && v.Longitude == p.Longitude {
			return true
		}
	}

	x, y := p.Longitude, p.Latitude
	inside := false
	n := len(vs)
	for i := 0; i < n; i++ {
		x1, y1 := vs[i].Longitude, vs[i].Latitude
		x2, y2 := vs[(i+1)%n].Longitude, vs[(i+1)%n].Latitude

		if (y1 > y) != (y2 > y) && x < (x2-x1)*(y-y1)/(y2-y1)+x1 {
			inside = !inside
		}
	}
	return inside
}

// DistanceToBoundary returns the minimum distance in meters from p to any
// edge of the ring. The planar point-to-segment distance is scaled to
// meters with an equirectangular cos(lat) correction on the longitude
// axis, which is adequate for areas spanning tens of kilometers.
func (r Ring) DistanceToBoundary(p Point) float64 {
	vs := r.vertices()
	if len(vs) == 0 {
		return math.Inf(1)
	}

	cosLat := math.Cos(p.Latitude * degToRad)
	min := math.Inf(1)
	n := len(vs)
	for i := 0; i < n; i++ {
		a := vs[i]
		b := vs[(i+1)%n]
		d := pointToSegmentMeters(p, a, b, cosLat)
		if d < min {
			min = d
		}
	}
	return min
}

func (pg Polygon) Contains(p Point) bool {
	if !pg.Outer.Contains(p) {
		return false
	}
	for _, hole := range pg.Holes {
		if hole.Contains(p) {
			return false
		}
	}
	return true
}

func (pg Polygon) DistanceToBoundary(p Point) float64 {
	min := pg.Outer.DistanceToBoundary(p)
	for _, hole := range pg.Holes {
		if d := hole.DistanceToBoundary(p); d < min {
			min = d
		}
	}
	return min
}

// pointToSegmentMeters projects p onto segment ab in a local planar frame
// with the longitude axis scaled by cosLat, then converts to meters.
func pointToSegmentMeters(p, a, b Point, cosLat float64) float64 {
	px := p.Longitude * cosLat
	py := p.Latitude
	ax := a.Longitude * cosLat
	ay := a.Latitude
	bx := b.Longitude * cosLat
	by := b.Latitude

	dx := bx - ax
	dy := by - ay

	lenSq := dx*dx + dy*dy
	t := 0.0
	if lenSq > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / lenSq
		t = math.Max(0, math.Min(1, t))
	}

	cx := ax + t*dx
	cy := ay + t*dy

	ddx := px - cx
	ddy := py - cy
	return math.Sqrt(ddx*ddx+ddy*ddy) * metersPerDegree
}
