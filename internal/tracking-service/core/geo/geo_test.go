package geo

import (
	"math"
	"testing"
)

var square = Ring{
	{Latitude: 28.5678, Longitude: 77.1234},
	{Latitude: 28.5678, Longitude: 77.1345},
	{Latitude: 28.5789, Longitude: 77.1345},
	{Latitude: 28.5789, Longitude: 77.1234},
}

func TestRingContains(t *testing.T) {
	tests := []struct {
		name string
		ring Ring
		p    Point
		want bool
	}{
		{"inside", square, Point{28.5700, 77.1250}, true},
		{"outside", square, Point{28.6000, 77.2000}, false},
		{"on vertex", square, Point{28.5678, 77.1234}, true},
		{"just outside west", square, Point{28.5700, 77.1230}, false},
		{"closed ring form", append(append(Ring{}, square...), square[0]), Point{28.5700, 77.1250}, true},
		{"degenerate two vertices", square[:2], Point{28.5678, 77.1300}, false},
		{"empty", Ring{}, Point{0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ring.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestPolygonHoles(t *testing.T) {
	hole := Ring{
		{Latitude: 28.5710, Longitude: 77.1260},
		{Latitude: 28.5710, Longitude: 77.1280},
		{Latitude: 28.5730, Longitude: 77.1280},
		{Latitude: 28.5730, Longitude: 77.1260},
	}
	pg := Polygon{Outer: square, Holes: []Ring{hole}}

	if !pg.Contains(Point{28.5690, 77.1240}) {
		t.Error("point in outer ring outside hole should be contained")
	}
	if pg.Contains(Point{28.5720, 77.1270}) {
		t.Error("point inside hole should not be contained")
	}
}

func TestHaversine(t *testing.T) {
	// Connaught Place to India Gate, roughly 2.2 km
	a := Point{28.6315, 77.2167}
	b := Point{28.6129, 77.2295}
	d := Haversine(a, b)
	if d < 2000 || d > 2800 {
		t.Errorf("Haversine = %.0f m, want roughly 2.2-2.5 km", d)
	}

	if d := Haversine(a, a); d != 0 {
		t.Errorf("Haversine of identical points = %v, want 0", d)
	}

	// symmetric
	if d1, d2 := Haversine(a, b), Haversine(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Haversine not symmetric: %v vs %v", d1, d2)
	}
}

func TestDistanceToBoundary(t *testing.T) {
	// Western edge of the square is at lon 77.1234. A point due west of the
	// edge midpoint is off by the lon delta scaled by cos(lat).
	p := Point{28.5730, 77.1200}
	want := 0.0034 * metersPerDegree * math.Cos(p.Latitude*degToRad)

	got := Polygon{Outer: square}.DistanceToBoundary(p)
	if math.Abs(got-want) > want*0.01 {
		t.Errorf("DistanceToBoundary = %.1f m, want ~%.1f m", got, want)
	}

	if d := (Ring{}).DistanceToBoundary(p); !math.IsInf(d, 1) {
		t.Errorf("empty ring distance = %v, want +Inf", d)
	}
}

func TestWKTRoundTrip(t *testing.T) {
	pg := Polygon{Outer: square}
	wkt := pg.ToWKT()

	want := "POLYGON((77.1234 28.5678, 77.1345 28.5678, 77.1345 28.5789, 77.1234 28.5789, 77.1234 28.5678))"
	if wkt != want {
		t.Errorf("ToWKT = %q, want %q", wkt, want)
	}

	back, err := ParseWKTPolygon(wkt)
	if err != nil {
		t.Fatalf("ParseWKTPolygon: %v", err)
	}
	if len(back.Outer) != len(square) {
		t.Fatalf("round trip vertex count = %d, want %d", len(back.Outer), len(square))
	}
	for i := range square {
		if back.Outer[i] != square[i] {
			t.Errorf("vertex %d = %v, want %v", i, back.Outer[i], square[i])
		}
	}
}

func TestParseWKTPolygonErrors(t *testing.T) {
	for _, bad := range []string{
		"",
		"LINESTRING(0 0, 1 1)",
		"POLYGON((1 x, 2 2, 3 3))",
		"POLYGON((1 1, 2 2))",
	} {
		if _, err := ParseWKTPolygon(bad); err == nil {
			t.Errorf("ParseWKTPolygon(%q) succeeded, want error", bad)
		}
	}
}
