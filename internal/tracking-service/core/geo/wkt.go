package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// ToWKT renders the polygon's outer ring as a WKT POLYGON string,
// longitude before latitude, first vertex repeated as last. This is the
// exact format routing engines expect for block areas.
func (pg Polygon) ToWKT() string {
	vs := pg.Outer.vertices()
	if len(vs) == 0 {
		return "POLYGON EMPTY"
	}

	var sb strings.Builder
	sb.WriteString("POLYGON((")
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(", ")
		}
		writeCoord(&sb, v)
	}
	sb.WriteString(", ")
	writeCoord(&sb, vs[0])
	sb.WriteString("))")
	return sb.String()
}

// ParseWKTPolygon parses a POLYGON((lon lat, ...)) string as written by
// ST_AsText. A repeated closing vertex is dropped.
func ParseWKTPolygon(wkt string) (Polygon, error) {
	s := strings.TrimSpace(wkt)
	if !strings.HasPrefix(s, "POLYGON((") || !strings.HasSuffix(s, "))") {
		return Polygon{}, fmt.Errorf("not a WKT polygon: %q", wkt)
	}
	s = strings.TrimSuffix(strings.TrimPrefix(s, "POLYGON(("), "))")

	var ring Ring
	for _, pair := range strings.Split(s, ",") {
		fields := strings.Fields(pair)
		if len(fields) != 2 {
			return Polygon{}, fmt.Errorf("bad coordinate pair %q in %q", pair, wkt)
		}
		lon, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return Polygon{}, fmt.Errorf("bad longitude %q: %w", fields[0], err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Polygon{}, fmt.Errorf("bad latitude %q: %w", fields[1], err)
		}
		ring = append(ring, Point{Latitude: lat, Longitude: lon})
	}

	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return Polygon{}, fmt.Errorf("polygon needs at least 3 vertices, got %d", len(ring))
	}
	return Polygon{Outer: ring}, nil
}

func writeCoord(sb *strings.Builder, p Point) {
	sb.WriteString(strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatFloat(p.Latitude, 'f', -1, 64))
}
