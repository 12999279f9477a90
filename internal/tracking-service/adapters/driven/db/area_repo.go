package db

import (
	"context"
	"fmt"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
	"tourguard/internal/tracking-service/core/ports"
)

type AreaRepo struct {
	db *DB
}

func NewAreaRepo(db *DB) ports.IAreaSource {
	return &AreaRepo{
		db: db,
	}
}

// FetchActive loads every active restricted area. Rows with a boundary
// that fails to parse are skipped rather than failing the whole refresh.
func (ar *AreaRepo) FetchActive(ctx context.Context) ([]model.RestrictedArea, error) {
	q := `SELECT
			area_id,
			name,
			description,
			area_type,
			status,
			boundary_wkt,
			severity_level,
			buffer_distance_meters,
			valid_from,
			valid_until
		FROM restricted_areas
		WHERE status = 'active'`

	rows, err := ar.db.conn.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch restricted areas: %w", err)
	}
	defer rows.Close()

	log := ar.db.mylog.Action("FetchActive")
	var areas []model.RestrictedArea
	for rows.Next() {
		var (
			a   model.RestrictedArea
			wkt string
		)
		if err := rows.Scan(
			&a.ID,
			&a.Name,
			&a.Description,
			&a.AreaType,
			&a.Status,
			&wkt,
			&a.SeverityLevel,
			&a.BufferDistanceMeters,
			&a.ValidFrom,
			&a.ValidUntil,
		); err != nil {
			return nil, fmt.Errorf("scan restricted area: %w", err)
		}

		poly, err := geo.ParseWKTPolygon(wkt)
		if err != nil {
			log.Warn("skipping area with unparsable boundary", "area_id", a.ID)
			continue
		}
		a.Boundary = poly
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restricted areas: %w", err)
	}
	return areas, nil
}
