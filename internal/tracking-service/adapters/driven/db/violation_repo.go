package db

import (
	"context"
	"fmt"

	"tourguard/internal/tracking-service/core/ports"
)

type ViolationRepo struct {
	db *DB
}

func NewViolationRepo(db *DB) ports.IViolationRepo {
	return &ViolationRepo{
		db: db,
	}
}

func (vr *ViolationRepo) OpenViolation(ctx context.Context, tripID string, areaID int64, lat, lon float64) error {
	q := `INSERT INTO geofence_violations(
			trip_id,
			area_id,
			entry_lat,
			entry_lon
		) VALUES ($1, $2, $3, $4)`

	_, err := vr.db.conn.Exec(ctx, q, tripID, areaID, lat, lon)
	if err != nil {
		return fmt.Errorf("open violation trip=%s area=%d: %w", tripID, areaID, err)
	}
	return nil
}

func (vr *ViolationRepo) CloseViolation(ctx context.Context, tripID string, areaID int64) error {
	q := `UPDATE geofence_violations
		SET
			exited_at = NOW(),
			is_resolved = TRUE
		WHERE trip_id = $1 AND area_id = $2 AND NOT is_resolved`

	_, err := vr.db.conn.Exec(ctx, q, tripID, areaID)
	if err != nil {
		return fmt.Errorf("close violation trip=%s area=%d: %w", tripID, areaID, err)
	}
	return nil
}
