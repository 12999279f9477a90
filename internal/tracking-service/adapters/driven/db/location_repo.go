package db

import (
	"context"
	"fmt"
	"time"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/ports"
)

type LocationRepo struct {
	db *DB
}

func NewLocationRepo(db *DB) ports.ILocationRepo {
	return &LocationRepo{
		db: db,
	}
}

func (lr *LocationRepo) InsertFix(ctx context.Context, fix *model.LocationFix) error {
	q := `INSERT INTO location_histories(
			trip_id,
			latitude,
			longitude,
			altitude,
			accuracy,
			speed,
			bearing,
			source,
			device_id,
			recorded_at,
			received_at,
			phase_at_receipt,
			is_valid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)`

	_, err := lr.db.conn.Exec(ctx, q,
		fix.TripID,
		fix.Latitude,
		fix.Longitude,
		fix.Altitude,
		fix.Accuracy,
		fix.Speed,
		fix.Bearing,
		fix.Source,
		fix.DeviceID,
		fix.Timestamp,
		fix.ReceivedAt,
		fix.PhaseAtReceipt,
	)
	if err != nil {
		return fmt.Errorf("insert fix for trip %s: %w", fix.TripID, err)
	}
	return nil
}

func (lr *LocationRepo) InsertRejectedRaw(ctx context.Context, tripID string, lat, lon float64, reason string) error {
	q := `INSERT INTO location_histories(
			trip_id,
			latitude,
			longitude,
			source,
			recorded_at,
			received_at,
			phase_at_receipt,
			is_valid,
			reject_reason
		) VALUES ($1, $2, $3, '', $4, $4, '', FALSE, $5)`

	now := time.Now().UTC()
	_, err := lr.db.conn.Exec(ctx, q, tripID, lat, lon, now, reason)
	if err != nil {
		return fmt.Errorf("insert rejected fix for trip %s: %w", tripID, err)
	}
	return nil
}
