package db

import (
	"context"
	"errors"
	"fmt"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/myerrors"
	"tourguard/internal/tracking-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type DeviceRepo struct {
	db *DB
}

func NewDeviceRepo(db *DB) ports.IDeviceRepo {
	return &DeviceRepo{
		db: db,
	}
}

func (dr *DeviceRepo) FindByID(ctx context.Context, deviceID string) (*model.TrackingDevice, error) {
	q := `SELECT
			device_id,
			api_key_hash,
			status,
			last_latitude,
			last_longitude,
			last_seen_at,
			created_at,
			updated_at
		FROM tracking_devices WHERE device_id = $1`

	var d model.TrackingDevice
	row := dr.db.conn.QueryRow(ctx, q, deviceID)
	err := row.Scan(
		&d.ID,
		&d.APIKeyHash,
		&d.Status,
		&d.LastLatitude,
		&d.LastLongitude,
		&d.LastSeenAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", myerrors.ErrDeviceNotFound, deviceID)
	}
	if err != nil {
		return nil, fmt.Errorf("find device %s: %w", deviceID, err)
	}
	return &d, nil
}

func (dr *DeviceRepo) TouchLastSeen(ctx context.Context, deviceID string, lat, lon float64) error {
	q := `UPDATE tracking_devices
		SET
			last_latitude = $2,
			last_longitude = $3,
			last_seen_at = NOW(),
			updated_at = NOW()
		WHERE device_id = $1`

	_, err := dr.db.conn.Exec(ctx, q, deviceID, lat, lon)
	if err != nil {
		return fmt.Errorf("touch device %s: %w", deviceID, err)
	}
	return nil
}
