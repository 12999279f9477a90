package db

import (
	"context"
	"errors"
	"fmt"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
	"tourguard/internal/tracking-service/core/myerrors"
	"tourguard/internal/tracking-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type TripRepo struct {
	db *DB
}

func NewTripRepo(db *DB) ports.ITripRepo {
	return &TripRepo{
		db: db,
	}
}

func (tr *TripRepo) SaveTrip(ctx context.Context, t *model.Trip) error {
	q := `INSERT INTO trips(
			trip_id,
			tourist_id,
			trip_type,
			status,
			phase,
			hotel_lat,
			hotel_lon,
			hotel_name,
			destination_lat,
			destination_lon,
			destination_name,
			trek_id,
			trek_start_lat,
			trek_start_lon,
			trek_end_lat,
			trek_end_lon,
			linked_device_id,
			device_linked_at,
			is_tracking_active,
			tracking_started_at,
			tracking_ended_at,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
		ON CONFLICT (trip_id) DO UPDATE SET
			status              = EXCLUDED.status,
			phase               = EXCLUDED.phase,
			destination_lat     = EXCLUDED.destination_lat,
			destination_lon     = EXCLUDED.destination_lon,
			destination_name    = EXCLUDED.destination_name,
			trek_start_lat      = EXCLUDED.trek_start_lat,
			trek_start_lon      = EXCLUDED.trek_start_lon,
			trek_end_lat        = EXCLUDED.trek_end_lat,
			trek_end_lon        = EXCLUDED.trek_end_lon,
			linked_device_id    = EXCLUDED.linked_device_id,
			device_linked_at    = EXCLUDED.device_linked_at,
			is_tracking_active  = EXCLUDED.is_tracking_active,
			tracking_started_at = EXCLUDED.tracking_started_at,
			tracking_ended_at   = EXCLUDED.tracking_ended_at,
			updated_at          = EXCLUDED.updated_at`

	var (
		destLat, destLon           *float64
		trekStartLat, trekStartLon *float64
		trekEndLat, trekEndLon     *float64
	)
	if t.Destination != nil {
		destLat, destLon = &t.Destination.Latitude, &t.Destination.Longitude
	}
	if t.TrekStart != nil {
		trekStartLat, trekStartLon = &t.TrekStart.Latitude, &t.TrekStart.Longitude
	}
	if t.TrekEnd != nil {
		trekEndLat, trekEndLon = &t.TrekEnd.Latitude, &t.TrekEnd.Longitude
	}

	_, err := tr.db.conn.Exec(ctx, q,
		t.ID,
		t.TouristID,
		t.TripType,
		t.Status,
		t.Phase,
		t.Hotel.Latitude,
		t.Hotel.Longitude,
		t.HotelName,
		destLat,
		destLon,
		t.DestinationName,
		t.TrekID,
		trekStartLat,
		trekStartLon,
		trekEndLat,
		trekEndLon,
		t.LinkedDeviceID,
		t.DeviceLinkedAt,
		t.IsTrackingActive,
		t.TrackingStartedAt,
		t.TrackingEndedAt,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save trip %s: %w", t.ID, err)
	}
	return nil
}

func (tr *TripRepo) LoadTrip(ctx context.Context, tripID string) (*model.Trip, error) {
	q := `SELECT
			trip_id,
			tourist_id,
			trip_type,
			status,
			phase,
			hotel_lat,
			hotel_lon,
			hotel_name,
			destination_lat,
			destination_lon,
			destination_name,
			trek_id,
			trek_start_lat,
			trek_start_lon,
			trek_end_lat,
			trek_end_lon,
			linked_device_id,
			device_linked_at,
			is_tracking_active,
			tracking_started_at,
			tracking_ended_at,
			created_at,
			updated_at
		FROM trips WHERE trip_id = $1`

	var (
		t                          model.Trip
		destLat, destLon           *float64
		trekStartLat, trekStartLon *float64
		trekEndLat, trekEndLon     *float64
	)
	row := tr.db.conn.QueryRow(ctx, q, tripID)
	err := row.Scan(
		&t.ID,
		&t.TouristID,
		&t.TripType,
		&t.Status,
		&t.Phase,
		&t.Hotel.Latitude,
		&t.Hotel.Longitude,
		&t.HotelName,
		&destLat,
		&destLon,
		&t.DestinationName,
		&t.TrekID,
		&trekStartLat,
		&trekStartLon,
		&trekEndLat,
		&trekEndLon,
		&t.LinkedDeviceID,
		&t.DeviceLinkedAt,
		&t.IsTrackingActive,
		&t.TrackingStartedAt,
		&t.TrackingEndedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", myerrors.ErrTripNotFound, tripID)
	}
	if err != nil {
		return nil, fmt.Errorf("load trip %s: %w", tripID, err)
	}

	if destLat != nil && destLon != nil {
		t.Destination = &geo.Point{Latitude: *destLat, Longitude: *destLon}
	}
	if trekStartLat != nil && trekStartLon != nil {
		t.TrekStart = &geo.Point{Latitude: *trekStartLat, Longitude: *trekStartLon}
	}
	if trekEndLat != nil && trekEndLon != nil {
		t.TrekEnd = &geo.Point{Latitude: *trekEndLat, Longitude: *trekEndLon}
	}
	return &t, nil
}
