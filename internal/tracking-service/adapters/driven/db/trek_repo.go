package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
	"tourguard/internal/tracking-service/core/myerrors"
	"tourguard/internal/tracking-service/core/ports"

	"github.com/jackc/pgx/v5"
)

type TrekPathRepo struct {
	db *DB
}

func NewTrekPathRepo(db *DB) ports.ITrekPathRepo {
	return &TrekPathRepo{
		db: db,
	}
}

func (tr *TrekPathRepo) GetByTrekID(ctx context.Context, trekID string) (*model.TrekPath, error) {
	q := `SELECT
			path_id,
			trek_id,
			name,
			waypoints,
			total_distance_meters,
			estimated_duration_hours,
			elevation_gain_meters,
			safety_notes
		FROM trek_paths WHERE trek_id = $1`

	var (
		p        model.TrekPath
		jsonData []byte
	)
	row := tr.db.conn.QueryRow(ctx, q, trekID)
	err := row.Scan(
		&p.ID,
		&p.TrekID,
		&p.Name,
		&jsonData,
		&p.TotalDistanceMeters,
		&p.EstimatedDurationHours,
		&p.ElevationGainMeters,
		&p.SafetyNotes,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: trek %s", myerrors.ErrMissingSpatialData, trekID)
	}
	if err != nil {
		return nil, fmt.Errorf("load trek path %s: %w", trekID, err)
	}

	var waypoints []geo.Point
	if err := json.Unmarshal(jsonData, &waypoints); err != nil {
		return nil, fmt.Errorf("unmarshal waypoints for trek %s: %w", trekID, err)
	}
	p.Waypoints = waypoints
	return &p, nil
}
