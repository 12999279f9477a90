package db

import (
	"context"
	"fmt"

	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/ports"
)

type SegmentRepo struct {
	db *DB
}

func NewSegmentRepo(db *DB) ports.ISegmentRepo {
	return &SegmentRepo{
		db: db,
	}
}

func (sr *SegmentRepo) InsertSegment(ctx context.Context, seg *model.RouteSegment) error {
	q := `INSERT INTO route_segments(
			segment_id,
			trip_id,
			segment_type,
			fix_count,
			total_distance_meters,
			total_duration_seconds,
			avg_speed_ms,
			max_speed_ms,
			started_at,
			completed_at,
			is_completed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (segment_id) DO NOTHING`

	_, err := sr.db.conn.Exec(ctx, q,
		seg.ID,
		seg.TripID,
		seg.SegmentType,
		seg.FixCount,
		seg.TotalDistanceMeters,
		seg.TotalDurationSeconds,
		seg.AvgSpeedMS,
		seg.MaxSpeedMS,
		seg.StartedAt,
		seg.CompletedAt,
		seg.IsCompleted,
	)
	if err != nil {
		return fmt.Errorf("insert segment %s: %w", seg.ID, err)
	}
	return nil
}
