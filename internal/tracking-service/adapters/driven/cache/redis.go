package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tourguard/internal/config"
	"tourguard/internal/mylogger"
	"tourguard/internal/tracking-service/core/domain/model"
	"tourguard/internal/tracking-service/core/geo"
	"tourguard/internal/tracking-service/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotKey = "tourguard:restricted_areas"
	snapshotTTL = 24 * time.Hour
)

// CachedAreaSource wraps the primary area source with a Redis snapshot:
// successful fetches refresh the cache, a failed fetch falls back to the
// last cached snapshot so the geofence keeps evaluating through database
// outages.
type CachedAreaSource struct {
	primary ports.IAreaSource
	rc      *redis.Client
	mylog   mylogger.Logger
}

func New(cfg *config.Redisconfig, primary ports.IAreaSource, mylog mylogger.Logger) *CachedAreaSource {
	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &CachedAreaSource{
		primary: primary,
		rc:      rc,
		mylog:   mylog,
	}
}

var _ ports.IAreaSource = (*CachedAreaSource)(nil)

// cachedArea is the wire form of a restricted area in the snapshot; the
// boundary travels as WKT.
type cachedArea struct {
	ID                   int64      `json:"id"`
	Name                 string     `json:"name"`
	Description          string     `json:"description,omitempty"`
	AreaType             string     `json:"area_type,omitempty"`
	Status               string     `json:"status"`
	BoundaryWKT          string     `json:"boundary_wkt"`
	SeverityLevel        int        `json:"severity_level"`
	BufferDistanceMeters float64    `json:"buffer_distance_meters"`
	ValidFrom            *time.Time `json:"valid_from,omitempty"`
	ValidUntil           *time.Time `json:"valid_until,omitempty"`
}

func (c *CachedAreaSource) FetchActive(ctx context.Context) ([]model.RestrictedArea, error) {
	log := c.mylog.Action("FetchActive")

	areas, err := c.primary.FetchActive(ctx)
	if err == nil {
		c.store(ctx, areas)
		return areas, nil
	}

	log.Warn("primary area source failed, trying cached snapshot")
	cached, cacheErr := c.load(ctx)
	if cacheErr != nil {
		return nil, fmt.Errorf("area source unavailable: %w", err)
	}
	return cached, nil
}

func (c *CachedAreaSource) Close() error {
	return c.rc.Close()
}

func (c *CachedAreaSource) store(ctx context.Context, areas []model.RestrictedArea) {
	wire := make([]cachedArea, 0, len(areas))
	for _, a := range areas {
		wire = append(wire, cachedArea{
			ID:                   a.ID,
			Name:                 a.Name,
			Description:          a.Description,
			AreaType:             a.AreaType,
			Status:               a.Status,
			BoundaryWKT:          a.Boundary.ToWKT(),
			SeverityLevel:        a.SeverityLevel,
			BufferDistanceMeters: a.BufferDistanceMeters,
			ValidFrom:            a.ValidFrom,
			ValidUntil:           a.ValidUntil,
		})
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return
	}
	if err := c.rc.Set(ctx, snapshotKey, b, snapshotTTL).Err(); err != nil {
		c.mylog.Action("area_cache_store").Warn("failed to cache area snapshot")
	}
}

func (c *CachedAreaSource) load(ctx context.Context) ([]model.RestrictedArea, error) {
	b, err := c.rc.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		return nil, fmt.Errorf("read area snapshot: %w", err)
	}

	var wire []cachedArea
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, fmt.Errorf("unmarshal area snapshot: %w", err)
	}

	areas := make([]model.RestrictedArea, 0, len(wire))
	for _, w := range wire {
		poly, err := geo.ParseWKTPolygon(w.BoundaryWKT)
		if err != nil {
			continue
		}
		areas = append(areas, model.RestrictedArea{
			ID:                   w.ID,
			Name:                 w.Name,
			Description:          w.Description,
			AreaType:             w.AreaType,
			Status:               w.Status,
			Boundary:             poly,
			SeverityLevel:        w.SeverityLevel,
			BufferDistanceMeters: w.BufferDistanceMeters,
			ValidFrom:            w.ValidFrom,
			ValidUntil:           w.ValidUntil,
		})
	}
	return areas, nil
}
