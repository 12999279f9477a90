package services

import (
	"context"
	"time"

	"tourguard/internal/mylogger"
	"tourguard/internal/tracking-service/core/geofence"
	"tourguard/internal/tracking-service/core/ports"
)

// AreaRefresher keeps the area index current by polling the Restricted
// Area Source. A failed fetch leaves the last snapshot in place; the
// index never goes empty because storage hiccuped.
type AreaRefresher struct {
	mylog    mylogger.Logger
	index    *geofence.AreaIndex
	source   ports.IAreaSource
	interval time.Duration
}

func NewAreaRefresher(log mylogger.Logger, index *geofence.AreaIndex, source ports.IAreaSource, interval time.Duration) *AreaRefresher {
	return &AreaRefresher{
		mylog:    log,
		index:    index,
		source:   source,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled, refreshing on the configured
// interval after one immediate load.
func (r *AreaRefresher) Run(ctx context.Context) {
	log := r.mylog.Action("area_refresh")

	r.RefreshNow(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("area refresher stopped")
			return
		case <-ticker.C:
			r.RefreshNow(ctx)
		}
	}
}

// RefreshNow pulls one snapshot. Returns false when the source failed and
// the previous snapshot was kept.
func (r *AreaRefresher) RefreshNow(ctx context.Context) bool {
	log := r.mylog.Action("area_refresh")

	fetchCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	areas, err := r.source.FetchActive(fetchCtx)
	if err != nil {
		log.Warn("area source unavailable, keeping last snapshot",
			"version", r.index.Version(), "error", err.Error())
		return false
	}

	r.index.Replace(areas)
	log.Info("area snapshot replaced", "areas", len(areas), "version", r.index.Version())
	return true
}
