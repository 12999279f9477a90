package myhttp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tourguard/internal/config"
	"tourguard/internal/mylogger"
	"tourguard/internal/tracking-service/adapters/driven/bm"
	"tourguard/internal/tracking-service/adapters/driven/cache"
	"tourguard/internal/tracking-service/adapters/driven/db"
	"tourguard/internal/tracking-service/adapters/driver/myhttp/handle"
	"tourguard/internal/tracking-service/adapters/driver/myhttp/middleware"
	"tourguard/internal/tracking-service/adapters/driver/myhttp/ws"
	"tourguard/internal/tracking-service/core/geofence"
	"tourguard/internal/tracking-service/core/ports"
	"tourguard/internal/tracking-service/core/services"
)

var ErrServerClosed = errors.New("Server closed")

const WaitTime = 10

type Server struct {
	mux    *http.ServeMux
	cfg    *config.Config
	srv    *http.Server
	mylog  mylogger.Logger
	db     *db.DB
	mb     ports.IAlertBroker
	areas  *cache.CachedAreaSource
	ctx    context.Context
	appCtx context.Context
	mu     sync.Mutex
	wg     sync.WaitGroup
}

func NewServer(ctx, appCtx context.Context, mylog mylogger.Logger, cfg *config.Config) *Server {
	s := &Server{
		ctx:    ctx,
		appCtx: appCtx,
		cfg:    cfg,
		mylog:  mylog,
		mux:    http.NewServeMux(),
	}

	return s
}

// Run initializes routes and starts listening. It returns when the server stops.
func (s *Server) Run() error {
	mylog := s.mylog.Action("server_started")

	// Initialize database connection
	if err := db.Migrate(s.cfg.DB.URL()); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	database, err := db.New(s.ctx, s.cfg.DB, mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = database
	mylog.Info("Successful database connection")

	// Initialize RabbitMQ connection
	mb, err := bm.New(s.appCtx, *s.cfg.RabbitMq, s.mylog)
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	s.mb = mb
	mylog.Info("Successful message broker connection")

	// Configure routes and handlers
	s.Configure()

	s.mu.Lock()
	s.srv = &http.Server{
		Addr:    fmt.Sprintf(":%v", s.cfg.Srv.TrackingServicePort),
		Handler: s.mux,
	}
	s.mu.Unlock()

	mylog = mylog.WithGroup("details").With("port", s.cfg.Srv.TrackingServicePort)

	mylog.Info("server is running")
	return s.startHTTPServer()
}

// Stop provides a programmatic shutdown. Accepts a context for timeout control.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mylog.Info("Shutting down HTTP server...")

	s.wg.Wait()

	if s.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, WaitTime*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.mylog.Error("Failed to shut down HTTP server gracefully", err)
			return fmt.Errorf("http server shutdown: %w", err)
		}
	}

	if s.mb != nil {
		if err := s.mb.Close(); err != nil {
			s.mylog.Error("Failed to close message broker", err)
		}
	}

	if s.areas != nil {
		if err := s.areas.Close(); err != nil {
			s.mylog.Error("Failed to close area cache", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.mylog.Error("Failed to close database", err)
			return fmt.Errorf("db close: %w", err)
		}
		s.mylog.Info("Database closed")
	}

	s.mylog.Info("HTTP server shut down gracefully")
	return nil
}

func (s *Server) startHTTPServer() error {
	errCh := make(chan error, 1)

	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		} else {
			errCh <- nil
		}
	}()

	select {
	case <-s.ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Configure wires repositories, the geofence index and the tracking core
// into the HTTP routes.
func (s *Server) Configure() {
	// Repositories
	tripRepo := db.NewTripRepo(s.db)
	locationRepo := db.NewLocationRepo(s.db)
	segmentRepo := db.NewSegmentRepo(s.db)
	violationRepo := db.NewViolationRepo(s.db)
	trekRepo := db.NewTrekPathRepo(s.db)
	deviceRepo := db.NewDeviceRepo(s.db)

	// area pipeline: postgres behind a redis snapshot
	areaSource := cache.New(s.cfg.Redis, db.NewAreaRepo(s.db), s.mylog)
	s.areas = areaSource

	index := geofence.NewAreaIndex()
	refresher := services.NewAreaRefresher(s.mylog, index, areaSource,
		time.Duration(s.cfg.Tracking.AreaRefreshSeconds)*time.Second)
	go refresher.Run(s.appCtx)

	// websocket fan-out
	dispatcher := ws.NewDispatcher(s.mylog)

	// services
	trackingService := services.NewTrackingService(s.appCtx, s.mylog,
		services.Tuning{
			ArrivalRadiusM:   s.cfg.Tracking.ArrivalRadiusMeters,
			ReorderTolerance: time.Duration(s.cfg.Tracking.ReorderToleranceSeconds) * time.Second,
			FutureSkew:       time.Duration(s.cfg.Tracking.FutureSkewSeconds) * time.Second,
		},
		geofence.NewEvaluator(index),
		services.Collaborators{
			TripRepo:  tripRepo,
			LocRepo:   locationRepo,
			SegRepo:   segmentRepo,
			VioRepo:   violationRepo,
			TrekRepo:  trekRepo,
			DevRepo:   deviceRepo,
			Alerts:    s.mb,
			Websocket: dispatcher,
		})
	geofenceService := services.NewGeofenceService(index)

	// handlers
	trackingHandler := handle.NewTrackingHandler(trackingService, s.mylog)
	geofenceHandler := handle.NewGeofenceHandler(geofenceService, s.mylog)

	authMiddleware := middleware.NewAuthMiddleware(s.cfg.Srv.PublicJwtSecret)

	// Register routes
	s.mux.Handle("POST /trips/{trip_id}/start-day", authMiddleware.Wrap(trackingHandler.StartDay()))
	s.mux.Handle("POST /trips/{trip_id}/locations", trackingHandler.SubmitLocation())
	s.mux.Handle("POST /trips/{trip_id}/visiting", authMiddleware.Wrap(trackingHandler.MarkVisiting()))
	s.mux.Handle("POST /trips/{trip_id}/return-to-hotel", authMiddleware.Wrap(trackingHandler.ReturnToHotel()))
	s.mux.Handle("POST /trips/{trip_id}/link-device", authMiddleware.Wrap(trackingHandler.LinkDevice()))
	s.mux.Handle("POST /trips/{trip_id}/start-trek", authMiddleware.Wrap(trackingHandler.StartTrek()))
	s.mux.Handle("POST /trips/{trip_id}/end-trek", authMiddleware.Wrap(trackingHandler.EndTrek()))
	s.mux.Handle("POST /trips/{trip_id}/cancel", authMiddleware.Wrap(trackingHandler.Cancel()))

	s.mux.Handle("GET /trips/{trip_id}/phase", trackingHandler.GetPhase())
	s.mux.Handle("GET /trips/{trip_id}/segments/active", trackingHandler.GetActiveSegment())
	s.mux.Handle("GET /trips/{trip_id}/stats", trackingHandler.GetStats())

	s.mux.Handle("POST /geofence/check", geofenceHandler.CheckPoint())
	s.mux.Handle("GET /geofence/block-areas", geofenceHandler.BlockAreas())

	// websocket routes
	s.mux.Handle("/ws/trips/{trip_id}", dispatcher.WatchHandler())
}
