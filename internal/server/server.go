package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/api/routes"
	"github.com/demandhub/backend/internal/config"
	"github.com/demandhub/backend/internal/logger"
	"github.com/demandhub/backend/internal/metrics"
	"github.com/demandhub/backend/internal/report"
	"github.com/demandhub/backend/internal/services"
	"github.com/demandhub/backend/internal/storage"
)

// Server wraps the HTTP engine and shared dependencies for easier testing.
type Server struct {
	Engine   *gin.Engine
	Services routes.Services
	cfg      config.Config
}

// New opens the snapshot store, loads records and the audit log, and wires
// the router. registry may be nil to skip metrics registration.
func New(ctx context.Context, db *gorm.DB, cfg config.Config, registry *prometheus.Registry) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)
	if cfg.Environment == "development" {
		gin.SetMode(gin.DebugMode)
	}

	store, err := storage.Open(ctx, cfg, db)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	svc, err := Bootstrap(ctx, db, store, cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(cfg.Debug),
		middleware.RequestLogger(),
		middleware.SecurityHeaders(middleware.SecurityHeadersConfig{IsDevelopment: !cfg.IsProduction()}),
	)
	if registry != nil {
		metrics.Register(registry)
		router.Use(metrics.Middleware())
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}

	routes.Register(router, svc, cfg)
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return &Server{Engine: router, Services: svc, cfg: cfg}, nil
}

// Bootstrap builds the services on top of an opened snapshot store.
func Bootstrap(ctx context.Context, db *gorm.DB, store storage.Store, cfg config.Config) (routes.Services, error) {
	notifier := services.NewNotificationService(cfg.NotifyURLs)
	records := services.NewRecordStore(store, notifier)
	if err := records.Load(ctx); err != nil {
		return routes.Services{}, err
	}
	audit := services.NewAuditService(store)
	if err := audit.Load(ctx); err != nil {
		return routes.Services{}, err
	}

	return routes.Services{
		Records:       records,
		Audit:         audit,
		Auth:          services.NewAuthService(db, cfg),
		Backups:       services.NewBackupService(&cfg, records),
		Import:        services.NewImportService(audit),
		Exporter:      report.NewExporter(report.LocaleFor(cfg.ReportLocale)),
		StorageDriver: store.Driver(),
	}, nil
}

// Run starts the HTTP server and the backup scheduler, and shuts both down
// when ctx ends.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.HTTPPort),
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.Services.Backups.Start()
	defer s.Services.Backups.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Log().WithField("port", s.cfg.HTTPPort).Info("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
