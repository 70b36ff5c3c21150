package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/api/handlers"
	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/config"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/report"
	"github.com/demandhub/backend/internal/services"
)

// Services bundles the long-lived services the routes are wired to.
type Services struct {
	Records       *services.RecordStore
	Audit         *services.AuditService
	Auth          *services.AuthService
	Backups       *services.BackupService
	Import        *services.ImportService
	Exporter      *report.Exporter
	StorageDriver string
}

// Register wires up the versioned API.
func Register(router *gin.Engine, svc Services, cfg config.Config) {
	locale := report.LocaleFor(cfg.ReportLocale)

	healthHandler := handlers.NewHealthHandler(svc.Records, svc.StorageDriver)
	authHandler := handlers.NewAuthHandler(svc.Auth, svc.Audit, cfg.IsProduction())
	recordHandler := handlers.NewRecordHandler(svc.Records, locale.Labels)
	accessHandler := handlers.NewAccessHandler(svc.Auth, svc.Audit)
	statsHandler := handlers.NewStatsHandler(svc.Records)
	reportHandler := handlers.NewReportHandler(svc.Records, svc.Audit, svc.Exporter)
	dataHandler := handlers.NewDataHandler(svc.Records, svc.Audit, svc.Import)
	auditHandler := handlers.NewAuditHandler(svc.Audit)
	backupHandler := handlers.NewBackupHandler(svc.Backups, svc.Audit)

	api := router.Group("/api/v1")
	api.GET("/health", healthHandler.Check)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(svc.Auth))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		protected.GET("/records", recordHandler.List)
		protected.GET("/records/:id", recordHandler.Get)
		protected.GET("/categories", recordHandler.Categories)
		protected.POST("/comarcas/:comarca/unlock", accessHandler.Unlock)

		stats := protected.Group("/stats")
		stats.GET("/regions", statsHandler.Regions)
		stats.GET("/regions/:region/comarcas", statsHandler.RegionComarcas)
		stats.GET("/categories", statsHandler.Categories)
		stats.GET("/kpis", statsHandler.KPIs)
		stats.GET("/comarcas/:comarca/history", statsHandler.History)

		protected.GET("/reports/export", reportHandler.Export)
	}

	writers := protected.Group("")
	writers.Use(middleware.RequireRole(models.RoleAdmin, models.RoleManager))
	{
		writers.PATCH("/records/:id", recordHandler.Update)
		writers.POST("/data/import", dataHandler.Import)
		writers.GET("/data/dump", dataHandler.Dump)
	}

	admin := protected.Group("")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/data/restore", dataHandler.Restore)
		admin.GET("/audit", auditHandler.List)

		backups := admin.Group("/backups")
		backups.GET("", backupHandler.List)
		backups.POST("", backupHandler.Create)
		backups.POST("/:filename/restore", backupHandler.Restore)
		backups.DELETE("/:filename", backupHandler.Delete)
		backups.GET("/:filename/download", backupHandler.Download)
	}
}
