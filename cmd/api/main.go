package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/gorm"

	"github.com/demandhub/backend/internal/config"
	"github.com/demandhub/backend/internal/database"
	"github.com/demandhub/backend/internal/logger"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/server"
	"github.com/demandhub/backend/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("load config")
	}

	// Setup logging with rotation
	if err := os.MkdirAll(cfg.LogDir(), 0o755); err != nil {
		logger.Log().WithError(err).Fatal("create log directory")
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir(), "demand.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	defer rotator.Close()

	// Log to both stdout and file
	logger.Init(cfg.Debug, io.MultiWriter(os.Stdout, rotator))

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		logger.Log().WithError(err).Fatal("connect database")
	}

	// Handle CLI commands
	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		resetPassword(db, os.Args[2:])
		return
	}

	logger.Log().WithField("version", version.Full()).Infof("starting %s backend", version.Name)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, db, cfg, registry)
	if err != nil {
		logger.Log().WithError(err).Fatal("build server")
	}
	if err := srv.Run(ctx); err != nil {
		logger.Log().WithError(err).Fatal("server error")
	}
	logger.Log().Info("server stopped")
}

// resetPassword sets a new password and clears any lockout.
func resetPassword(db *gorm.DB, args []string) {
	if len(args) != 2 {
		logger.Log().Fatalf("Usage: %s reset-password <username> <new-password>", os.Args[0])
	}
	username, newPassword := strings.ToLower(args[0]), args[1]

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		logger.Log().WithError(err).Fatal("user not found")
	}
	if err := user.SetPassword(newPassword); err != nil {
		logger.Log().WithError(err).Fatal("failed to hash password")
	}
	user.LockedUntil = nil
	user.FailedLoginAttempts = 0

	if err := db.Save(&user).Error; err != nil {
		logger.Log().WithError(err).Fatal("failed to save user")
	}
	logger.Log().WithField("username", username).Info("Password updated")
}
