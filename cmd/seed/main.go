package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/demandhub/backend/internal/config"
	"github.com/demandhub/backend/internal/database"
	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/logger"
	"github.com/demandhub/backend/internal/storage"
)

// Writes a fresh demo data set to the configured snapshot store. An existing
// snapshot is kept unless --force is given.
func main() {
	logger.Init(false, os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.Log().WithError(err).Fatal("load config")
	}
	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		logger.Log().WithError(err).Fatal("connect database")
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg, db)
	if err != nil {
		logger.Log().WithError(err).Fatal("open storage")
	}

	force := len(os.Args) > 1 && os.Args[1] == "--force"
	if _, err := store.Get(ctx, storage.KeyRecords); err == nil && !force {
		logger.Log().WithField("driver", store.Driver()).Info("Snapshot already present, use --force to overwrite")
		return
	} else if err != nil && !errors.Is(err, storage.ErrNotFound) {
		logger.Log().WithError(err).Fatal("read snapshot")
	}

	records := demand.Seed(nil, time.Now())
	data, err := json.Marshal(records)
	if err != nil {
		logger.Log().WithError(err).Fatal("encode records")
	}
	if err := store.Set(ctx, storage.KeyRecords, data); err != nil {
		logger.Log().WithError(err).Fatal("write snapshot")
	}
	if force {
		if err := store.Clear(ctx, storage.KeyAuditLog); err != nil {
			logger.Log().WithError(err).Warn("Failed to clear audit log")
		}
	}

	logger.Log().WithField("records", len(records)).WithField("driver", store.Driver()).Info("✓ Demo data seeded")
}
