// Package storage persists named snapshot blobs. The service keeps two of
// them: the record collection and the audit log.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"gorm.io/gorm"

	"github.com/demandhub/backend/internal/config"
)

// Blob keys used by the service.
const (
	KeyRecords  = "demand_app_data"
	KeyAuditLog = "demand_app_logs"
)

// ErrNotFound is returned by Get when no blob exists under the key.
var ErrNotFound = errors.New("snapshot not found")

// Store is a key-value blob store with get/set/clear semantics. Set always
// overwrites the whole value.
type Store interface {
	Driver() string
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Clear(ctx context.Context, key string) error
}

// Open builds the store selected by cfg. db is only used by the sqlite driver.
func Open(ctx context.Context, cfg config.Config, db *gorm.DB) (Store, error) {
	switch cfg.Storage.Driver {
	case "", DriverSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite snapshot driver requires a database")
		}
		return NewSQLStore(db), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFS:
		return NewFSStore(filepath.Join(cfg.DataDir, "snapshots"))
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			PathStyle: cfg.Storage.S3PathStyle,

			AccessKeyID:     cfg.Storage.S3AccessKeyID,
			SecretAccessKey: cfg.Storage.S3SecretAccessKey,
		})
	case DriverAzure:
		return NewAzureStore(AzureConfig{
			Account:   cfg.Storage.AzureAccount,
			Key:       cfg.Storage.AzureKey,
			Container: cfg.Storage.AzureContainer,
			Endpoint:  cfg.Storage.AzureEndpoint,
		})
	case DriverGCS:
		return NewGCSStore(ctx, GCSConfig{
			Bucket:          cfg.Storage.GCSBucket,
			Endpoint:        cfg.Storage.GCSEndpoint,
			CredentialsFile: cfg.Storage.GCSCredentialsFile,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// Driver names.
const (
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
	DriverFS     = "fs"
	DriverS3     = "s3"
	DriverAzure  = "azure"
	DriverGCS    = "gcs"
)
