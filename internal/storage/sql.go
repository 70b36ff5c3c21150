package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/demandhub/backend/internal/models"
)

// SQLStore keeps snapshots in the snapshots table.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Driver() string { return DriverSQLite }

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var snap models.Snapshot
	err := s.db.WithContext(ctx).Where(&models.Snapshot{Key: key}).First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return snap.Value, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	snap := models.Snapshot{Key: key, Value: value, Size: len(value), UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "key"}}, UpdateAll: true}).
		Create(&snap).Error
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Clear(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where(&models.Snapshot{Key: key}).Delete(&models.Snapshot{}).Error; err != nil {
		return fmt.Errorf("clear snapshot %s: %w", key, err)
	}
	return nil
}
