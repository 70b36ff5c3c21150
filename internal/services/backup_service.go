package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/demandhub/backend/internal/config"
	"github.com/demandhub/backend/internal/logger"
	"github.com/demandhub/backend/internal/models"
)

// BackupService writes JSON snapshots of the record store to disk, on
// demand and on a cron schedule.
type BackupService struct {
	BackupDir string
	Cron      *cron.Cron

	records *RecordStore
}

// NewBackupService schedules automatic backups with cfg.BackupSchedule.
// An invalid schedule is logged and leaves only manual backups.
func NewBackupService(cfg *config.Config, records *RecordStore) *BackupService {
	dir := cfg.BackupDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Component("backups").WithError(err).Error("Failed to create backup directory")
	}

	s := &BackupService{
		BackupDir: dir,
		Cron:      cron.New(),
		records:   records,
	}
	schedule := cfg.BackupSchedule
	if schedule == "" {
		schedule = "0 3 * * *"
	}
	_, err := s.Cron.AddFunc(schedule, func() {
		logger.Component("backups").Info("Starting scheduled backup")
		if name, err := s.CreateBackup(); err != nil {
			logger.Component("backups").WithError(err).Error("Scheduled backup failed")
		} else {
			logger.Component("backups").WithField("backup", name).Info("Scheduled backup created")
		}
	})
	if err != nil {
		logger.Component("backups").WithError(err).WithField("schedule", schedule).Error("Invalid backup schedule")
	}
	return s
}

// Start runs the scheduler in the background.
func (s *BackupService) Start() { s.Cron.Start() }

// Stop halts the scheduler and waits for a running job.
func (s *BackupService) Stop() { <-s.Cron.Stop().Done() }

// CreateBackup dumps the records to a new file and returns its name.
func (s *BackupService) CreateBackup() (string, error) {
	data, err := s.records.Dump(DumpJSON)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("backup_%s_%s.json", time.Now().UTC().Format("2006-01-02_15-04-05"), uuid.NewString()[:8])
	if err := os.WriteFile(filepath.Join(s.BackupDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return name, nil
}

// ListBackups returns the backups newest first.
func (s *BackupService) ListBackups() ([]models.BackupFile, error) {
	entries, err := os.ReadDir(s.BackupDir)
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	backups := []models.BackupFile{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, models.BackupFile{
			Filename:  e.Name(),
			Size:      info.Size(),
			Records:   countRecords(filepath.Join(s.BackupDir, e.Name())),
			CreatedAt: info.ModTime(),
		})
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// RestoreBackup replaces the record store with a backup's content.
func (s *BackupService) RestoreBackup(ctx context.Context, filename string) (int, error) {
	path, err := s.GetBackupPath(filename)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read backup: %w", err)
	}
	return s.records.Restore(ctx, data)
}

// DeleteBackup removes a backup file.
func (s *BackupService) DeleteBackup(filename string) error {
	path, err := s.GetBackupPath(filename)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// GetBackupPath resolves a backup name inside BackupDir. Names with path
// components are rejected, and the file must exist.
func (s *BackupService) GetBackupPath(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") || !strings.HasSuffix(filename, ".json") {
		return "", ErrInvalidBackupName
	}
	path := filepath.Join(s.BackupDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

func countRecords(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var items []json.RawMessage
	if json.Unmarshal(data, &items) != nil {
		return 0
	}
	return len(items)
}
