package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/demandhub/backend/internal/logger"
	"github.com/demandhub/backend/internal/metrics"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/storage"
	"github.com/demandhub/backend/internal/util"
)

// AuditService keeps the append-only audit log, most recent entry first.
type AuditService struct {
	mu      sync.RWMutex
	store   storage.Store
	entries []models.AuditEntry

	now func() time.Time
}

func NewAuditService(store storage.Store) *AuditService {
	return &AuditService{store: store, entries: []models.AuditEntry{}, now: time.Now}
}

// Load restores the log snapshot if one exists.
func (s *AuditService) Load(ctx context.Context) error {
	data, err := s.store.Get(ctx, storage.KeyAuditLog)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load audit log: %w", err)
	}
	var entries []models.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode audit log: %w", err)
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Record prepends an entry and persists the log. It never fails: a
// snapshot error is logged and the entry stays in memory.
func (s *AuditService) Record(ctx context.Context, user, action, details string) models.AuditEntry {
	entry := models.AuditEntry{
		ID:        uuid.NewString(),
		Timestamp: s.now().UTC().Format(time.RFC3339Nano),
		User:      user,
		Action:    action,
		Details:   details,
	}

	s.mu.Lock()
	s.entries = append([]models.AuditEntry{entry}, s.entries...)
	data, err := json.Marshal(s.entries)
	if err == nil {
		err = s.store.Set(ctx, storage.KeyAuditLog, data)
	}
	s.mu.Unlock()

	if err != nil {
		logger.Component("audit").WithFields(logrus.Fields{"action": action, "error": err}).Warn("Failed to persist audit log")
	}
	metrics.IncAuditEntry(action)
	logger.Component("audit").WithFields(logrus.Fields{
		"user":   util.SanitizeForLog(user),
		"action": action,
	}).Debug(util.SanitizeForLog(details))
	return entry
}

// Entries returns the whole log, most recent first.
func (s *AuditService) Entries() []models.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AuditEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
