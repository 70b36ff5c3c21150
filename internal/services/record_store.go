package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/logger"
	"github.com/demandhub/backend/internal/metrics"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/report"
	"github.com/demandhub/backend/internal/storage"
)

// Notifier receives operator notifications. Delivery is best effort.
type Notifier interface {
	Send(title, message string)
}

// RecordStore is the single owner of the demand records. Reads return
// copies; every mutation saves the whole collection as one snapshot.
type RecordStore struct {
	mu       sync.RWMutex
	store    storage.Store
	notifier Notifier
	records  []models.DemandRecord
	index    map[string]int

	now func() time.Time
}

// NewRecordStore returns an empty store. Call Load before serving reads.
// notifier may be nil.
func NewRecordStore(store storage.Store, notifier Notifier) *RecordStore {
	return &RecordStore{
		store:    store,
		notifier: notifier,
		index:    make(map[string]int),
		now:      time.Now,
	}
}

// Load reads the records snapshot. When none exists the synthetic seed is
// generated and saved.
func (s *RecordStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, storage.KeyRecords)
	if errors.Is(err, storage.ErrNotFound) {
		seed := demand.Seed(nil, s.now())
		s.replace(seed)
		logger.Component("records").WithField("records", len(seed)).Info("No records snapshot found, seeded store")
		return s.save(ctx)
	}
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	recs, err := decodeRecords(data)
	if err != nil {
		return fmt.Errorf("decode records snapshot: %w", err)
	}
	s.replace(recs)
	logger.Component("records").WithField("records", len(recs)).Info("Loaded records snapshot")
	return nil
}

// Records returns a copy of every record in store order.
func (s *RecordStore) Records() []models.DemandRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.DemandRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Len is the number of records held.
func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns one record by id.
func (s *RecordStore) Get(id string) (models.DemandRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.DemandRecord{}, ErrRecordNotFound
	}
	return s.records[i], nil
}

// Update sets one numeric field of one record. The value is coerced, with
// anything non-numeric becoming 0. Writing requestedQty recomputes status.
// Concurrent writes to the same record are last-write-wins.
func (s *RecordStore) Update(ctx context.Context, id, field string, value any) (models.DemandRecord, error) {
	qty := demand.ParseQuantity(value)

	s.mu.Lock()
	i, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return models.DemandRecord{}, ErrRecordNotFound
	}
	prev := s.records[i]
	next := prev
	switch field {
	case models.FieldRequestedQty:
		next.RequestedQty = qty
		next.Status = models.StatusFor(qty)
	case models.FieldApprovedQty:
		next.ApprovedQty = qty
	case models.FieldHistoricalDemand:
		next.HistoricalDemand = qty
	case models.FieldPredictedDemand:
		next.PredictedDemand = qty
	default:
		s.mu.Unlock()
		return models.DemandRecord{}, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	next.LastUpdated = s.now().UTC().Format(time.RFC3339Nano)

	before := s.comarcaCompletion(prev.Comarca)
	s.records[i] = next
	if err := s.save(ctx); err != nil {
		s.records[i] = prev
		s.mu.Unlock()
		return models.DemandRecord{}, err
	}
	after := s.comarcaCompletion(next.Comarca)
	s.mu.Unlock()

	metrics.IncRecordUpdate(field)
	if before < 100 && after == 100 && s.notifier != nil {
		s.notifier.Send("Comarca complete",
			fmt.Sprintf("Every material of %s now has a requested quantity.", next.Comarca))
	}
	return next, nil
}

// Restore replaces the whole collection with a JSON array of records.
// Anything else is rejected and the store is left untouched.
func (s *RecordStore) Restore(ctx context.Context, payload []byte) (int, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		metrics.IncRestore("parse_error")
		return 0, fmt.Errorf("%w: %v", ErrRestoreParse, err)
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		metrics.IncRestore("shape_error")
		return 0, ErrRestoreShape
	}
	recs, err := decodeRecords(raw)
	if err != nil {
		metrics.IncRestore("shape_error")
		return 0, fmt.Errorf("%w: %v", ErrRestoreShape, err)
	}

	seen := make(map[string]struct{}, len(recs))
	for i := range recs {
		r := &recs[i]
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if _, dup := seen[r.ID]; dup {
			metrics.IncRestore("shape_error")
			return 0, fmt.Errorf("%w: duplicate id %q", ErrRestoreShape, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	s.mu.Lock()
	prev := s.records
	s.replace(recs)
	if err := s.save(ctx); err != nil {
		s.replace(prev)
		s.mu.Unlock()
		return 0, err
	}
	s.mu.Unlock()

	metrics.IncRestore("ok")
	if s.notifier != nil {
		s.notifier.Send("Records restored", fmt.Sprintf("The record store was replaced with %d records.", len(recs)))
	}
	return len(recs), nil
}

// Dump formats.
const (
	DumpJSON = "json"
	DumpCSV  = "csv"
)

// Dump serializes the whole store for download.
func (s *RecordStore) Dump(format string) ([]byte, error) {
	recs := s.Records()
	switch strings.ToLower(format) {
	case "", DumpJSON:
		return json.MarshalIndent(recs, "", "  ")
	case DumpCSV:
		var buf bytes.Buffer
		buf.WriteString("ID,Comarca,Material,Previsto,Solicitado,Atendido,Status\n")
		for _, r := range recs {
			fmt.Fprintf(&buf, "%s,%s,%s,%s,%s,%s,%s\n",
				csvField(r.ID), csvField(r.Comarca), csvField(r.MaterialName),
				report.FormatNumber(r.PredictedDemand),
				report.FormatNumber(r.RequestedQty),
				report.FormatNumber(r.ApprovedQty),
				r.Status)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDump, format)
	}
}

func csvField(s string) string {
	if strings.ContainsAny(s, "\",\r\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

// wireRecord is a record as found in snapshots and restore payloads.
// Quantities may be any JSON value and are coerced; status is recomputed.
type wireRecord struct {
	ID               string `json:"id"`
	Region           string `json:"region"`
	Comarca          string `json:"comarca"`
	Category         string `json:"category"`
	MaterialName     string `json:"materialName"`
	Unit             string `json:"unit"`
	HistoricalDemand any    `json:"historicalDemand"`
	PredictedDemand  any    `json:"predictedDemand"`
	RequestedQty     any    `json:"requestedQty"`
	ApprovedQty      any    `json:"approvedQty"`
	LastUpdated      string `json:"lastUpdated"`
}

func (w wireRecord) record() models.DemandRecord {
	r := models.DemandRecord{
		ID:               w.ID,
		Region:           w.Region,
		Comarca:          w.Comarca,
		Category:         w.Category,
		MaterialName:     w.MaterialName,
		Unit:             w.Unit,
		HistoricalDemand: demand.ParseQuantity(w.HistoricalDemand),
		PredictedDemand:  demand.ParseQuantity(w.PredictedDemand),
		RequestedQty:     demand.ParseQuantity(w.RequestedQty),
		ApprovedQty:      demand.ParseQuantity(w.ApprovedQty),
		LastUpdated:      w.LastUpdated,
	}
	r.Status = models.StatusFor(r.RequestedQty)
	return r
}

// decodeRecords reads a JSON array of records, re-establishing the numeric
// and status invariants on each one.
func decodeRecords(data []byte) ([]models.DemandRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var wire []wireRecord
	if err := dec.Decode(&wire); err != nil {
		return nil, err
	}
	recs := make([]models.DemandRecord, len(wire))
	for i, w := range wire {
		recs[i] = w.record()
	}
	return recs, nil
}

func (s *RecordStore) replace(recs []models.DemandRecord) {
	if recs == nil {
		recs = []models.DemandRecord{}
	}
	s.records = recs
	s.index = make(map[string]int, len(recs))
	for i, r := range recs {
		s.index[r.ID] = i
	}
}

// save writes the full collection. Callers hold the write lock.
func (s *RecordStore) save(ctx context.Context) error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("encode records snapshot: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyRecords, data); err != nil {
		logger.Component("records").WithFields(logrus.Fields{"driver": s.store.Driver(), "error": err}).Error("Failed to save records snapshot")
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

func (s *RecordStore) comarcaCompletion(comarca string) int {
	total, pending := 0, 0
	for _, r := range s.records {
		if r.Comarca != comarca {
			continue
		}
		total++
		if !r.IsConfirmed() {
			pending++
		}
	}
	return demand.CompletionPercent(total, pending)
}
