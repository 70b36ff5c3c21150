package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/config"
	"github.com/demandhub/backend/internal/database"
	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/report"
	"github.com/demandhub/backend/internal/services"
	"github.com/demandhub/backend/internal/storage"
)

type testEnv struct {
	mem     *storage.MemoryStore
	records *services.RecordStore
	audit   *services.AuditService
	auth    *services.AuthService
	cfg     config.Config
}

func sampleRecords() []models.DemandRecord {
	return []models.DemandRecord{
		{ID: "r1", Region: "Norte", Comarca: "Sobral", Category: "Papelaria", MaterialName: "Papel A4", Unit: "UN", PredictedDemand: 40, Status: models.StatusPending},
		{ID: "r2", Region: "Norte", Comarca: "Sobral", Category: "Informática", MaterialName: "Mouse Óptico", Unit: "UN", PredictedDemand: 10, RequestedQty: 4, Status: models.StatusConfirmed},
		{ID: "r3", Region: "Metropolitana", Comarca: "Fortaleza", Category: "Papelaria", MaterialName: "Caneta Azul", Unit: "UN", PredictedDemand: 25, RequestedQty: 20, ApprovedQty: 15, Status: models.StatusConfirmed},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := storage.NewMemoryStore()
	data, err := json.Marshal(sampleRecords())
	require.NoError(t, err)
	require.NoError(t, mem.Set(context.Background(), storage.KeyRecords, data))

	records := services.NewRecordStore(mem, nil)
	require.NoError(t, records.Load(context.Background()))
	audit := services.NewAuditService(mem)
	require.NoError(t, audit.Load(context.Background()))

	cfg := config.Config{JWTSecret: "test-secret", AccessPIN: "4321", DataDir: t.TempDir()}
	return &testEnv{
		mem:     mem,
		records: records,
		audit:   audit,
		auth:    services.NewAuthService(database.OpenTestDB(t), cfg),
		cfg:     cfg,
	}
}

// asUser stands in for AuthMiddleware.
func asUser(name, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserNameKey, name)
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

func (e *testEnv) router(name string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), asUser(name, models.RoleAdmin))
	return r
}

func (e *testEnv) exporter() *report.Exporter {
	return report.NewExporter(report.LocalePT)
}

func (e *testEnv) labels() demand.Labels {
	return demand.PortugueseLabels
}

func doRequest(r http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, r http.Handler, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	return doRequest(r, method, path, body, "application/json")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func doRequestWith(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
