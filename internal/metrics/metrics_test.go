package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { Register(reg) })
	assert.Panics(t, func() { Register(reg) }, "double registration must panic")
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(exportsTotal.WithLabelValues("csv"))
	IncExport("csv")
	assert.Equal(t, before+1, testutil.ToFloat64(exportsTotal.WithLabelValues("csv")))

	before = testutil.ToFloat64(restoresTotal.WithLabelValues("shape_error"))
	IncRestore("shape_error")
	assert.Equal(t, before+1, testutil.ToFloat64(restoresTotal.WithLabelValues("shape_error")))

	IncRecordUpdate("requestedQty")
	IncExportFailure("pdf")
	IncAuditEntry("Login")
	assert.GreaterOrEqual(t, testutil.ToFloat64(auditEntriesTotal.WithLabelValues("Login")), 1.0)
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/records/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/records/:id", "204"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/records/abc", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/records/:id", "204")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}
