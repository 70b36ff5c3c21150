package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/metrics"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/report"
	"github.com/demandhub/backend/internal/services"
)

type ReportHandler struct {
	store    *services.RecordStore
	audit    *services.AuditService
	exporter *report.Exporter
	now      func() time.Time
}

func NewReportHandler(store *services.RecordStore, audit *services.AuditService, exporter *report.Exporter) *ReportHandler {
	return &ReportHandler{store: store, audit: audit, exporter: exporter, now: time.Now}
}

// Export encodes the filtered view in the requested format.
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := report.ParseFormat(c.DefaultQuery("format", string(report.FormatCSV)))
	if err != nil {
		respondError(c, err)
		return
	}
	v, err := bindView(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := h.exporter.Export(c.Request.Context(), report.Request{
		Records:  demand.Filter(h.store.Records(), v.Query),
		Mode:     v.Mode,
		Period:   v.Period,
		Format:   format,
		Scope:    v.ScopeLabel(),
		IssuedAt: h.now(),
	})
	if err != nil {
		metrics.IncExportFailure(string(format))
		middleware.GetRequestLogger(c).WithError(err).WithField("format", format).Warn("Export failed")
		respondError(c, err)
		return
	}

	metrics.IncExport(string(format))
	h.audit.Record(c.Request.Context(), currentUser(c), models.ActionExport,
		fmt.Sprintf("Dados exportados em %s", strings.ToUpper(string(format))))
	middleware.GetRequestLogger(c).WithFields(logrus.Fields{
		"format": format,
		"rows":   payload.Rows,
		"file":   payload.Filename,
	}).Info("Report exported")

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", payload.Filename))
	c.Data(http.StatusOK, payload.ContentType, payload.Body)
}
