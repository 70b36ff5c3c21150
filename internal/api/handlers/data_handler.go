package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/services"
)

// MaxRestoreSize bounds restore uploads.
const MaxRestoreSize = 32 << 20

// DataHandler covers bulk import, full dumps and restore.
type DataHandler struct {
	store    *services.RecordStore
	audit    *services.AuditService
	importer *services.ImportService
}

func NewDataHandler(store *services.RecordStore, audit *services.AuditService, importer *services.ImportService) *DataHandler {
	return &DataHandler{store: store, audit: audit, importer: importer}
}

// Import reports how many data lines the uploaded file carries.
func (h *DataHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open upload"})
		return
	}
	defer f.Close()

	lines, err := h.importer.Count(c.Request.Context(), currentUser(c), f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lines": lines})
}

// Dump downloads the whole store as JSON or CSV.
func (h *DataHandler) Dump(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.Query("format")))
	if format == "" {
		format = services.DumpJSON
	}
	data, err := h.store.Dump(format)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := "application/json"
	if format == services.DumpCSV {
		contentType = "text/csv; charset=utf-8"
	}
	name := fmt.Sprintf("backup_demandas_%s.%s", time.Now().Format("2006-01-02"), format)
	h.audit.Record(c.Request.Context(), currentUser(c), models.ActionExport, fmt.Sprintf("Backup completo exportado em %s", format))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, data)
}

// Restore replaces the store with the JSON array in the body (or in a
// multipart "file" field).
func (h *DataHandler) Restore(c *gin.Context) {
	var body io.Reader = c.Request.Body
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open upload"})
			return
		}
		defer f.Close()
		body = f
	}
	payload, err := io.ReadAll(io.LimitReader(body, MaxRestoreSize))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read payload"})
		return
	}

	count, err := h.store.Restore(c.Request.Context(), payload)
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Warn("Restore rejected")
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), currentUser(c), models.ActionBackup, "Sistema restaurado via arquivo JSON")
	c.JSON(http.StatusOK, gin.H{"records": count, "message": "Backup restored"})
}
