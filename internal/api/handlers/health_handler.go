package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/version"
)

// HealthHandler responds with basic service metadata for uptime checks.
type HealthHandler struct {
	records interface{ Len() int }
	driver  string
}

func NewHealthHandler(records interface{ Len() int }, driver string) *HealthHandler {
	return &HealthHandler{records: records, driver: driver}
}

type healthResponse struct {
	Status string `json:"status"`
	version.Info
	StorageDriver string `json:"storage_driver"`
	Records       int    `json:"records"`
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Info:          version.Get(),
		StorageDriver: h.driver,
		Records:       h.records.Len(),
	})
}
