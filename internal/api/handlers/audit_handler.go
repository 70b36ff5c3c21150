package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/services"
)

type AuditHandler struct {
	audit *services.AuditService
}

func NewAuditHandler(audit *services.AuditService) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// List returns the whole log, most recent first.
func (h *AuditHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": h.audit.Entries()})
}
