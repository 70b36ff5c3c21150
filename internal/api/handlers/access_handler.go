package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/services"
)

// AccessHandler gates comarca screens behind the shared access PIN.
type AccessHandler struct {
	authService *services.AuthService
	audit       *services.AuditService
}

func NewAccessHandler(authService *services.AuthService, audit *services.AuditService) *AccessHandler {
	return &AccessHandler{authService: authService, audit: audit}
}

type UnlockRequest struct {
	PIN string `json:"pin" binding:"required"`
}

func (h *AccessHandler) Unlock(c *gin.Context) {
	var req UnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	comarca := c.Param("comarca")
	if err := h.authService.VerifyPIN(req.PIN); err != nil {
		respondError(c, err)
		return
	}
	h.audit.Record(c.Request.Context(), currentUser(c), models.ActionAccess, fmt.Sprintf("Acesso liberado à comarca %s", comarca))
	c.JSON(http.StatusOK, gin.H{"granted": true, "comarca": comarca})
}
