package handlers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/services"
)

type BackupHandler struct {
	service *services.BackupService
	audit   *services.AuditService
}

func NewBackupHandler(service *services.BackupService, audit *services.AuditService) *BackupHandler {
	return &BackupHandler{service: service, audit: audit}
}

func (h *BackupHandler) List(c *gin.Context) {
	backups, err := h.service.ListBackups()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list backups"})
		return
	}
	c.JSON(http.StatusOK, backups)
}

func (h *BackupHandler) Create(c *gin.Context) {
	filename, err := h.service.CreateBackup()
	if err != nil {
		middleware.GetRequestLogger(c).WithField("action", "create_backup").WithError(err).Error("Failed to create backup")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create backup"})
		return
	}
	middleware.GetRequestLogger(c).WithField("action", "create_backup").WithField("filename", filename).Info("Backup created successfully")
	c.JSON(http.StatusCreated, gin.H{"filename": filename, "message": "Backup created successfully"})
}

func (h *BackupHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteBackup(c.Param("filename")); err != nil {
		h.fail(c, err, "Failed to delete backup")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Backup deleted"})
}

func (h *BackupHandler) Download(c *gin.Context) {
	filename := c.Param("filename")
	path, err := h.service.GetBackupPath(filename)
	if err != nil {
		h.fail(c, err, "Failed to read backup")
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.File(path)
}

func (h *BackupHandler) Restore(c *gin.Context) {
	filename := c.Param("filename")
	count, err := h.service.RestoreBackup(c.Request.Context(), filename)
	if err != nil {
		middleware.GetRequestLogger(c).WithField("action", "restore_backup").WithField("filename", filename).WithError(err).Error("Failed to restore backup")
		h.fail(c, err, "Failed to restore backup")
		return
	}
	h.audit.Record(c.Request.Context(), currentUser(c), models.ActionBackup, "Sistema restaurado a partir de "+filename)
	middleware.GetRequestLogger(c).WithField("action", "restore_backup").WithField("filename", filename).Info("Backup restored successfully")
	c.JSON(http.StatusOK, gin.H{"message": "Backup restored successfully", "records": count})
}

func (h *BackupHandler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, os.ErrNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "Backup not found"})
	case errors.Is(err, services.ErrInvalidBackupName),
		errors.Is(err, services.ErrRestoreParse),
		errors.Is(err, services.ErrRestoreShape):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
