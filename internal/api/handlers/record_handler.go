package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/services"
)

type RecordHandler struct {
	store  *services.RecordStore
	labels demand.Labels
}

func NewRecordHandler(store *services.RecordStore, labels demand.Labels) *RecordHandler {
	return &RecordHandler{store: store, labels: labels}
}

// List filters the records and reports progress over the filtered set.
func (h *RecordHandler) List(c *gin.Context) {
	v, err := bindView(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filtered := demand.Filter(h.store.Records(), v.Query)
	views := make([]RecordView, len(filtered))
	for i, rec := range filtered {
		views[i] = newRecordView(rec, v, h.labels)
	}
	c.JSON(http.StatusOK, gin.H{
		"records":  views,
		"progress": demand.Progress(filtered),
		"mode":     v.Mode,
		"period":   v.Period,
	})
}

func (h *RecordHandler) Get(c *gin.Context) {
	v, err := bindView(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rec, err := h.store.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecordView(rec, v, h.labels))
}

// UpdateRequest carries any JSON value; non-numeric values become 0.
type UpdateRequest struct {
	Field string `json:"field" binding:"required"`
	Value any    `json:"value"`
}

func (h *RecordHandler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := bindView(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.store.Update(c.Request.Context(), c.Param("id"), req.Field, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetRequestLogger(c).WithFields(logrus.Fields{
		"record": rec.ID,
		"field":  req.Field,
		"user":   currentUser(c),
	}).Debug("Record updated")
	c.JSON(http.StatusOK, newRecordView(rec, v, h.labels))
}

// Categories lists the category filter options, sentinel first.
func (h *RecordHandler) Categories(c *gin.Context) {
	cats := append([]string{demand.AllCategories}, demand.Categories(h.store.Records())...)
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}
