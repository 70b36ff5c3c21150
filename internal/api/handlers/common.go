package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/api/middleware"
	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/models"
	"github.com/demandhub/backend/internal/report"
	"github.com/demandhub/backend/internal/services"
)

// RecordView is a record plus the values derived for the current view.
type RecordView struct {
	models.DemandRecord
	DisplayPrediction float64       `json:"displayPrediction"`
	Derived           demand.Status `json:"derivedStatus"`
}

// viewParams are the query parameters shared by listing and export routes.
type viewParams struct {
	demand.Query
	Mode   demand.Mode
	Period demand.Period
}

func bindView(c *gin.Context) (viewParams, error) {
	var v viewParams
	if err := c.ShouldBindQuery(&v.Query); err != nil {
		return v, err
	}
	mode, err := demand.ParseMode(c.Query("mode"))
	if err != nil {
		return v, err
	}
	period, err := demand.ParsePeriod(c.Query("period"))
	if err != nil {
		return v, err
	}
	v.Mode, v.Period = mode, period
	return v, nil
}

func newRecordView(rec models.DemandRecord, v viewParams, labels demand.Labels) RecordView {
	return RecordView{
		DemandRecord:      rec,
		DisplayPrediction: demand.Scale(rec.PredictedDemand, v.Period),
		Derived:           labels.Derive(rec, v.Mode),
	}
}

// currentUser is the display name written to audit entries.
func currentUser(c *gin.Context) string {
	if name := c.GetString(middleware.UserNameKey); name != "" {
		return name
	}
	return "?"
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidField),
		errors.Is(err, services.ErrRestoreParse),
		errors.Is(err, services.ErrRestoreShape),
		errors.Is(err, services.ErrUnsupportedDump),
		errors.Is(err, services.ErrInvalidBackupName),
		errors.Is(err, report.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidPIN):
		return http.StatusForbidden
	case errors.Is(err, services.ErrAccountLocked):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, report.ErrSurfaceUnavailable),
		errors.Is(err, report.ErrCaptureFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		middleware.GetRequestLogger(c).WithError(err).Error("Request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
