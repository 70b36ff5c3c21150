package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/services"
)

// StatsHandler serves the drill-down rollups and dashboard figures.
type StatsHandler struct {
	store *services.RecordStore
	now   func() time.Time
}

func NewStatsHandler(store *services.RecordStore) *StatsHandler {
	return &StatsHandler{store: store, now: time.Now}
}

func (h *StatsHandler) Regions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"regions": demand.Aggregate(h.store.Records(), demand.ByRegion)})
}

func (h *StatsHandler) RegionComarcas(c *gin.Context) {
	region := c.Param("region")
	groups := demand.ComarcasInRegion(h.store.Records(), region)
	if len(groups) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Region not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"region": region, "comarcas": groups})
}

func (h *StatsHandler) Categories(c *gin.Context) {
	records := demand.Filter(h.store.Records(), demand.Query{Comarca: c.Query("comarca"), Region: c.Query("region")})
	c.JSON(http.StatusOK, gin.H{"categories": demand.Aggregate(records, demand.ByCategory)})
}

func (h *StatsHandler) KPIs(c *gin.Context) {
	records := demand.Filter(h.store.Records(), demand.Query{Comarca: c.Query("comarca"), Region: c.Query("region")})
	c.JSON(http.StatusOK, demand.Dashboard(records))
}

func (h *StatsHandler) History(c *gin.Context) {
	window, err := demand.ParseWindow(c.Query("window"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, demand.History(h.store.Records(), c.Param("comarca"), window, h.now()))
}
