package demand

import (
	"fmt"
	"strings"
	"time"

	"github.com/demandhub/backend/internal/models"
)

// Window is the granularity of the comarca history series.
type Window string

const (
	WindowQuarterly  Window = "quarterly"
	WindowSemiannual Window = "semiannual"
	WindowAnnual     Window = "annual"
)

// ParseWindow accepts the English names and trimestral/semestral/anual.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(WindowQuarterly), "trimestral":
		return WindowQuarterly, nil
	case string(WindowSemiannual), "semestral":
		return WindowSemiannual, nil
	case string(WindowAnnual), "anual":
		return WindowAnnual, nil
	default:
		return "", fmt.Errorf("unknown history window %q", s)
	}
}

// HistoryPoint is one cycle of the comarca series.
type HistoryPoint struct {
	Name      string  `json:"name"`
	Requested float64 `json:"requested"`
	Approved  float64 `json:"approved"`
}

// ComarcaHistory is the analytics panel of one comarca.
type ComarcaHistory struct {
	Comarca          string         `json:"comarca"`
	Window           Window         `json:"window"`
	Points           []HistoryPoint `json:"points"`
	TotalRequested   float64        `json:"totalRequested"`
	TotalApproved    float64        `json:"totalApproved"`
	Deviation        float64        `json:"deviation"`
	Efficiency       float64        `json:"efficiency"`
	ActiveCategories int            `json:"activeCategories"`
	AveragePerCycle  float64        `json:"averagePerCycle"`
}

type cycleFactor struct {
	requested float64
	approved  float64
}

// Factors applied to the current snapshot totals, oldest cycle first. The
// last quarterly cycle is the current one.
var historyFactors = map[Window][]cycleFactor{
	WindowQuarterly:  {{0.85, 0.8}, {1.1, 0.95}, {0.9, 0.88}, {1, 1}},
	WindowSemiannual: {{1.8, 1.6}, {2.1, 1.9}, {1.9, 1.8}, {2.0, 1.9}},
	WindowAnnual:     {{3.5, 3.0}, {4.0, 3.6}, {4.2, 3.9}},
}

// History projects a simulated series for a comarca from its current
// requested and approved totals. now anchors the cycle names.
func History(records []models.DemandRecord, comarca string, w Window, now time.Time) ComarcaHistory {
	scoped := Filter(records, Query{Comarca: comarca})
	baseReq := TotalRequested(scoped)
	baseAtt := TotalApproved(scoped)

	factors := historyFactors[w]
	names := cycleNames(w, len(factors), now)
	points := make([]HistoryPoint, len(factors))
	h := ComarcaHistory{Comarca: comarca, Window: w}
	for i, f := range factors {
		points[i] = HistoryPoint{
			Name:      names[i],
			Requested: roundHalfUp(baseReq * f.requested),
			Approved:  roundHalfUp(baseAtt * f.approved),
		}
		h.TotalRequested += points[i].Requested
		h.TotalApproved += points[i].Approved
	}
	h.Points = points
	h.Deviation = h.TotalRequested - h.TotalApproved
	if h.TotalRequested > 0 {
		h.Efficiency = h.TotalApproved / h.TotalRequested * 100
	}
	if len(points) > 0 {
		h.AveragePerCycle = roundHalfUp(h.TotalApproved / float64(len(points)))
	}

	active := make(map[string]struct{})
	for _, rec := range scoped {
		if rec.RequestedQty > 0 {
			active[rec.Category] = struct{}{}
		}
	}
	h.ActiveCategories = len(active)
	return h
}

// cycleNames labels n cycles ending with the one containing now.
func cycleNames(w Window, n int, now time.Time) []string {
	names := make([]string, n)
	year := now.Year()
	switch w {
	case WindowAnnual:
		for i := 0; i < n; i++ {
			names[i] = fmt.Sprintf("%d", year-(n-1-i))
		}
	case WindowSemiannual:
		idx := year*2 + (int(now.Month())-1)/6
		for i := 0; i < n; i++ {
			c := idx - (n - 1 - i)
			names[i] = fmt.Sprintf("%dº Sem %02d", c%2+1, (c/2)%100)
		}
	default:
		idx := year*4 + (int(now.Month())-1)/3
		for i := 0; i < n; i++ {
			c := idx - (n - 1 - i)
			names[i] = fmt.Sprintf("%dº Trim %02d", c%4+1, (c/4)%100)
		}
	}
	return names
}
