package demand

import (
	"github.com/shopspring/decimal"

	"github.com/demandhub/backend/internal/models"
)

// KeyFunc extracts the grouping key of a record.
type KeyFunc func(models.DemandRecord) string

// Grouping keys used by the drill-down views.
var (
	ByRegion   KeyFunc = func(r models.DemandRecord) string { return r.Region }
	ByComarca  KeyFunc = func(r models.DemandRecord) string { return r.Comarca }
	ByCategory KeyFunc = func(r models.DemandRecord) string { return r.Category }
)

// Group is the rollup of every record sharing a key.
type Group struct {
	Key               string   `json:"key"`
	Region            string   `json:"region,omitempty"`
	TotalItems        int      `json:"totalItems"`
	PendingCount      int      `json:"pendingCount"`
	CompletionPercent int      `json:"completionPercent"`
	Comarcas          []string `json:"comarcas"`
	ComarcaCount      int      `json:"comarcaCount"`
}

// Aggregate rolls records up by key. Groups come back in the order their key
// was first seen. Pending counts use the persisted status, never the
// mode-aware derivation.
func Aggregate(records []models.DemandRecord, key KeyFunc) []Group {
	groups := make([]Group, 0)
	index := make(map[string]int)
	seenComarca := make(map[string]map[string]struct{})

	for _, rec := range records {
		k := key(rec)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group{Key: k, Region: rec.Region, Comarcas: []string{}})
			seenComarca[k] = make(map[string]struct{})
		}
		g := &groups[i]
		g.TotalItems++
		if !rec.IsConfirmed() {
			g.PendingCount++
		}
		if _, dup := seenComarca[k][rec.Comarca]; !dup {
			seenComarca[k][rec.Comarca] = struct{}{}
			g.Comarcas = append(g.Comarcas, rec.Comarca)
		}
	}

	for i := range groups {
		groups[i].ComarcaCount = len(groups[i].Comarcas)
		groups[i].CompletionPercent = CompletionPercent(groups[i].TotalItems, groups[i].PendingCount)
	}
	return groups
}

// ComarcasInRegion rolls up the comarcas of one region.
func ComarcasInRegion(records []models.DemandRecord, region string) []Group {
	scoped := make([]models.DemandRecord, 0, len(records))
	for _, rec := range records {
		if rec.Region == region {
			scoped = append(scoped, rec)
		}
	}
	return Aggregate(scoped, ByComarca)
}

// CompletionPercent is the rounded share of non-pending items, 0 for an
// empty group.
func CompletionPercent(total, pending int) int {
	if total <= 0 {
		return 0
	}
	done := total - pending
	if done < 0 {
		done = 0
	}
	return int(roundHalfUp(float64(done) / float64(total) * 100))
}

// TotalRequested sums requested quantities.
func TotalRequested(records []models.DemandRecord) float64 {
	var sum float64
	for _, rec := range records {
		sum += nonNegative(rec.RequestedQty)
	}
	return sum
}

// TotalApproved sums approved quantities.
func TotalApproved(records []models.DemandRecord) float64 {
	var sum float64
	for _, rec := range records {
		sum += nonNegative(rec.ApprovedQty)
	}
	return sum
}

// FulfillmentRate is approved over requested as a percentage, 0 when
// nothing was requested.
func FulfillmentRate(records []models.DemandRecord) float64 {
	requested := TotalRequested(records)
	if requested <= 0 {
		return 0
	}
	return TotalApproved(records) / requested * 100
}

// CategoryConsumption is the requested volume of one category.
type CategoryConsumption struct {
	Category  string  `json:"category"`
	Requested float64 `json:"requested"`
}

// KPIs are the dashboard figures for a record set.
type KPIs struct {
	TotalRequested  float64               `json:"totalRequested"`
	TotalApproved   float64               `json:"totalApproved"`
	FulfillmentRate float64               `json:"fulfillmentRate"`
	ActiveComarcas  int                   `json:"activeComarcas"`
	Consumption     []CategoryConsumption `json:"consumption"`
}

// Dashboard computes the headline KPIs. The fulfillment rate is rounded to
// one decimal place.
func Dashboard(records []models.DemandRecord) KPIs {
	rate, _ := decimal.NewFromFloat(FulfillmentRate(records)).Round(1).Float64()

	comarcas := make(map[string]struct{})
	consumption := make([]CategoryConsumption, 0)
	index := make(map[string]int)
	for _, rec := range records {
		comarcas[rec.Comarca] = struct{}{}
		i, ok := index[rec.Category]
		if !ok {
			i = len(consumption)
			index[rec.Category] = i
			consumption = append(consumption, CategoryConsumption{Category: rec.Category})
		}
		consumption[i].Requested += nonNegative(rec.RequestedQty)
	}

	return KPIs{
		TotalRequested:  TotalRequested(records),
		TotalApproved:   TotalApproved(records),
		FulfillmentRate: rate,
		ActiveComarcas:  len(comarcas),
		Consumption:     consumption,
	}
}
