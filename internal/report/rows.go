package report

import (
	"strconv"

	"github.com/demandhub/backend/internal/demand"
	"github.com/demandhub/backend/internal/models"
)

// Options fix the presentation inputs shared by every format.
type Options struct {
	Mode   demand.Mode
	Period demand.Period
	Labels demand.Labels
}

// Row is one report line. Prediction is already period scaled and
// StatusText already derived, so every encoder emits the same values.
type Row struct {
	ID         string
	Region     string
	Comarca    string
	Category   string
	Material   string
	Unit       string
	Prediction float64
	Requested  float64
	Approved   float64
	Status     demand.Category
	StatusText string
}

// BuildRows computes the export rows in input order.
func BuildRows(records []models.DemandRecord, opts Options) []Row {
	rows := make([]Row, len(records))
	for i, rec := range records {
		st := opts.Labels.Derive(rec, opts.Mode)
		rows[i] = Row{
			ID:         rec.ID,
			Region:     rec.Region,
			Comarca:    rec.Comarca,
			Category:   rec.Category,
			Material:   rec.MaterialName,
			Unit:       rec.Unit,
			Prediction: demand.Scale(rec.PredictedDemand, opts.Period),
			Requested:  demand.ParseQuantity(rec.RequestedQty),
			Approved:   demand.ParseQuantity(rec.ApprovedQty),
			Status:     st.Category,
			StatusText: st.Label,
		}
	}
	return rows
}

// FormatNumber is the single numeric rendering used by all encoders.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Cells returns the row's fields in column order.
func (r Row) Cells() [8]string {
	return [8]string{
		r.Region,
		r.Comarca,
		r.Category,
		r.Material,
		FormatNumber(r.Prediction),
		FormatNumber(r.Requested),
		FormatNumber(r.Approved),
		r.StatusText,
	}
}

// numericColumn reports whether column i carries a number.
func numericColumn(i int) bool {
	return i >= 4 && i <= 6
}
