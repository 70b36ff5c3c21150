package demand

import "github.com/demandhub/backend/internal/models"

// Category is the language-neutral outcome of status derivation.
type Category string

const (
	CategoryPending   Category = "pending"
	CategoryFilled    Category = "filled"
	CategoryAwaiting  Category = "awaiting"
	CategoryValidated Category = "validated"
)

// Labels maps derived categories to display text.
type Labels struct {
	Pending   string
	Filled    string
	Awaiting  string
	Validated string
}

// EnglishLabels uses the category tokens themselves as labels.
var EnglishLabels = Labels{
	Pending:   "pending",
	Filled:    "filled",
	Awaiting:  "awaiting",
	Validated: "validated",
}

// PortugueseLabels is the label set shown to comarca staff.
var PortugueseLabels = Labels{
	Pending:   "Pendente",
	Filled:    "Preenchido",
	Awaiting:  "Aguardando",
	Validated: "Validado",
}

// For returns the display text of a category.
func (l Labels) For(c Category) string {
	switch c {
	case CategoryFilled:
		return l.Filled
	case CategoryAwaiting:
		return l.Awaiting
	case CategoryValidated:
		return l.Validated
	default:
		return l.Pending
	}
}

// Status is a derived, display-ready workflow state.
type Status struct {
	Category Category `json:"category"`
	Label    string   `json:"label"`
}

// DeriveCategory computes the workflow category from the live quantities.
// In admin mode an approved quantity wins over a requested one.
func DeriveCategory(rec models.DemandRecord, mode Mode) Category {
	if mode == ModeAdmin {
		switch {
		case rec.ApprovedQty > 0:
			return CategoryValidated
		case rec.RequestedQty > 0:
			return CategoryAwaiting
		default:
			return CategoryPending
		}
	}
	if rec.RequestedQty > 0 {
		return CategoryFilled
	}
	return CategoryPending
}

// Derive returns the category and its label in this label set.
func (l Labels) Derive(rec models.DemandRecord, mode Mode) Status {
	c := DeriveCategory(rec, mode)
	return Status{Category: c, Label: l.For(c)}
}

// DeriveStatus derives the status with the English label set.
func DeriveStatus(rec models.DemandRecord, mode Mode) Status {
	return EnglishLabels.Derive(rec, mode)
}
