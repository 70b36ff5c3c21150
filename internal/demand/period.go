package demand

import (
	"fmt"
	"strings"
)

// Mode selects which quantity drives the derived status.
type Mode string

const (
	ModeInput Mode = "input"
	ModeAdmin Mode = "admin"
)

// Period is the reporting horizon applied to the stored semiannual forecast.
type Period string

const (
	PeriodSemiannual Period = "semiannual"
	PeriodAnnual     Period = "annual"
)

// ParseMode accepts "input" and "admin"; empty means input.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeInput):
		return ModeInput, nil
	case string(ModeAdmin):
		return ModeAdmin, nil
	default:
		return "", fmt.Errorf("unknown view mode %q", s)
	}
}

// ParsePeriod accepts the English names and the semestral/anual aliases;
// empty means semiannual.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(PeriodSemiannual), "semestral":
		return PeriodSemiannual, nil
	case string(PeriodAnnual), "anual":
		return PeriodAnnual, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// Multiplier returns the forecast factor for the period.
func (p Period) Multiplier() float64 {
	if p == PeriodAnnual {
		return 2
	}
	return 1
}

// Scale applies the period multiplier to a stored forecast. The stored value
// is never modified; callers scale at presentation time.
func Scale(predicted float64, p Period) float64 {
	return nonNegative(predicted) * p.Multiplier()
}
