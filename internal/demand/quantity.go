package demand

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseQuantity coerces an arbitrary input value into a non-negative
// quantity. Anything non-numeric, negative or non-finite becomes 0.
func ParseQuantity(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return nonNegative(x)
	case float32:
		return nonNegative(float64(x))
	case int:
		return nonNegative(float64(x))
	case int64:
		return nonNegative(float64(x))
	case int32:
		return nonNegative(float64(x))
	case bool:
		if x {
			return 1
		}
		return 0
	case json.Number:
		return parseDecimal(x.String())
	case string:
		return parseDecimal(x)
	default:
		return 0
	}
}

func parseDecimal(s string) float64 {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return nonNegative(f)
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// roundHalfUp rounds to the nearest integer with halves going up.
func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}
