package domain

import (
	"math"
	"strconv"
	"strings"
)

// FeeRates holds the per-square-unit monthly fee rate for each condo type.
// The authoritative source is the system_config table; these defaults apply
// when no row is present.
type FeeRates struct {
	Residential float64
	Commercial  float64
	Parking     float64
	Storage     float64
}

// DefaultFeeRates are the documented fallback rates.
func DefaultFeeRates() FeeRates {
	return FeeRates{
		Residential: 0.45,
		Commercial:  0.60,
		Parking:     0.15,
		Storage:     0.25,
	}
}

// Rate returns the rate for a condo type.
func (r FeeRates) Rate(t CondoType) float64 {
	switch t {
	case TypeCommercial:
		return r.Commercial
	case TypeParking:
		return r.Parking
	case TypeStorage:
		return r.Storage
	default:
		return r.Residential
	}
}

// MonthlyFee computes the monthly fee for a unit: area times the
// type-specific rate, rounded to two decimals. Pure; never mutates the unit.
func MonthlyFee(unit *Unit, rates FeeRates) float64 {
	return round2(unit.Area * rates.Rate(unit.CondoType))
}

// TotalMonthlyFees folds MonthlyFee over a unit collection.
func TotalMonthlyFees(units []*Unit, rates FeeRates) float64 {
	total := 0.0
	for _, u := range units {
		total += MonthlyFee(u, rates)
	}
	return round2(total)
}

// ParseStoredFee parses the calculated_monthly_fees column, which is stored
// verbatim as text. The value is opaque at the repository level; callers
// parse it lazily here and fall back to the computed rate when it does not
// parse.
func ParseStoredFee(stored string) (float64, bool) {
	trimmed := strings.TrimSpace(stored)
	if trimmed == "" {
		return 0, false
	}
	// Tolerate a currency prefix and thousands separators left by old data.
	trimmed = strings.TrimPrefix(trimmed, "$")
	trimmed = strings.ReplaceAll(trimmed, ",", "")

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, false
	}
	return value, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
