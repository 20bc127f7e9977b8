// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// NonNegative coerces a value to a non-negative finite number. Negative,
// NaN and infinite values all become zero.
func NonNegative(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return 0
	}
	return val
}

// CapAmount coerces a value with NonNegative and limits it to
// constants.MaxAmount.
func CapAmount(val float64) float64 {
	return math.Min(NonNegative(val), constants.MaxAmount)
}

// Floor0 returns val, or zero when val is negative.
func Floor0(val float64) float64 {
	return math.Max(0, val)
}

// Percentage converts a fraction such as 0.0875 into 8.75.
func Percentage(fraction float64) float64 {
	return fraction * constants.PercentageMultiplier
}
