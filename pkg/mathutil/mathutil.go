// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/refrigerant-blend/pkg/constants"
)

// Round rounds a value to three decimals, i.e. to whole grams.
// Used for display purposes only; solver results are never rounded.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a mass is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.MassTolerance
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}
