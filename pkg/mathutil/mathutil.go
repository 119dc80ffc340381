// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/planwise/staffing-forecast/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons.
func Round(val float64) float64 {
	return math.Round(val*100) / 100
}

// CeilInt rounds a value up to the nearest integer, clamped at zero.
// Staffing counts always round up so rounding never understaffs a bucket.
func CeilInt(val float64) int {
	if val <= 0 {
		return 0
	}
	return int(math.Ceil(val))
}

// WithinTolerance checks if two values are within a specified tolerance.
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsZero checks if a value is effectively zero (within comparison tolerance).
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.ComparisonTolerance
}

// Clamp constrains a value to the inclusive range [min, max].
func Clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// CalculatePercentage calculates what percentage value is of total.
// Returns 0 when total is 0.
func CalculatePercentage(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return (value / total) * constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value.
func ApplyPercentage(value, percentage float64) float64 {
	return value * percentage / constants.PercentageMultiplier
}

// Mean returns the arithmetic mean of the values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
