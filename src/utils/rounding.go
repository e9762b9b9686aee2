package utils

import "math"

// FloorToMultiple rounds value toward negative infinity to the nearest
// multiple.
func FloorToMultiple(value float64, multiple float64) float64 {
	return math.Floor(value/multiple) * multiple
}

// CeilToMultiple rounds value toward positive infinity to the nearest
// multiple.
func CeilToMultiple(value float64, multiple float64) float64 {
	return math.Ceil(value/multiple) * multiple
}

// IsMultipleOf reports whether value is an exact multiple, with a small
// tolerance for float noise in the symbol master's strike column.
func IsMultipleOf(value float64, multiple float64) bool {
	if multiple <= 0 {
		return false
	}

	remainder := math.Mod(math.Abs(value), multiple)
	const epsilon = 1e-6
	return remainder < epsilon || multiple-remainder < epsilon
}
