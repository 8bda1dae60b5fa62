// Package testutil provides common utility functions for testing.
package testutil

import (
	"math"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
)

// FloatPtr returns a pointer to the given value, for optional request fields.
func FloatPtr(v float64) *float64 {
	return &v
}

// CompositionsClose reports whether two compositions agree within tol for
// every element of the set.
func CompositionsClose(a, b blend.Composition, tol float64) bool {
	for _, e := range blend.Elements() {
		if math.Abs(a.Mass(e)-b.Mass(e)) > tol {
			return false
		}
	}
	return true
}
