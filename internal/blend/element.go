// Package blend defines the refrigerant domain model: the fixed element set,
// compositions, and the pricing and ratio tables shared by all optimizations.
package blend

import (
	"fmt"
	"strings"
)

// Element identifies one of the four refrigerant components.
type Element string

const (
	ElementA Element = "A"
	ElementB Element = "B"
	ElementC Element = "C"
	ElementD Element = "D"
)

// Elements returns the full element set in canonical order.
func Elements() []Element {
	return []Element{ElementA, ElementB, ElementC, ElementD}
}

// ParseElement converts an element name into an Element. Matching is
// case-insensitive: viper lowercases map keys on unmarshal, so configured
// table overrides arrive as "a" through "d".
func ParseElement(name string) (Element, error) {
	for _, e := range Elements() {
		if strings.EqualFold(string(e), name) {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown element %q", name)
}
