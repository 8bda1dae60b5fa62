package blend

import "fmt"

// Price holds the per-kilogram unit costs for one element.
type Price struct {
	Extraction float64
	Addition   float64
}

// PriceTable maps every element to its unit costs.
type PriceTable map[Element]Price

// RatioVector maps every element to its target blend ratio. The pairwise
// target proportion of elements i and j is Ratios[i] : Ratios[j].
type RatioVector map[Element]float64

// Tables bundles the static domain tables. Solvers receive a Tables value at
// construction rather than reading package-level state, so tests can run with
// alternate pricing.
type Tables struct {
	Prices    PriceTable
	Ratios    RatioVector
	RefuelCap float64
}

// DefaultTables returns the canonical domain tables: the 4:3:2:1 mandatory
// blend ratio, the standard price list, and the 15% refuel cap.
func DefaultTables() Tables {
	return Tables{
		Prices: PriceTable{
			ElementA: {Extraction: 5, Addition: 10},
			ElementB: {Extraction: 6, Addition: 12},
			ElementC: {Extraction: 4, Addition: 8},
			ElementD: {Extraction: 7, Addition: 15},
		},
		Ratios: RatioVector{
			ElementA: 4,
			ElementB: 3,
			ElementC: 2,
			ElementD: 1,
		},
		RefuelCap: 0.15,
	}
}

// Validate checks the table invariants: an entry for every element and
// strictly positive prices, ratios, and cap fraction.
func (t Tables) Validate() error {
	if t.RefuelCap <= 0 {
		return fmt.Errorf("refuel cap must be positive, got %v", t.RefuelCap)
	}
	for _, e := range Elements() {
		price, ok := t.Prices[e]
		if !ok {
			return fmt.Errorf("price table missing element %s", e)
		}
		if price.Extraction <= 0 || price.Addition <= 0 {
			return fmt.Errorf("prices for element %s must be positive, got extraction=%v addition=%v",
				e, price.Extraction, price.Addition)
		}
		ratio, ok := t.Ratios[e]
		if !ok {
			return fmt.Errorf("ratio vector missing element %s", e)
		}
		if ratio <= 0 {
			return fmt.Errorf("ratio for element %s must be positive, got %v", e, ratio)
		}
	}
	return nil
}

// MaxRatio returns the largest ratio coefficient. Used to size Big-M bounds.
func (t Tables) MaxRatio() float64 {
	var max float64
	for _, e := range Elements() {
		if t.Ratios[e] > max {
			max = t.Ratios[e]
		}
	}
	return max
}
