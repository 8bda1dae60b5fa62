package blend

// Composition maps each element to a non-negative mass in kilograms.
// Elements may be omitted and are read as zero. A nil Composition means
// "unknown", which is distinct from an explicitly empty vessel.
type Composition map[Element]float64

// Mass returns the mass of the given element, treating absent entries as zero.
func (c Composition) Mass(e Element) float64 {
	return c[e]
}

// TotalMass returns the summed mass over the full element set.
func (c Composition) TotalMass() float64 {
	var total float64
	for _, e := range Elements() {
		total += c[e]
	}
	return total
}

// Normalized returns a copy of the composition with an explicit entry for
// every element of the set.
func (c Composition) Normalized() Composition {
	out := make(Composition, len(Elements()))
	for _, e := range Elements() {
		out[e] = c[e]
	}
	return out
}
