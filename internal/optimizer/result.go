package optimizer

import (
	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/internal/milp"
)

// Status is the terminal outcome of an optimization. Infeasible and unbounded
// solves are statuses, not errors; the caller decides how to react.
type Status string

const (
	StatusOptimal         Status = "Optimal"
	StatusInfeasible      Status = "Infeasible"
	StatusUnbounded       Status = "Unbounded"
	StatusNothingToRefuel Status = "Nothing to refuel"
	StatusUndefined       Status = "Undefined"
)

// Result is the normalized outcome of one optimization. Cost and the
// composition breakdowns are populated only for Optimal (and the no-op
// NothingToRefuel) outcomes; for any other status they are undefined and
// omitted.
type Result struct {
	Status           Status            `json:"status"`
	TotalCost        *float64          `json:"total_cost,omitempty"`
	Additions        blend.Composition `json:"additions,omitempty"`
	Removals         blend.Composition `json:"removals,omitempty"`
	Extractions      blend.Composition `json:"extractions,omitempty"`
	FinalComposition blend.Composition `json:"final_composition,omitempty"`
}

// statusFrom maps a solver status onto a result status.
func statusFrom(s milp.Status) Status {
	switch s {
	case milp.StatusOptimal:
		return StatusOptimal
	case milp.StatusInfeasible:
		return StatusInfeasible
	case milp.StatusUnbounded:
		return StatusUnbounded
	default:
		return StatusUndefined
	}
}

// extractComposition reads one solved value per element into a composition.
// Values are reported as-is; no rounding happens at this layer.
func extractComposition(sol *milp.Solution, vars map[blend.Element]milp.Var) blend.Composition {
	out := make(blend.Composition, len(vars))
	for e, v := range vars {
		out[e] = sol.Value(v)
	}
	return out
}

func costPtr(v float64) *float64 {
	return &v
}
