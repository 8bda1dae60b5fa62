package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/internal/milp"
	"go.uber.org/zap"
)

// refuel solves the bounded top-up model. The final mixture must stay exactly
// on the target ratio line, so a single non-negative scale variable pins every
// element's final quantity; no presence indicators are needed because a top-up
// never changes which elements are present. Without an explicit target the
// solver tops the charge up as far as the per-element cap and the ratio line
// allow; with one, the added mass is pinned and the addition cost minimized.
func (o *Optimizer) refuel(initial blend.Composition, target *float64) (*Result, error) {
	current := initial.Normalized()
	currentMass := current.TotalMass()

	// Refueling an empty vessel is a distinguished no-op, not an infeasible
	// model; no model is built.
	if currentMass == 0 {
		empty := blend.Composition{}.Normalized()
		return &Result{
			Status:           StatusNothingToRefuel,
			TotalCost:        costPtr(0),
			Additions:        empty,
			FinalComposition: empty,
		}, nil
	}

	m := milp.New("refuel")

	add := make(map[blend.Element]milp.Var, len(blend.Elements()))
	for _, e := range blend.Elements() {
		add[e] = m.AddVar("add_"+string(e), 0, current[e]*o.tables.RefuelCap)
	}
	scale := m.AddVar("scale", 0, math.Inf(1))

	// current[e] + add[e] = ratio[e]·scale keeps the final mixture on the
	// ratio line.
	for _, e := range blend.Elements() {
		lhs := milp.Constant(current[e]).
			Plus(1, add[e]).
			Plus(-o.tables.Ratios[e], scale)
		m.AddConstraint(lhs, milp.Equal, 0)
	}

	var totalAdded milp.Expr
	for _, e := range blend.Elements() {
		totalAdded = totalAdded.Plus(1, add[e])
	}

	if target != nil {
		m.AddConstraint(totalAdded, milp.Equal, *target-currentMass)
		var cost milp.Expr
		for _, e := range blend.Elements() {
			cost = cost.Plus(o.tables.Prices[e].Addition, add[e])
		}
		m.Minimize(cost)
	} else {
		// Top up as far as the cap allows: maximize the added mass. The
		// additions themselves are then fully determined by the ratio line.
		m.Minimize(totalAdded.Scale(-1))
	}

	sol, err := m.Solve()
	if err != nil {
		return nil, fmt.Errorf("refuel solve failed: %w", err)
	}
	if !sol.IsOptimal() {
		o.logger.Debug("refuel model not optimal", zap.String("status", sol.Status.String()))
		return &Result{Status: statusFrom(sol.Status)}, nil
	}

	additions := extractComposition(sol, add)
	final := make(blend.Composition, len(blend.Elements()))
	var totalCost float64
	for _, e := range blend.Elements() {
		final[e] = current[e] + additions[e]
		totalCost += o.tables.Prices[e].Addition * additions[e]
	}

	return &Result{
		Status:           StatusOptimal,
		TotalCost:        costPtr(totalCost),
		Additions:        additions,
		FinalComposition: final,
	}, nil
}
