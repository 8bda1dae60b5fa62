package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/internal/milp"
	"github.com/iwvelando/refrigerant-blend/pkg/constants"
	"go.uber.org/zap"
)

// combined solves the full model: per element the solver may add material
// (capped by the refuel fraction of the current stock), remove existing
// material, and extract fresh material, all at once. Refuel and new-blend are
// restrictions of this model, but they stay separate solvers because the
// binary/Big-M machinery here is unnecessary overhead for the unambiguous
// cases. Removal is costed like a fresh extraction of the same element.
func (o *Optimizer) combined(initial blend.Composition, target float64) (*Result, error) {
	current := initial.Normalized()

	m := milp.New("combined_mixture")

	elems := blend.Elements()
	add := make(map[blend.Element]milp.Var, len(elems))
	remove := make(map[blend.Element]milp.Var, len(elems))
	fresh := make(map[blend.Element]milp.Var, len(elems))
	used := make(map[blend.Element]milp.Var, len(elems))
	for _, e := range elems {
		add[e] = m.AddVar("add_"+string(e), 0, current[e]*o.tables.RefuelCap)
		remove[e] = m.AddVar("remove_"+string(e), 0, current[e])
		fresh[e] = m.AddVar("new_"+string(e), 0, math.Inf(1))
		used[e] = m.AddBinary("used_" + string(e))
	}

	var cost milp.Expr
	for _, e := range elems {
		price := o.tables.Prices[e]
		cost = cost.
			Plus(price.Addition, add[e]).
			Plus(price.Extraction, fresh[e]).
			Plus(price.Extraction, remove[e])
	}
	m.Minimize(cost)

	// Final quantity per element after all operations.
	qty := make(map[blend.Element]milp.Expr, len(elems))
	for _, e := range elems {
		qty[e] = milp.Constant(current[e]).
			Plus(1, add[e]).
			Plus(-1, remove[e]).
			Plus(1, fresh[e])
	}

	// Link the presence indicator to the final quantity: an absent element
	// carries no mass, a present one strictly positive mass.
	for _, e := range elems {
		m.AddConstraint(qty[e].Plus(-target, used[e]), milp.LessEq, 0)
		m.AddConstraint(qty[e].Plus(-constants.PresenceEpsilon, used[e]), milp.GreaterEq, 0)
	}

	var totalMass, totalUsed milp.Expr
	for _, e := range elems {
		totalMass = totalMass.PlusExpr(qty[e], 1)
		totalUsed = totalUsed.Plus(1, used[e])
	}
	m.AddConstraint(totalUsed, milp.GreaterEq, 1)
	m.AddConstraint(totalMass, milp.Equal, target)

	enforceRatios(m, o.tables.Ratios, qty, used, bigMFor(target, o.tables))

	sol, err := m.Solve()
	if err != nil {
		return nil, fmt.Errorf("combined mixture solve failed: %w", err)
	}
	if !sol.IsOptimal() {
		o.logger.Debug("combined model not optimal", zap.String("status", sol.Status.String()))
		return &Result{Status: statusFrom(sol.Status)}, nil
	}

	additions := extractComposition(sol, add)
	removals := extractComposition(sol, remove)
	extractions := extractComposition(sol, fresh)
	final := make(blend.Composition, len(elems))
	for _, e := range elems {
		final[e] = current[e] + additions[e] - removals[e] + extractions[e]
	}

	return &Result{
		Status:           StatusOptimal,
		TotalCost:        costPtr(sol.Objective),
		Additions:        additions,
		Removals:         removals,
		Extractions:      extractions,
		FinalComposition: final,
	}, nil
}
