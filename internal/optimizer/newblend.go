package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/internal/milp"
	"go.uber.org/zap"
)

// newBlend solves the from-scratch model: choose a non-empty subset of
// elements and their quantities so that the quantities sum to the target
// weight, are ratio-locked within the subset, and cost the least to extract.
// Because extraction costs differ while the ratio is fixed across any chosen
// subset, the optimum lands on the single cheapest element.
func (o *Optimizer) newBlend(target float64) (*Result, error) {
	m := milp.New("new_blend")

	qty := make(map[blend.Element]milp.Var, len(blend.Elements()))
	used := make(map[blend.Element]milp.Var, len(blend.Elements()))
	for _, e := range blend.Elements() {
		qty[e] = m.AddVar("qty_"+string(e), 0, math.Inf(1))
		used[e] = m.AddBinary("used_" + string(e))
	}

	var cost, totalMass, totalUsed milp.Expr
	for _, e := range blend.Elements() {
		cost = cost.Plus(o.tables.Prices[e].Extraction, qty[e])
		totalMass = totalMass.Plus(1, qty[e])
		totalUsed = totalUsed.Plus(1, used[e])
	}
	m.Minimize(cost)

	m.AddConstraint(totalMass, milp.Equal, target)
	m.AddConstraint(totalUsed, milp.GreaterEq, 1)

	// An unselected element carries no mass.
	for _, e := range blend.Elements() {
		m.AddConstraint(milp.Expr{}.Plus(1, qty[e]).Plus(-target, used[e]), milp.LessEq, 0)
	}

	qtyExpr := make(map[blend.Element]milp.Expr, len(blend.Elements()))
	for _, e := range blend.Elements() {
		qtyExpr[e] = milp.Expr{}.Plus(1, qty[e])
	}
	enforceRatios(m, o.tables.Ratios, qtyExpr, used, bigMFor(target, o.tables))

	sol, err := m.Solve()
	if err != nil {
		return nil, fmt.Errorf("new blend solve failed: %w", err)
	}
	if !sol.IsOptimal() {
		o.logger.Debug("new blend model not optimal", zap.String("status", sol.Status.String()))
		return &Result{Status: statusFrom(sol.Status)}, nil
	}

	composition := extractComposition(sol, qty)
	return &Result{
		Status:           StatusOptimal,
		TotalCost:        costPtr(sol.Objective),
		Extractions:      composition,
		FinalComposition: composition,
	}, nil
}
