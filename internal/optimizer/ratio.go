package optimizer

import (
	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/internal/milp"
)

// enforceRatios emits, for every unordered element pair (i, j), the Big-M
// constraint pair
//
//	qty[i]·ratio[j] − qty[j]·ratio[i] ≤ M·(2 − used[i] − used[j])
//	qty[j]·ratio[i] − qty[i]·ratio[j] ≤ M·(2 − used[i] − used[j])
//
// When both presence indicators are 1 the right-hand side collapses to 0 and
// the pair is locked onto the target ratio line; when either is 0 the bound
// is loose enough to never bind, leaving the pair unconstrained by this rule.
// The quantity expressions may carry constant parts (e.g. the current charge
// in the combined model).
func enforceRatios(m *milp.Model, ratios blend.RatioVector,
	qty map[blend.Element]milp.Expr, used map[blend.Element]milp.Var, bigM float64) {
	elems := blend.Elements()
	for i := 0; i < len(elems)-1; i++ {
		for j := i + 1; j < len(elems); j++ {
			ei, ej := elems[i], elems[j]
			diff := qty[ei].Scale(ratios[ej]).PlusExpr(qty[ej], -ratios[ei])
			for _, d := range []milp.Expr{diff, diff.Scale(-1)} {
				lhs := d.Plus(bigM, used[ei]).Plus(bigM, used[ej])
				m.AddConstraint(lhs, milp.LessEq, 2*bigM)
			}
		}
	}
}

// bigMFor derives the Big-M magnitude from the request's own bounds instead
// of a hardcoded constant. Every final quantity is at most the target weight,
// so |qty[i]·ratio[j] − qty[j]·ratio[i]| never exceeds target·maxRatio; a
// too-small M would silently corrupt the model, while an oversized one
// degrades simplex numerics on small inputs.
func bigMFor(target float64, tables blend.Tables) float64 {
	m := target * tables.MaxRatio()
	if m < 1 {
		m = 1
	}
	return m
}
