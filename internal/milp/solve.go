package milp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Status is the outcome of a solve.
type Status int

const (
	StatusUndefined Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusUnbounded:
		return "Unbounded"
	default:
		return "Undefined"
	}
}

// Solution contains the results from solving a model.
type Solution struct {
	Status    Status
	Objective float64
	values    []float64
}

// IsOptimal returns true if the solve found a proven optimum.
func (s *Solution) IsOptimal() bool {
	return s.Status == StatusOptimal
}

// Value returns the solved value of the variable, or 0 when the solve did not
// produce an assignment.
func (s *Solution) Value(v Var) float64 {
	if s.values == nil || int(v) >= len(s.values) {
		return 0
	}
	return s.values[v]
}

const (
	// intTol is how far a relaxed binary may sit from 0 or 1 and still be
	// treated as integral.
	intTol = 1e-7

	// pruneTol guards the incumbent bound comparison during branching.
	pruneTol = 1e-9
)

// relaxTols is the ladder of pivot tolerances handed to the simplex solver.
// Degenerate bases can make a tight tolerance misreport a feasible relaxation
// as infeasible or singular, so each failure retries with the next looser
// setting before the outcome is believed.
var relaxTols = []float64{1e-10, 1e-8, 1e-6}

// presolveTol is the comparison tolerance at the magnitude of v, so that
// bound propagation stays meaningful for constraints in the 1e7 range.
func presolveTol(v float64) float64 {
	return 1e-7 * (1 + math.Abs(v))
}

// Solve runs branch-and-bound over LP relaxations of the model. Infeasible
// and unbounded models are reported through Solution.Status, not as errors;
// the error path is reserved for unexpected solver faults.
func (m *Model) Solve() (*Solution, error) {
	bounds := make([]column, len(m.cols))
	copy(bounds, m.cols)

	b := &bnb{model: m}
	if err := b.branch(bounds); err != nil {
		return nil, fmt.Errorf("solving model %s: %w", m.name, err)
	}

	if b.incumbent != nil {
		return &Solution{
			Status:    StatusOptimal,
			Objective: b.incumbentObj + m.objOffset,
			values:    b.incumbent,
		}, nil
	}
	if b.sawUnbounded {
		return &Solution{Status: StatusUnbounded}, nil
	}
	if b.sawInfeasible {
		return &Solution{Status: StatusInfeasible}, nil
	}
	return &Solution{Status: StatusUndefined}, nil
}

// bnb tracks branch-and-bound state: the best integral solution found so far
// and which terminal relaxation outcomes were observed.
type bnb struct {
	model         *Model
	incumbent     []float64
	incumbentObj  float64
	sawUnbounded  bool
	sawInfeasible bool
}

func (b *bnb) branch(bounds []column) error {
	obj, x, err := b.model.solveRelaxation(bounds)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		b.sawInfeasible = true
		return nil
	case errors.Is(err, lp.ErrUnbounded):
		b.sawUnbounded = true
		return nil
	case err != nil:
		return err
	}

	// Bound: a relaxation no better than the incumbent cannot improve.
	if b.incumbent != nil && obj >= b.incumbentObj-pruneTol {
		return nil
	}

	frac := fractionalBinary(bounds, x)
	if frac < 0 {
		for i := range bounds {
			if bounds[i].binary {
				x[i] = math.Round(x[i])
			}
		}
		b.incumbent = x
		b.incumbentObj = obj
		return nil
	}

	for _, fixed := range []float64{0, 1} {
		child := make([]column, len(bounds))
		copy(child, bounds)
		child[frac].lower = fixed
		child[frac].upper = fixed
		if err := b.branch(child); err != nil {
			return err
		}
	}
	return nil
}

// fractionalBinary returns the index of a binary variable whose relaxed value
// is not integral, or -1 when the assignment is integer-feasible.
func fractionalBinary(bounds []column, x []float64) int {
	for i, c := range bounds {
		if !c.binary {
			continue
		}
		if math.Abs(x[i]-math.Round(x[i])) > intTol {
			return i
		}
	}
	return -1
}

// solveRelaxation solves the continuous relaxation of the model under the
// given variable bounds. Bound propagation runs first and substitutes out
// every variable the constraints pin down, so equality rows that saturate
// their variables' bounds never reach the simplex as degenerate bases. What
// remains is converted to standard form (minimize cᵀx subject to Ax = b,
// x ≥ 0) with lower bounds shifted out, finite upper bounds as slack rows,
// and every row equilibrated so mixed-magnitude constraints keep the basis
// well conditioned.
func (m *Model) solveRelaxation(bounds []column) (float64, []float64, error) {
	p, err := m.propagate(bounds)
	if err != nil {
		return 0, nil, err
	}

	n := len(m.cols)
	free := make([]int, 0, n)
	pos := make([]int, n)
	for j := 0; j < n; j++ {
		pos[j] = -1
		if !p.fixedAt(j) {
			pos[j] = len(free)
			free = append(free, j)
		}
	}

	// Every variable starts at its lower bound; the shifted simplex
	// solution is added on top for the free ones. The objective offset
	// accounts for those lower bounds across fixed and free alike.
	objDense := m.densify(m.obj)
	values := make([]float64, n)
	offset := 0.0
	for j := 0; j < n; j++ {
		values[j] = p.lower[j]
		offset += objDense[j] * p.lower[j]
	}
	if len(free) == 0 {
		return offset, values, nil
	}

	type stdRow struct {
		coeffs []float64
		rhs    float64
		slack  bool
	}
	var rows []stdRow

	addRow := func(dense []float64, sense Sense, rhs float64) error {
		if allZero(dense) {
			if senseHolds(0, sense, rhs, presolveTol(rhs)) {
				return nil
			}
			return lp.ErrInfeasible
		}
		switch sense {
		case LessEq:
			rows = append(rows, stdRow{coeffs: dense, rhs: rhs, slack: true})
		case GreaterEq:
			rows = append(rows, stdRow{coeffs: scaled(dense, -1), rhs: -rhs, slack: true})
		case Equal:
			rows = append(rows, stdRow{coeffs: dense, rhs: rhs})
		}
		return nil
	}

	for _, r := range p.rows {
		if !r.live {
			continue
		}
		dense := make([]float64, len(free))
		rhs := r.rhs
		for j, a := range r.coeffs {
			if a == 0 {
				continue
			}
			dense[pos[j]] = a
			rhs -= a * p.lower[j]
		}
		if err := addRow(dense, r.sense, rhs); err != nil {
			return 0, nil, err
		}
	}
	for k, j := range free {
		if width := p.upper[j] - p.lower[j]; !math.IsInf(width, 1) {
			if err := addRow(unit(len(free), k), LessEq, width); err != nil {
				return 0, nil, err
			}
		}
	}

	c := make([]float64, len(free))
	for k, j := range free {
		c[k] = objDense[j]
	}

	// Without constraint rows the minimum over x >= 0 is immediate: 0 at
	// the origin, unless some cost coefficient rewards growing a variable.
	if len(rows) == 0 {
		for _, v := range c {
			if v < 0 {
				return 0, nil, lp.ErrUnbounded
			}
		}
		return offset, values, nil
	}

	slacks := 0
	for _, r := range rows {
		if r.slack {
			slacks++
		}
	}

	cols := len(free) + slacks
	a := mat.NewDense(len(rows), cols, nil)
	rhs := make([]float64, len(rows))
	slot := len(free)
	for i, r := range rows {
		row := make([]float64, cols)
		copy(row, r.coeffs)
		if r.slack {
			row[slot] = 1
			slot++
		}
		b := r.rhs
		// Simplex phase one prefers non-negative right-hand sides, and
		// equilibrated rows keep Big-M coefficients from swamping the
		// unit ones during basis factorization.
		if b < 0 {
			b = -b
			row = scaled(row, -1)
		}
		if s := maxAbs(row); s > 0 && s != 1 {
			row = scaled(row, 1/s)
			b /= s
		}
		a.SetRow(i, row)
		rhs[i] = b
	}

	cFull := make([]float64, cols)
	copy(cFull, c)

	var obj float64
	var x []float64
	for _, tol := range relaxTols {
		obj, x, err = lp.Simplex(cFull, a, rhs, tol, nil)
		if err == nil || errors.Is(err, lp.ErrUnbounded) {
			break
		}
	}
	if err != nil {
		return 0, nil, err
	}
	for k, j := range free {
		values[j] = p.lower[j] + x[k]
	}
	return obj + offset, values, nil
}

// propagated is the model after bound propagation: collapsed bounds mark
// substituted variables, dead rows were absorbed into bounds or verified.
type propagated struct {
	lower, upper []float64
	rows         []prow
}

type prow struct {
	coeffs []float64
	sense  Sense
	rhs    float64
	live   bool
}

// propagate runs bound propagation to a fixpoint: substitute variables whose
// bounds have collapsed, turn singleton rows into bounds, and pin every
// variable of a row whose extreme activity just reaches the right-hand side.
// Rows proven unsatisfiable surface as lp.ErrInfeasible.
func (m *Model) propagate(bounds []column) (*propagated, error) {
	n := len(m.cols)
	p := &propagated{
		lower: make([]float64, n),
		upper: make([]float64, n),
		rows:  make([]prow, len(m.rows)),
	}
	for j, c := range bounds {
		p.lower[j], p.upper[j] = c.lower, c.upper
	}
	for i, r := range m.rows {
		p.rows[i] = prow{coeffs: m.densify(r.coeffs), sense: r.sense, rhs: r.rhs, live: true}
	}

	for changed := true; changed; {
		changed = false
		for i := range p.rows {
			r := &p.rows[i]
			if !r.live {
				continue
			}
			single, count := -1, 0
			for j, a := range r.coeffs {
				if a == 0 {
					continue
				}
				if p.fixedAt(j) {
					r.rhs -= a * p.lower[j]
					r.coeffs[j] = 0
					changed = true
					continue
				}
				single = j
				count++
			}
			tol := presolveTol(r.rhs)
			if count == 0 {
				if !senseHolds(0, r.sense, r.rhs, tol) {
					return nil, lp.ErrInfeasible
				}
				r.live = false
				changed = true
				continue
			}
			if count == 1 {
				if err := p.tighten(single, r.coeffs[single], r.sense, r.rhs); err != nil {
					return nil, err
				}
				r.live = false
				changed = true
				continue
			}
			minAct, maxAct := p.activity(r.coeffs)
			if r.sense != GreaterEq && minAct > r.rhs+tol {
				return nil, lp.ErrInfeasible
			}
			if r.sense != LessEq && maxAct < r.rhs-tol {
				return nil, lp.ErrInfeasible
			}
			switch {
			case r.sense != GreaterEq && !math.IsInf(minAct, -1) && minAct >= r.rhs-tol:
				p.forceAll(r.coeffs, true)
				r.live = false
				changed = true
			case r.sense != LessEq && !math.IsInf(maxAct, 1) && maxAct <= r.rhs+tol:
				p.forceAll(r.coeffs, false)
				r.live = false
				changed = true
			}
		}
	}
	return p, nil
}

// fixedAt reports whether the variable's bounds have collapsed; its value is
// then the lower bound.
func (p *propagated) fixedAt(j int) bool {
	return p.upper[j]-p.lower[j] <= presolveTol(p.lower[j])
}

// activity returns the smallest and largest value the row's left-hand side
// can take over the current bounds. Unbounded variables yield ±Inf.
func (p *propagated) activity(coeffs []float64) (minAct, maxAct float64) {
	for j, a := range coeffs {
		switch {
		case a > 0:
			minAct += a * p.lower[j]
			maxAct += a * p.upper[j]
		case a < 0:
			minAct += a * p.upper[j]
			maxAct += a * p.lower[j]
		}
	}
	return minAct, maxAct
}

// forceAll pins every variable of the row to the bound that realizes the
// row's minimum (atMin) or maximum activity.
func (p *propagated) forceAll(coeffs []float64, atMin bool) {
	for j, a := range coeffs {
		if a == 0 || p.fixedAt(j) {
			continue
		}
		if (a > 0) == atMin {
			p.upper[j] = p.lower[j]
		} else {
			p.lower[j] = p.upper[j]
		}
	}
}

// tighten folds the singleton row a·x (sense) rhs into the variable's bounds.
func (p *propagated) tighten(j int, a float64, sense Sense, rhs float64) error {
	v := rhs / a
	if a < 0 {
		switch sense {
		case LessEq:
			sense = GreaterEq
		case GreaterEq:
			sense = LessEq
		}
	}
	switch sense {
	case LessEq:
		p.upper[j] = math.Min(p.upper[j], v)
	case GreaterEq:
		p.lower[j] = math.Max(p.lower[j], v)
	case Equal:
		p.upper[j] = math.Min(p.upper[j], v)
		p.lower[j] = math.Max(p.lower[j], v)
	}
	gap := p.upper[j] - p.lower[j]
	if gap < 0 {
		if -gap > presolveTol(p.lower[j]) {
			return lp.ErrInfeasible
		}
		p.upper[j] = p.lower[j]
	}
	return nil
}

func allZero(v []float64) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

func senseHolds(lhs float64, sense Sense, rhs, tol float64) bool {
	switch sense {
	case LessEq:
		return lhs <= rhs+tol
	case GreaterEq:
		return lhs >= rhs-tol
	default:
		return math.Abs(lhs-rhs) <= tol
	}
}

func scaled(v []float64, s float64) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = s * x
	}
	return out
}

func maxAbs(v []float64) float64 {
	var m float64
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

func unit(n, i int) []float64 {
	v := make([]float64, n)
	v[i] = 1
	return v
}
