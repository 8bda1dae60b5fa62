// Package milp provides a small mixed-integer linear programming capability:
// continuous and binary decision variables, linear constraints, and a linear
// objective, solved exactly by branch-and-bound over simplex relaxations.
package milp

import "math"

// Var identifies a decision variable within a Model.
type Var int

// Sense is the direction of a linear constraint.
type Sense int

const (
	LessEq Sense = iota
	GreaterEq
	Equal
)

// Term is one coefficient-variable product of a linear expression.
type Term struct {
	Var   Var
	Coeff float64
}

// Expr is an affine expression over model variables. The zero value is the
// constant 0. Expressions are immutable; the builder methods return copies.
type Expr struct {
	Terms    []Term
	Constant float64
}

// Constant returns an expression holding only the given constant.
func Constant(c float64) Expr {
	return Expr{Constant: c}
}

// Plus returns e + coeff·v.
func (e Expr) Plus(coeff float64, v Var) Expr {
	terms := make([]Term, len(e.Terms), len(e.Terms)+1)
	copy(terms, e.Terms)
	terms = append(terms, Term{Var: v, Coeff: coeff})
	return Expr{Terms: terms, Constant: e.Constant}
}

// PlusExpr returns e + scale·o.
func (e Expr) PlusExpr(o Expr, scale float64) Expr {
	terms := make([]Term, len(e.Terms), len(e.Terms)+len(o.Terms))
	copy(terms, e.Terms)
	for _, t := range o.Terms {
		terms = append(terms, Term{Var: t.Var, Coeff: scale * t.Coeff})
	}
	return Expr{Terms: terms, Constant: e.Constant + scale*o.Constant}
}

// Scale returns scale·e.
func (e Expr) Scale(scale float64) Expr {
	terms := make([]Term, len(e.Terms))
	for i, t := range e.Terms {
		terms[i] = Term{Var: t.Var, Coeff: scale * t.Coeff}
	}
	return Expr{Terms: terms, Constant: scale * e.Constant}
}

type column struct {
	name   string
	binary bool
	lower  float64
	upper  float64 // math.Inf(1) when unbounded
}

type row struct {
	coeffs []Term
	sense  Sense
	rhs    float64
}

// Model accumulates variables, constraints, and a minimization objective.
// Models are single-use: build, solve once, read the solution.
type Model struct {
	name      string
	cols      []column
	rows      []row
	obj       []Term
	objOffset float64
}

// New returns an empty model with the given name.
func New(name string) *Model {
	return &Model{name: name}
}

// AddVar declares a continuous variable with the given bounds. The lower
// bound must be non-negative; pass math.Inf(1) for an unbounded upper bound.
func (m *Model) AddVar(name string, lower, upper float64) Var {
	m.cols = append(m.cols, column{name: name, lower: lower, upper: upper})
	return Var(len(m.cols) - 1)
}

// AddBinary declares a 0/1 integer variable.
func (m *Model) AddBinary(name string) Var {
	m.cols = append(m.cols, column{name: name, binary: true, lower: 0, upper: 1})
	return Var(len(m.cols) - 1)
}

// AddConstraint adds the linear constraint (e sense rhs). The expression's
// constant part is folded into the right-hand side.
func (m *Model) AddConstraint(e Expr, sense Sense, rhs float64) {
	m.rows = append(m.rows, row{coeffs: e.Terms, sense: sense, rhs: rhs - e.Constant})
}

// Minimize sets the objective to the given expression.
func (m *Model) Minimize(e Expr) {
	m.obj = e.Terms
	m.objOffset = e.Constant
}

// densify folds duplicate variable references of a term list into a dense
// coefficient vector over all columns.
func (m *Model) densify(terms []Term) []float64 {
	dense := make([]float64, len(m.cols))
	for _, t := range terms {
		dense[t.Var] += t.Coeff
	}
	return dense
}

// hasFiniteUpper reports whether the column carries a finite upper bound.
func (c column) hasFiniteUpper() bool {
	return !math.IsInf(c.upper, 1)
}
