package lia

import (
	"math/big"
)

// ratExpr is Expr with exact rational coefficients, used internally so that
// Fourier-Motzkin pivoting (which divides by a pivot coefficient) never
// loses precision.
type ratExpr struct {
	terms    map[Var]*big.Rat
	constant *big.Rat
}

func newRatExpr() ratExpr {
	return ratExpr{terms: map[Var]*big.Rat{}, constant: new(big.Rat)}
}

func (r ratExpr) clone() ratExpr {
	out := newRatExpr()
	out.constant.Set(r.constant)
	for v, c := range r.terms {
		out.terms[v] = new(big.Rat).Set(c)
	}
	return out
}

func (r ratExpr) coeff(v Var) *big.Rat {
	if c, ok := r.terms[v]; ok {
		return c
	}
	return new(big.Rat)
}

// withoutVar returns a clone of r with v's term removed (used to peel a
// pivot variable off before rearranging into a bound).
func (r ratExpr) withoutVar(v Var) ratExpr {
	out := r.clone()
	delete(out.terms, v)
	return out
}

// scale returns r * factor.
func (r ratExpr) scale(factor *big.Rat) ratExpr {
	out := newRatExpr()
	out.constant.Mul(r.constant, factor)
	for v, c := range r.terms {
		nc := new(big.Rat).Mul(c, factor)
		if nc.Sign() != 0 {
			out.terms[v] = nc
		}
	}
	return out
}

// add returns r + other.
func (r ratExpr) add(other ratExpr) ratExpr {
	out := r.clone()
	out.constant.Add(out.constant, other.constant)
	for v, c := range other.terms {
		if cur, ok := out.terms[v]; ok {
			cur.Add(cur, c)
			if cur.Sign() == 0 {
				delete(out.terms, v)
			}
		} else {
			out.terms[v] = new(big.Rat).Set(c)
		}
	}
	return out
}

func (r ratExpr) isConst() bool { return len(r.terms) == 0 }

// ineq represents the constraint "expr <= 0" (strict=false) or
// "expr < 0" (strict=true).
type ineq struct {
	expr   ratExpr
	strict bool
}

func literalToRat(l Literal) ratExpr {
	e := newRatExpr()
	e.constant.SetInt64(l.LHS.Const)
	for v, c := range l.LHS.Terms {
		if c != 0 {
			e.terms[v] = new(big.Rat).SetInt64(c)
		}
	}
	return e
}

// toIneqs converts the non-disequality literals into their <=0/<0 normal
// form. Eq expands into two non-strict inequalities (both directions).
func toIneqs(lits []Literal) []ineq {
	var out []ineq
	for _, l := range lits {
		e := literalToRat(l)
		switch l.Kind {
		case Eq:
			out = append(out, ineq{expr: e, strict: false})
			out = append(out, ineq{expr: e.scale(big.NewRat(-1, 1)), strict: false})
		case Le:
			out = append(out, ineq{expr: e, strict: false})
		case NotLe:
			// LHS > 0  <=>  -LHS < 0
			out = append(out, ineq{expr: e.scale(big.NewRat(-1, 1)), strict: true})
		case NotEq:
			panic("lia: toIneqs called with an unresolved disequality")
		}
	}
	return out
}

// splitDisequalities separates NotEq literals (which Fourier-Motzkin cannot
// represent directly) from the rest.
func splitDisequalities(lits []Literal) (rest []Literal, diseqs []Literal) {
	for _, l := range lits {
		if l.Kind == NotEq {
			diseqs = append(diseqs, l)
		} else {
			rest = append(rest, l)
		}
	}
	return rest, diseqs
}

// branches expands k disequalities into 2^k branches, each replacing every
// disequality "a != b" with one of "a < b" or "a > b" (both NotLe-shaped
// canonical literals). This is the case-split the design calls for instead
// of representing disjunction inside the FM solver itself.
func branches(diseqs []Literal) [][]Literal {
	if len(diseqs) == 0 {
		return [][]Literal{nil}
	}
	head, tail := diseqs[0], diseqs[1:]
	rest := branches(tail)

	lt := Literal{Kind: NotLe, LHS: head.LHS.Scale(-1)} // ¬(LHS>=0) => LHS<0, i.e. a<b
	gt := Literal{Kind: NotLe, LHS: head.LHS}            // a>b

	out := make([][]Literal, 0, 2*len(rest))
	for _, r := range rest {
		out = append(out, append([]Literal{lt}, r...))
		out = append(out, append([]Literal{gt}, r...))
	}
	return out
}

// eliminateVar removes one variable from a system of inequalities by
// Fourier-Motzkin projection: every inequality mentioning x is rewritten as
// an upper or lower bound on x, and every lower/upper pair is combined into
// a new x-free inequality. Inequalities that don't mention x pass through
// unchanged. A variable with only lower (or only upper) bounds is
// unconstrained on the missing side and those inequalities simply vanish,
// since integers are unbounded in that direction.
func eliminateVar(ineqs []ineq, x Var) []ineq {
	var free []ineq
	var lower, upper []ineq // bound value expr (x-free) + strictness

	for _, in := range ineqs {
		c := in.expr.coeff(x)
		if c.Sign() == 0 {
			free = append(free, in)
			continue
		}
		rest := in.expr.withoutVar(x)
		inv := new(big.Rat).Inv(c)
		bound := rest.scale(new(big.Rat).Neg(inv)) // -rest/c
		if c.Sign() > 0 {
			// c*x + rest <= 0  =>  x <= -rest/c
			upper = append(upper, ineq{expr: bound, strict: in.strict})
		} else {
			// c*x + rest <= 0, c<0  =>  x >= -rest/c
			lower = append(lower, ineq{expr: bound, strict: in.strict})
		}
	}

	out := free
	for _, lo := range lower {
		for _, up := range upper {
			// lo.expr <= x <= up.expr  =>  lo.expr - up.expr <= 0
			combined := lo.expr.add(up.expr.scale(big.NewRat(-1, 1)))
			out = append(out, ineq{expr: combined, strict: lo.strict || up.strict})
		}
	}
	return out
}

func eliminateAll(ineqs []ineq, xs []Var) []ineq {
	for _, x := range xs {
		ineqs = eliminateVar(ineqs, x)
	}
	return ineqs
}

// allVars collects every variable mentioned across a set of inequalities,
// in stable order.
func allVars(ineqs []ineq) []Var {
	seen := map[Var]bool{}
	var vs []Var
	for _, in := range ineqs {
		for v := range in.expr.terms {
			if !seen[v] {
				seen[v] = true
				vs = append(vs, v)
			}
		}
	}
	sortVars(vs)
	return vs
}

// consistent reports whether the constant-only inequalities of a projected
// system are all satisfiable. Any inequality still mentioning a variable
// is skipped: Satisfiable eliminates every variable first (via allVars),
// while Eliminate projects only its xs and relies on this skipping.
func consistent(ineqs []ineq) bool {
	for _, in := range ineqs {
		if !in.expr.isConst() {
			continue
		}
		sign := in.expr.constant.Sign()
		if in.strict {
			if sign >= 0 {
				return false
			}
		} else {
			if sign > 0 {
				return false
			}
		}
	}
	return true
}

// Satisfiable decides satisfiability of the conjunction of lits over the
// rationals (an over-approximation for integers: it can say Sat when the
// tightest integer solution does not exist, exactly the limitation
// spec.md accepts by treating the decision procedure as an external,
// opaque collaborator).
func Satisfiable(lits []Literal) bool {
	rest, diseqs := splitDisequalities(lits)
	for _, branch := range branches(diseqs) {
		ineqs := toIneqs(append(append([]Literal{}, rest...), branch...))
		projected := eliminateAll(ineqs, allVars(ineqs))
		if consistent(projected) {
			return true
		}
	}
	return false
}

// ineqToLiteral converts a projected inequality back into a canonical
// Literal, clearing rational denominators so the result has the integer
// Expr coefficients the rest of the system expects. Clearing denominators
// multiplies through by a positive scalar (the LCM of denominators), which
// never flips the inequality's direction.
func ineqToLiteral(in ineq) Literal {
	lcm := big.NewInt(1)
	for _, c := range in.expr.terms {
		lcm = lcmInt(lcm, c.Denom())
	}
	lcm = lcmInt(lcm, in.expr.constant.Denom())
	scale := new(big.Rat).SetInt(lcm)

	scaled := in.expr.scale(scale)
	e := Expr{Terms: make(map[Var]int64, len(scaled.terms))}
	for v, c := range scaled.terms {
		e.Terms[v] = ratToInt64(c)
	}
	e.Const = ratToInt64(scaled.constant)

	if in.strict {
		// expr < 0  <=>  ¬(-expr <= 0)  <=>  NotLe literal with LHS = -expr
		return Literal{Kind: NotLe, LHS: e.Scale(-1)}
	}
	return Literal{Kind: Le, LHS: e}
}

func ratToInt64(r *big.Rat) int64 {
	// r is guaranteed integral by the caller (denominators cleared).
	return new(big.Int).Div(r.Num(), r.Denom()).Int64()
}

func lcmInt(a, b *big.Int) *big.Int {
	if a.Sign() == 0 {
		return new(big.Int).Abs(b)
	}
	if b.Sign() == 0 {
		return new(big.Int).Abs(a)
	}
	gcd := new(big.Int).GCD(nil, nil, new(big.Int).Abs(a), new(big.Int).Abs(b))
	prod := new(big.Int).Mul(a, b)
	return new(big.Int).Abs(new(big.Int).Div(prod, gcd))
}

// Eliminate computes a DNF of conjunctive subgoals logically equivalent to
// "exists xs. conjunction(lits)" (spec.md §4.1's `qe` contract). Each
// element of the result is one conjunctive subgoal (as a literal list); the
// disjunction of all returned subgoals is the eliminated formula.
//
// Disequalities in lits are resolved by case-splitting before projection
// (see branches); each branch is projected independently and contributes
// its own subgoal, except branches that collapse to a constant
// contradiction, which are dropped (spec.md step 6: "drop any cube
// equivalent to false").
func Eliminate(xs []Var, lits []Literal) [][]Literal {
	rest, diseqs := splitDisequalities(lits)
	var out [][]Literal
	for _, branch := range branches(diseqs) {
		ineqs := toIneqs(append(append([]Literal{}, rest...), branch...))
		projected := eliminateAll(ineqs, xs)

		// consistent already restricts itself to the constant-only
		// inequalities in projected and ignores the rest; eliminating
		// only xs (not every variable) can derive a purely-constant
		// contradiction - e.g. two equalities pinning an eliminated
		// variable to two different values - while leaving unrelated
		// free-variable inequalities in the mix. That alone makes the
		// whole branch unconditionally false, independent of xs's
		// siblings, so it must be dropped even when not every
		// inequality in projected happens to be constant.
		if !consistent(projected) {
			continue
		}

		subgoal := make([]Literal, 0, len(projected))
		for _, in := range projected {
			subgoal = append(subgoal, ineqToLiteral(in))
		}
		out = append(out, subgoal)
	}
	return out
}
