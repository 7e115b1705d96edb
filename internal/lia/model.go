package lia

import "math/big"

// Assignment maps variables to witness integer values.
type Assignment map[Var]int64

// elimStep records the x-free lower/upper bound inequalities discovered for
// one eliminated variable, so SatisfyingModel can back-substitute a witness
// once the fully-projected system is known consistent.
type elimStep struct {
	v            Var
	lower, upper []ineq
}

// eliminateVarRecording behaves like eliminateVar but also returns the
// lower/upper bound inequalities it discovered for x, expressed purely in
// terms of variables not yet eliminated.
func eliminateVarRecording(ineqs []ineq, x Var) (out []ineq, lower, upper []ineq) {
	var free []ineq
	for _, in := range ineqs {
		c := in.expr.coeff(x)
		if c.Sign() == 0 {
			free = append(free, in)
			continue
		}
		rest := in.expr.withoutVar(x)
		inv := new(big.Rat).Inv(c)
		bound := rest.scale(new(big.Rat).Neg(inv))
		if c.Sign() > 0 {
			upper = append(upper, ineq{expr: bound, strict: in.strict})
		} else {
			lower = append(lower, ineq{expr: bound, strict: in.strict})
		}
	}
	out = free
	for _, lo := range lower {
		for _, up := range upper {
			combined := lo.expr.add(up.expr.scale(big.NewRat(-1, 1)))
			out = append(out, ineq{expr: combined, strict: lo.strict || up.strict})
		}
	}
	return out, lower, upper
}

// eliminateAllRecording eliminates xs in order, recording each step's bound
// inequalities for later back-substitution.
func eliminateAllRecording(ineqs []ineq, xs []Var) ([]ineq, []elimStep) {
	steps := make([]elimStep, 0, len(xs))
	for _, x := range xs {
		var lower, upper []ineq
		ineqs, lower, upper = eliminateVarRecording(ineqs, x)
		steps = append(steps, elimStep{v: x, lower: lower, upper: upper})
	}
	return ineqs, steps
}

// evalConst evaluates an x-free expression under a (presumed complete for
// the expression's variables) assignment.
func evalConst(e ratExpr, assignment Assignment) *big.Rat {
	v := new(big.Rat).Set(e.constant)
	for x, c := range e.terms {
		val, ok := assignment[x]
		if !ok {
			// Should not happen: back-substitution proceeds in reverse
			// elimination order, so every variable mentioned here was
			// assigned in an earlier (later-eliminated) step.
			continue
		}
		term := new(big.Rat).Mul(c, new(big.Rat).SetInt64(val))
		v.Add(v, term)
	}
	return v
}

// pickValue chooses an integer for step.v consistent with its recorded
// lower/upper bounds, evaluated against the partial assignment built so
// far. Bounds are rounded to the nearest feasible integer exactly (ceil
// for a lower bound, floor for an upper one, shifted by one first when
// the original inequality was strict) rather than nudged by an epsilon,
// so a bound that lands exactly on an integer is never pushed past a
// tight opposing bound on the other side. This is a best-effort witness
// constructor: like the rest of this package, it is sound over the
// rationals and not re-verified for integer tightness when no integer
// satisfies both bounds.
func pickValue(step elimStep, assignment Assignment) int64 {
	var hasLower, hasUpper bool
	var lowerBound, upperBound int64

	for _, lo := range step.lower {
		val := evalConst(lo.expr, assignment)
		var bound int64
		if lo.strict {
			bound = floorRat(val) + 1
		} else {
			bound = ceilRat(val)
		}
		if !hasLower || bound > lowerBound {
			lowerBound = bound
			hasLower = true
		}
	}
	for _, up := range step.upper {
		val := evalConst(up.expr, assignment)
		var bound int64
		if up.strict {
			bound = ceilRat(val) - 1
		} else {
			bound = floorRat(val)
		}
		if !hasUpper || bound < upperBound {
			upperBound = bound
			hasUpper = true
		}
	}

	switch {
	case hasLower:
		return lowerBound
	case hasUpper:
		return upperBound
	default:
		return 0
	}
}

// ceilRat rounds r up to the nearest integer. big.Int.Div performs
// Euclidean division, which for a positive denominator (big.Rat always
// normalizes to one) is floor division regardless of r's sign, so the
// adjustment below must fire whenever r is non-integral, not only when
// r is positive.
func ceilRat(r *big.Rat) int64 {
	q := new(big.Int).Div(r.Num(), r.Denom())
	if new(big.Int).Mul(q, r.Denom()).Cmp(r.Num()) != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q.Int64()
}

func floorRat(r *big.Rat) int64 {
	return new(big.Int).Div(r.Num(), r.Denom()).Int64()
}

// SatisfyingModel returns a witness assignment for lits if one exists. The
// boolean result mirrors Satisfiable; when false, the Assignment is nil.
func SatisfyingModel(lits []Literal) (Assignment, bool) {
	rest, diseqs := splitDisequalities(lits)
	for _, branch := range branches(diseqs) {
		ineqs := toIneqs(append(append([]Literal{}, rest...), branch...))
		vars := allVars(ineqs)
		final, steps := eliminateAllRecording(ineqs, vars)
		if !consistent(final) {
			continue
		}
		assignment := Assignment{}
		for i := len(steps) - 1; i >= 0; i-- {
			step := steps[i]
			assignment[step.v] = pickValue(step, assignment)
		}
		return assignment, true
	}
	return nil, false
}
