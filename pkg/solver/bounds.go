package solver

import (
	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/formula"
)

// propagateBounds folds constant bound information forward within each
// conjunction: among a conjunction's atomic children, it keeps only the
// tightest upper and lower bound per single-variable literal (e.g.
// "x<=5 && x<=3" collapses to "x<=3"). Non-atomic children, and children of
// a disjunction, are recursed into but otherwise left structurally alone -
// this never changes what the formula is satisfied by, only how many
// redundant conjuncts it carries.
func propagateBounds(f formula.Formula) formula.Formula {
	switch f.Kind() {
	case formula.KindAnd:
		children := f.Children()
		rewritten := make([]formula.Formula, len(children))
		for i, c := range children {
			rewritten[i] = propagateBounds(c)
		}
		return tightenConjuncts(rewritten)
	case formula.KindOr:
		children := f.Children()
		rewritten := make([]formula.Formula, len(children))
		for i, c := range children {
			rewritten[i] = propagateBounds(c)
		}
		return formula.Or(rewritten...)
	case formula.KindNot:
		return formula.Not(propagateBounds(f.Children()[0]))
	default:
		return f
	}
}

// tightenConjuncts partitions children into single-variable bound atoms
// (which get merged) and everything else (left untouched).
func tightenConjuncts(children []formula.Formula) formula.Formula {
	type bound struct {
		set bool
		val int64
	}
	upper := map[lia.Var]*bound{}
	lower := map[lia.Var]*bound{}
	var other []formula.Formula

	for _, c := range children {
		if c.Kind() != formula.KindAtom {
			other = append(other, c)
			continue
		}
		l := c.Literal()
		vars := l.Vars()
		if l.Kind != lia.Le || len(vars) != 1 {
			other = append(other, c)
			continue
		}
		v := vars[0]
		switch l.LHS.Coeff(v) {
		case 1: // v + k <= 0  <=>  v <= -k
			val := -l.LHS.Const
			if b := upper[v]; b == nil || val < b.val {
				upper[v] = &bound{true, val}
			}
		case -1: // -v + k <= 0  <=>  v >= k
			val := l.LHS.Const
			if b := lower[v]; b == nil || val > b.val {
				lower[v] = &bound{true, val}
			}
		default:
			other = append(other, c)
		}
	}

	out := append([]formula.Formula{}, other...)
	for v, b := range upper {
		out = append(out, formula.Atom(lia.LeE(lia.ExprOf(v), lia.ConstExpr(b.val))))
	}
	for v, b := range lower {
		out = append(out, formula.Atom(lia.GeE(lia.ExprOf(v), lia.ConstExpr(b.val))))
	}
	return formula.And(out...)
}

// simplifyLiteral divides a literal's coefficients (and constant) by their
// greatest common divisor, e.g. "2x + 4 <= 0" becomes "x + 2 <= 0".
func simplifyLiteral(l lia.Literal) lia.Literal {
	vars := l.LHS.Vars()
	if len(vars) == 0 {
		return l
	}
	g := int64(0)
	for _, v := range vars {
		g = gcdInt64(g, abs64(l.LHS.Coeff(v)))
	}
	g = gcdInt64(g, abs64(l.LHS.Const))
	if g <= 1 {
		return l
	}
	terms := make(map[lia.Var]int64, len(vars))
	for _, v := range vars {
		terms[v] = l.LHS.Coeff(v) / g
	}
	return lia.Literal{Kind: l.Kind, LHS: lia.Expr{Terms: terms, Const: l.LHS.Const / g}}
}

func gcdInt64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
