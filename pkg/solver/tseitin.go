package solver

import (
	"fmt"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/conjfml"
	"github.com/gitrdm/gopdr/pkg/formula"
)

// tseitin builds an equisatisfiable ConjFml for f by introducing one fresh
// gate variable per And/Or node and asserting the standard Tseitin
// biconditional clauses for it, bottom-up. Atoms need no gate: their
// literal is used directly, which is the only part of this encoding that
// is exact rather than an approximation over the solver's rational
// relaxation (gates are bounded to [0,1] but not tightened to integers,
// the same caveat internal/lia.Satisfiable already documents for every
// other literal).
type tseitin struct {
	gen     int
	clauses []conjfml.Clause
}

func (t *tseitin) freshGate() lia.Var {
	t.gen++
	g := lia.NewVar(fmt.Sprintf("_tseitin_%d", t.gen))
	t.clauses = append(t.clauses,
		conjfml.Clause{lia.LeE(lia.ExprOf(g), lia.ConstExpr(1))},
		conjfml.Clause{lia.GeE(lia.ExprOf(g), lia.ConstExpr(0))},
	)
	return g
}

func gateTrue(g lia.Var) lia.Literal { return lia.EqE(lia.ExprOf(g), lia.ConstExpr(1)) }

// encode returns the literal standing for f's truth value, appending any
// defining clauses it introduces to t.clauses.
func (t *tseitin) encode(f formula.Formula) lia.Literal {
	switch f.Kind() {
	case formula.KindTrue:
		g := t.freshGate()
		t.clauses = append(t.clauses, conjfml.Clause{gateTrue(g)})
		return gateTrue(g)
	case formula.KindFalse:
		g := t.freshGate()
		t.clauses = append(t.clauses, conjfml.Clause{gateTrue(g).Negate()})
		return gateTrue(g).Negate()
	case formula.KindAtom:
		return f.Literal()
	case formula.KindNot:
		return t.encode(f.Children()[0]).Negate()
	case formula.KindAnd:
		return t.encodeAnd(f.Children())
	case formula.KindOr:
		return t.encodeOr(f.Children())
	default:
		panic(fmt.Sprintf("solver: tseitin encountered unknown formula kind %d", f.Kind()))
	}
}

// encodeAnd introduces g <-> (l1 ∧ ... ∧ ln):
//
//	(¬g ∨ li) for each i
//	(g ∨ ¬l1 ∨ ... ∨ ¬ln)
func (t *tseitin) encodeAnd(children []formula.Formula) lia.Literal {
	lits := make([]lia.Literal, len(children))
	for i, c := range children {
		lits[i] = t.encode(c)
	}
	g := t.freshGate()
	gt, gf := gateTrue(g), gateTrue(g).Negate()
	for _, l := range lits {
		t.clauses = append(t.clauses, conjfml.Clause{gf, l})
	}
	big := make([]lia.Literal, 0, len(lits)+1)
	big = append(big, gt)
	for _, l := range lits {
		big = append(big, l.Negate())
	}
	t.clauses = append(t.clauses, conjfml.Clause(big))
	return gt
}

// encodeOr introduces g <-> (l1 ∨ ... ∨ ln):
//
//	(¬g ∨ l1 ∨ ... ∨ ln)
//	(g ∨ ¬li) for each i
func (t *tseitin) encodeOr(children []formula.Formula) lia.Literal {
	lits := make([]lia.Literal, len(children))
	for i, c := range children {
		lits[i] = t.encode(c)
	}
	g := t.freshGate()
	gt, gf := gateTrue(g), gateTrue(g).Negate()
	big := make([]lia.Literal, 0, len(lits)+1)
	big = append(big, gf)
	big = append(big, lits...)
	t.clauses = append(t.clauses, conjfml.Clause(big))
	for _, l := range lits {
		t.clauses = append(t.clauses, conjfml.Clause{gt, l.Negate()})
	}
	return gt
}

// tseitinCNF is TseitinCNF's pure logic, split out so LIAFacade.TseitinCNF
// only has to own the context/error-wrapping boilerplate.
func tseitinCNF(f formula.Formula) *conjfml.ConjFml {
	if fast, err := formula.ToConjFml(f); err == nil {
		return fast
	}
	t := &tseitin{}
	root := t.encode(f)
	t.clauses = append(t.clauses, conjfml.Clause{root})
	return conjfml.New(t.clauses...)
}
