package pdr

import (
	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/conjfml"
	"github.com/gitrdm/gopdr/pkg/formula"
)

// conjfmlToFormula renders a ConjFml as the Formula it denotes: the
// conjunction of its clauses, each clause the disjunction of its literals.
// A unit clause renders as a bare atom rather than a one-child Or, and an
// empty ConjFml renders as True - both handled for free by formula.And/Or's
// own collapsing rules.
func conjfmlToFormula(c *conjfml.ConjFml) formula.Formula {
	clauses := c.Clauses()
	conjuncts := make([]formula.Formula, 0, len(clauses))
	for _, cl := range clauses {
		conjuncts = append(conjuncts, clauseToFormula(cl))
	}
	return formula.And(conjuncts...)
}

func clauseToFormula(cl conjfml.Clause) formula.Formula {
	if len(cl) == 0 {
		return formula.False()
	}
	disj := make([]formula.Formula, len(cl))
	for i, l := range cl {
		disj[i] = formula.Atom(l)
	}
	return formula.Or(disj...)
}

// cubeIsFalse reports whether c contains the distinguished empty clause
// that formula.ToConjFml uses to represent constant false - distinct from an
// empty ConjFml, which represents true (spec.md §4.2's edge case).
func cubeIsFalse(c *conjfml.ConjFml) bool {
	for _, cl := range c.Clauses() {
		if len(cl) == 0 {
			return true
		}
	}
	return false
}

func filterFalseCubes(cubes []*conjfml.ConjFml) []*conjfml.ConjFml {
	out := make([]*conjfml.ConjFml, 0, len(cubes))
	for _, c := range cubes {
		if !cubeIsFalse(c) {
			out = append(out, c)
		}
	}
	return out
}

// primedVarsIn collects the distinct primed (Next-world) variables
// mentioned anywhere in f, in first-seen order - used by Preimage to build
// the existential quantifier set (spec.md §4.4 step 2).
func primedVarsIn(f formula.Formula) []lia.Var {
	seen := map[lia.Var]bool{}
	var out []lia.Var
	var walk func(formula.Formula)
	walk = func(f formula.Formula) {
		switch f.Kind() {
		case formula.KindAtom:
			for _, v := range f.Literal().Vars() {
				if v.World == lia.Next && !seen[v] {
					seen[v] = true
					out = append(out, v)
				}
			}
		case formula.KindNot, formula.KindAnd, formula.KindOr:
			for _, c := range f.Children() {
				walk(c)
			}
		}
	}
	walk(f)
	return out
}

// clauseSubset reports whether every literal of a appears in b - used by
// propagation's subsumption check: a clause with fewer disjuncts is
// logically stronger, so a ⊆ b means a implies b.
func clauseSubset(a, b conjfml.Clause) bool {
	for _, la := range a {
		found := false
		for _, lb := range b {
			if la.Equal(lb) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
