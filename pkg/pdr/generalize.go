package pdr

import (
	"context"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/conjfml"
	"github.com/gitrdm/gopdr/pkg/formula"
	"github.com/gitrdm/gopdr/pkg/solver"
)

// GeneralizeUnsat enlarges a relatively-inductive cube to the smallest
// literal subset that is still relatively inductive and disjoint from I
// (spec.md §4.5). Precondition (not re-checked here): frame ∧ T ∧ ¬cube ∧
// cube' is unsatisfiable, i.e. cube itself is relatively inductive.
//
// Subsets are enumerated by increasing cardinality, the power-set iterator
// spec.md describes; the divide-and-conquer bisection variant it
// acknowledges as a faster alternative is not implemented, exactly as
// spec.md licenses.
//
// Returns ErrPropertyRefuted if even the full cube intersects I - per
// spec.md §9's resolved Open Question, the unsound "inject ¬I" variant is
// never attempted.
func GeneralizeUnsat(ctx context.Context, facade solver.Facade, i formula.Formula, frame *conjfml.ConjFml, t formula.Formula, cube *conjfml.ConjFml) (*conjfml.ConjFml, error) {
	lits := cube.Literals()

	for size := 1; size < len(lits); size++ {
		for _, idx := range combinations(len(lits), size) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			subset := selectLiterals(lits, idx)
			g := conjfml.FromLiterals(subset...)

			inductive, err := relativelyInductive(ctx, facade, frame, t, g)
			if err != nil {
				return nil, err
			}
			if !inductive {
				continue
			}
			disjoint, err := initDisjoint(ctx, facade, i, g)
			if err != nil {
				return nil, err
			}
			if disjoint {
				return g, nil
			}
		}
	}

	disjoint, err := initDisjoint(ctx, facade, i, cube)
	if err != nil {
		return nil, err
	}
	if !disjoint {
		return nil, ErrPropertyRefuted
	}
	return cube, nil
}

// GeneralizeSat shrinks a predecessor cube c (drawn from the satisfiable
// disjunction d returned by Preimage) to a minimal sub-cube that still
// implies d and remains disjoint from I. spec.md §4.5 defines this
// operation as the Sat-side analogue of GeneralizeUnsat but does not spell
// out its exact call site in the main loop's prose; this repo invokes it
// on every predecessor cube Preimage returns, right before it is scheduled
// as an obligation, which is the one place a "minimal cube implying the
// preimage disjunction" is meaningful (see DESIGN.md).
func GeneralizeSat(ctx context.Context, facade solver.Facade, i formula.Formula, d []*conjfml.ConjFml, c *conjfml.ConjFml) (*conjfml.ConjFml, error) {
	lits := c.Literals()
	dFormula := disjunctionFormula(d)

	for size := 1; size < len(lits); size++ {
		for _, idx := range combinations(len(lits), size) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			subset := selectLiterals(lits, idx)
			g := conjfml.FromLiterals(subset...)

			implies, err := implies(ctx, facade, g, dFormula)
			if err != nil {
				return nil, err
			}
			if !implies {
				continue
			}
			disjoint, err := initDisjoint(ctx, facade, i, g)
			if err != nil {
				return nil, err
			}
			if disjoint {
				return g, nil
			}
		}
	}
	return c, nil
}

func disjunctionFormula(cubes []*conjfml.ConjFml) formula.Formula {
	disj := make([]formula.Formula, len(cubes))
	for i, c := range cubes {
		disj[i] = conjfmlToFormula(c)
	}
	return formula.Or(disj...)
}

// relativelyInductive checks frame ∧ T ∧ ¬g ∧ g' unsat. solver.Unknown is
// treated the same as Sat throughout this package (spec.md §7's
// conservative policy): only an explicit Unsat counts as success.
func relativelyInductive(ctx context.Context, facade solver.Facade, frame *conjfml.ConjFml, t formula.Formula, g *conjfml.ConjFml) (bool, error) {
	gf := conjfmlToFormula(g)
	phi := formula.And(conjfmlToFormula(frame), t, formula.Not(gf), conjfmlToFormula(g.AsPrimed()))
	verdict, _, err := facade.Sat(ctx, phi)
	if err != nil {
		return false, err
	}
	return verdict == solver.Unsat, nil
}

// initDisjoint checks I ∧ g unsat.
func initDisjoint(ctx context.Context, facade solver.Facade, i formula.Formula, g *conjfml.ConjFml) (bool, error) {
	verdict, _, err := facade.Sat(ctx, formula.And(i, conjfmlToFormula(g)))
	if err != nil {
		return false, err
	}
	return verdict == solver.Unsat, nil
}

// implies checks g ∧ ¬d unsat, i.e. g ⟹ d.
func implies(ctx context.Context, facade solver.Facade, g *conjfml.ConjFml, d formula.Formula) (bool, error) {
	verdict, _, err := facade.Sat(ctx, formula.And(conjfmlToFormula(g), formula.Not(d)))
	if err != nil {
		return false, err
	}
	return verdict == solver.Unsat, nil
}

func selectLiterals(lits []lia.Literal, idx []int) []lia.Literal {
	out := make([]lia.Literal, len(idx))
	for i, j := range idx {
		out[i] = lits[j]
	}
	return out
}

// combinations returns every k-sized subset of {0,...,n-1} as a sorted
// index list, in lexicographic order.
func combinations(n, k int) [][]int {
	if k > n || k < 0 {
		return nil
	}
	var out [][]int
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		out = append(out, append([]int{}, idx...))
		pos := k - 1
		for pos >= 0 && idx[pos] == n-k+pos {
			pos--
		}
		if pos < 0 {
			break
		}
		idx[pos]++
		for j := pos + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
	return out
}
