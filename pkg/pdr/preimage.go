package pdr

import (
	"context"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/conjfml"
	"github.com/gitrdm/gopdr/pkg/formula"
	"github.com/gitrdm/gopdr/pkg/solver"
)

// Preimage computes the symbolic backward image of cube through T in the
// context of frame: a DNF list of cubes c_1..c_m such that
// ⋁ c_i ≡ ∃V'. frame ∧ T ∧ cube', V' the primed variables occurring in
// cube' or T.
//
// T is deliberately kept as a raw Formula rather than converted to a
// ConjFml first - handing the transition relation to the solver in CNF
// causes severe blow-up; only frame, which is naturally conjunctive, is
// supplied that way (spec.md §4.4's rationale).
func Preimage(ctx context.Context, facade solver.Facade, frame *conjfml.ConjFml, cube *conjfml.ConjFml, t formula.Formula) ([]*conjfml.ConjFml, error) {
	primedCube := cube.AsPrimed()

	seen := map[lia.Var]bool{}
	var exists []lia.Var
	for _, v := range primedCube.Vars() {
		if !seen[v] {
			seen[v] = true
			exists = append(exists, v)
		}
	}
	for _, v := range primedVarsIn(t) {
		if !seen[v] {
			seen[v] = true
			exists = append(exists, v)
		}
	}

	combined := formula.And(conjfmlToFormula(frame), t, conjfmlToFormula(primedCube))
	subgoals, err := facade.QE(ctx, exists, combined)
	if err != nil {
		return nil, err
	}

	var out []*conjfml.ConjFml
	for _, sg := range subgoals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tightened, err := facade.PropagateBounds(ctx, conjfmlToFormula(sg))
		if err != nil {
			return nil, err
		}
		for _, tc := range formula.ToDNF(tightened) {
			if !cubeIsFalse(tc) {
				out = append(out, tc)
			}
		}
	}
	return out, nil
}
