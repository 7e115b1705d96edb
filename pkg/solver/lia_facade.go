package solver

import (
	"context"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/conjfml"
	"github.com/gitrdm/gopdr/pkg/formula"
)

// LIAFacade is the production Facade, backed by internal/lia's
// Fourier-Motzkin decision procedure. It holds no mutable state; every
// method is a pure function of its arguments plus ctx cancellation.
type LIAFacade struct{}

// NewLIAFacade constructs the default Facade implementation.
func NewLIAFacade() *LIAFacade { return &LIAFacade{} }

func (f *LIAFacade) Sat(ctx context.Context, phi formula.Formula) (Verdict, Model, error) {
	if err := ctx.Err(); err != nil {
		return Unknown, nil, err
	}
	cubes := formula.ToDNF(phi)
	for _, cube := range cubes {
		if err := ctx.Err(); err != nil {
			return Unknown, nil, err
		}
		assignment, ok := lia.SatisfyingModel(cube.Literals())
		if ok {
			return Sat, Model(assignment), nil
		}
	}
	return Unsat, nil, nil
}

func (f *LIAFacade) QE(ctx context.Context, exists []lia.Var, phi formula.Formula) ([]*conjfml.ConjFml, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*conjfml.ConjFml
	for _, cube := range formula.ToDNF(phi) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for _, subgoal := range lia.Eliminate(exists, cube.Literals()) {
			out = append(out, conjfml.FromLiterals(subgoal...))
		}
	}
	return out, nil
}

func (f *LIAFacade) TseitinCNF(ctx context.Context, phi formula.Formula) (*conjfml.ConjFml, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tseitinCNF(phi), nil
}

func (f *LIAFacade) PropagateBounds(ctx context.Context, phi formula.Formula) (formula.Formula, error) {
	if err := ctx.Err(); err != nil {
		return formula.Formula{}, err
	}
	return propagateBounds(phi), nil
}

func (f *LIAFacade) Simplify(ctx context.Context, lit lia.Literal) (lia.Literal, error) {
	if err := ctx.Err(); err != nil {
		return lia.Literal{}, err
	}
	return simplifyLiteral(lit), nil
}

var _ Facade = (*LIAFacade)(nil)
