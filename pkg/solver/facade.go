// Package solver implements the Solver Facade from spec.md §4.1: a thin,
// uniform interface in front of whatever decision procedure actually
// answers satisfiability and quantifier-elimination queries, so the PDR
// engine never talks to a concrete backend directly.
//
// The one production implementation, LIAFacade, adapts internal/lia's
// Fourier-Motzkin procedure to this interface - standing in for the
// "underlying SMT decision procedures" the original design treats as
// opaque. A future real SMT backend slots in behind the same interface
// without the engine noticing.
package solver

import (
	"context"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/conjfml"
	"github.com/gitrdm/gopdr/pkg/formula"
)

// Verdict is a decision procedure's answer to a satisfiability query.
// Unknown is a first-class outcome, never silently coerced to Sat or
// Unsat - the PDR engine decides how to react to it (spec.md §7).
type Verdict int

const (
	Unsat Verdict = iota
	Sat
	Unknown
)

func (v Verdict) String() string {
	switch v {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Model is a satisfying assignment returned alongside a Sat verdict. It is
// nil for Unsat/Unknown verdicts.
type Model lia.Assignment

// Facade is the uniform surface the PDR engine drives every decision
// procedure call through.
type Facade interface {
	// Sat decides whether f is satisfiable, returning a witness Model on Sat.
	Sat(ctx context.Context, f formula.Formula) (Verdict, Model, error)

	// QE computes a DNF of conjunctive subgoals equivalent to "exists
	// exists. f" (spec.md §4.1's qe contract).
	QE(ctx context.Context, exists []lia.Var, f formula.Formula) ([]*conjfml.ConjFml, error)

	// TseitinCNF converts f into an equisatisfiable ConjFml, introducing
	// fresh gate variables only when formula.ToConjFml's restricted fast
	// path (a literal, a clause, or a conjunction of such) rejects f.
	TseitinCNF(ctx context.Context, f formula.Formula) (*conjfml.ConjFml, error)

	// PropagateBounds tightens f by folding constant bound information
	// forward (e.g. collapsing "x<=3 && x<=5" to "x<=3"); it never changes
	// f's satisfiability, only its shape.
	PropagateBounds(ctx context.Context, f formula.Formula) (formula.Formula, error)

	// Simplify normalizes a single literal (e.g. dividing through by the
	// gcd of its coefficients), used when freshly-generalized literals are
	// added to a frame.
	Simplify(ctx context.Context, lit lia.Literal) (lia.Literal, error)
}
