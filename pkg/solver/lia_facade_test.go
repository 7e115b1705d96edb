package solver

import (
	"context"
	"testing"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/formula"
)

func atom(name string, kind lia.Kind, c int64) formula.Formula {
	v := lia.ExprOf(lia.NewVar(name))
	var l lia.Literal
	switch kind {
	case lia.Le:
		l = lia.LeE(v, lia.ConstExpr(c))
	case lia.NotLe:
		l = lia.GtE(v, lia.ConstExpr(c))
	}
	return formula.Atom(l)
}

func TestSatDetectsSatisfiableAndUnsatisfiable(t *testing.T) {
	facade := NewLIAFacade()
	ctx := context.Background()

	sat := formula.And(atom("x", lia.Le, 5), atom("x", lia.NotLe, 0))
	verdict, model, err := facade.Sat(ctx, sat)
	if err != nil {
		t.Fatalf("Sat returned error: %v", err)
	}
	if verdict != Sat {
		t.Fatalf("Sat(0 < x <= 5) = %v, want Sat", verdict)
	}
	if model == nil {
		t.Fatal("Sat verdict should carry a witness model")
	}

	unsat := formula.And(atom("x", lia.Le, 0), atom("x", lia.NotLe, 5))
	verdict, _, err = facade.Sat(ctx, unsat)
	if err != nil {
		t.Fatalf("Sat returned error: %v", err)
	}
	if verdict != Unsat {
		t.Fatalf("Sat(x<=0 && x>5) = %v, want Unsat", verdict)
	}
}

func TestQEProducesNonEmptyDNFWhenSatisfiable(t *testing.T) {
	facade := NewLIAFacade()
	x, y := lia.NewVar("x"), lia.NewVar("y")
	phi := formula.Atom(lia.LeE(lia.ExprOf(x), lia.ExprOf(y)))

	subgoals, err := facade.QE(context.Background(), []lia.Var{x}, phi)
	if err != nil {
		t.Fatalf("QE returned error: %v", err)
	}
	if len(subgoals) == 0 {
		t.Fatal("QE(exists x. x<=y) should produce at least one subgoal")
	}
}

func TestTseitinCNFFastPathOnSingleClause(t *testing.T) {
	facade := NewLIAFacade()
	cube := formula.And(atom("x", lia.Le, 0), atom("y", lia.Le, 0))
	negated := formula.Not(cube)

	cnf, err := facade.TseitinCNF(context.Background(), negated)
	if err != nil {
		t.Fatalf("TseitinCNF returned error: %v", err)
	}
	if cnf.Len() != 1 {
		t.Fatalf("TseitinCNF(¬cube) should fast-path to one clause, got %d", cnf.Len())
	}
}

func TestTseitinCNFGeneralCaseProducesClauses(t *testing.T) {
	facade := NewLIAFacade()
	// (x<=0 && y<=0) || (x<=0 && z<=0): a disjunction of cubes, which the
	// ToConjFml fast path rejects, so gate variables are needed
	f := formula.Or(
		formula.And(atom("x", lia.Le, 0), atom("y", lia.Le, 0)),
		formula.And(atom("x", lia.Le, 0), atom("z", lia.Le, 0)),
	)
	cnf, err := facade.TseitinCNF(context.Background(), f)
	if err != nil {
		t.Fatalf("TseitinCNF returned error: %v", err)
	}
	if cnf.Len() == 0 {
		t.Fatal("TseitinCNF of a formula that needs gate variables should not be empty")
	}
}

func TestSimplifyDividesByGCD(t *testing.T) {
	facade := NewLIAFacade()
	x := lia.ExprOf(lia.NewVar("x")).Scale(4)
	lit := lia.LeE(x, lia.ConstExpr(8)) // 4x - 8 <= 0
	got, err := facade.Simplify(context.Background(), lit)
	if err != nil {
		t.Fatalf("Simplify returned error: %v", err)
	}
	if got.LHS.Coeff(lia.NewVar("x")) != 1 {
		t.Fatalf("Simplify did not reduce coefficient, got %s", got)
	}
}

func TestPropagateBoundsMergesTighterUpperBound(t *testing.T) {
	facade := NewLIAFacade()
	f := formula.And(atom("x", lia.Le, 5), atom("x", lia.Le, 3))
	got, err := facade.PropagateBounds(context.Background(), f)
	if err != nil {
		t.Fatalf("PropagateBounds returned error: %v", err)
	}
	if got.Kind() != formula.KindAtom {
		t.Fatalf("PropagateBounds should collapse to a single tightened atom, got kind %d", got.Kind())
	}
	if got.Literal().LHS.Const != -3 {
		t.Fatalf("PropagateBounds kept the looser bound: %s", got.Literal())
	}
}
