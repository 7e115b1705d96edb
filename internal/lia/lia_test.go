package lia

import "testing"

func TestVarPrimeUnprime(t *testing.T) {
	x := NewVar("x")
	px := x.Prime()
	if px.World != Next {
		t.Fatalf("Prime() did not set World=Next")
	}
	if got := px.Unprime(); got != x {
		t.Fatalf("Unprime(Prime(x)) = %v, want %v", got, x)
	}
}

func TestPrimeTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic priming an already-primed variable")
		}
	}()
	NewVar("x").Prime().Prime()
}

func TestLiteralNegateInvolution(t *testing.T) {
	x, y := ExprOf(NewVar("x")), ExprOf(NewVar("y"))
	for _, l := range []Literal{EqE(x, y), LeE(x, y), NeqE(x, y), GtE(x, y)} {
		if !l.Negate().Negate().Equal(l) {
			t.Errorf("Negate() is not an involution for %v", l)
		}
	}
}

func TestSatisfiableSimpleInequalities(t *testing.T) {
	x := ExprOf(NewVar("x"))
	one := ConstExpr(1)
	zero := ConstExpr(0)

	cases := []struct {
		name string
		lits []Literal
		want bool
	}{
		{"x<=0 and x>=0 is sat (x=0)", []Literal{LeE(x, zero), GeE(x, zero)}, true},
		{"x<0 and x>0 is unsat", []Literal{LtE(x, zero), GtE(x, zero)}, false},
		{"x<=0 and x>=1 is unsat", []Literal{LeE(x, zero), GeE(x, one)}, false},
		{"x!=0 is sat", []Literal{NeqE(x, zero)}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Satisfiable(tc.lits); got != tc.want {
				t.Errorf("Satisfiable(%v) = %v, want %v", tc.lits, got, tc.want)
			}
		})
	}
}

func TestEliminateDropsUnsatisfiableBranches(t *testing.T) {
	x, y := NewVar("x"), NewVar("y")
	// exists x. (y - x <= 0) and (x - y <= -1)   =>  y <= x <= y-1, unsat for all y
	lits := []Literal{
		LeE(ExprOf(y), ExprOf(x)),
		LeE(ExprOf(x), ExprOf(y).Sub(ConstExpr(1))),
	}
	got := Eliminate([]Var{x}, lits)
	if len(got) != 0 {
		t.Fatalf("Eliminate() = %v, want no subgoals (unsatisfiable)", got)
	}
}

func TestEliminateProducesSatisfiableProjection(t *testing.T) {
	x, y := NewVar("x"), NewVar("y")
	// exists x. (x - y <= 0) and (y - x <= 0)  =>  y <= 0-free, trivially true (x=y)
	lits := []Literal{
		LeE(ExprOf(x), ExprOf(y)),
		LeE(ExprOf(y), ExprOf(x)),
	}
	got := Eliminate([]Var{x}, lits)
	if len(got) == 0 {
		t.Fatalf("Eliminate() = empty, want at least one satisfiable subgoal")
	}
}
