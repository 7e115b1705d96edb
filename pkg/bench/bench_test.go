package bench

import (
	"errors"
	"testing"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/formula"
)

func TestParseExprSimpleEquality(t *testing.T) {
	f, err := ParseExpr("x = 0")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if f.Kind() != formula.KindAtom {
		t.Fatalf("expected a bare atom, got kind %v", f.Kind())
	}
	if f.Literal().Kind != lia.Eq {
		t.Fatalf("expected Eq literal, got %v", f.Literal().Kind)
	}
}

func TestParseExprPrimedVariable(t *testing.T) {
	f, err := ParseExpr("x' = x + 2")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	vars := f.Literal().Vars()
	sawPrimed := false
	for _, v := range vars {
		if v.World == lia.Next {
			sawPrimed = true
		}
	}
	if !sawPrimed {
		t.Fatalf("expected a primed variable in %v", vars)
	}
}

func TestParseExprAndOrPrecedence(t *testing.T) {
	f, err := ParseExpr("x = 0 && y = 1 || z = 2")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if f.Kind() != formula.KindOr {
		t.Fatalf("expected top-level Or (&& binds tighter than ||), got %v", f.Kind())
	}
	if len(f.Children()) != 2 {
		t.Fatalf("expected 2 disjuncts, got %d", len(f.Children()))
	}
	if f.Children()[0].Kind() != formula.KindAnd {
		t.Fatalf("expected the first disjunct to be the && group, got %v", f.Children()[0].Kind())
	}
}

func TestParseExprNegationAndParens(t *testing.T) {
	f, err := ParseExpr("!(x = 0 && y = 0)")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	if f.Kind() != formula.KindNot {
		t.Fatalf("expected top-level Not, got %v", f.Kind())
	}
}

func TestParseExprLinearCoefficient(t *testing.T) {
	f, err := ParseExpr("k = 3 * i")
	if err != nil {
		t.Fatalf("ParseExpr: %v", err)
	}
	k, i := lia.NewVar("k"), lia.NewVar("i")
	if f.Literal().LHS.Coeff(k) != 1 {
		t.Fatalf("expected coefficient 1 for k, got %d", f.Literal().LHS.Coeff(k))
	}
	if f.Literal().LHS.Coeff(i) != -3 {
		t.Fatalf("expected coefficient -3 for i (k - 3i = 0), got %d", f.Literal().LHS.Coeff(i))
	}
}

func TestParseExprRejectsNonlinearProduct(t *testing.T) {
	if _, err := ParseExpr("x * y = 0"); err == nil {
		t.Fatal("expected an error for a variable*variable product")
	}
}

func TestParseFullBenchmarkDoc(t *testing.T) {
	doc := []byte(`
vars: [x, y]
init: "x = 0 && y = 8"
trans: "(x < 8 && y <= 8 && x' = x + 2 && y' = y - 2) || (x = 8 && x' = 0 && y = 0 && y' = 8)"
prop: "!(x = 0 && y = 0)"
`)
	spec, err := Parse(doc)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(spec.Vars) != 2 {
		t.Fatalf("expected 2 vars, got %d", len(spec.Vars))
	}
	if spec.Prop.Kind() != formula.KindNot {
		t.Fatalf("expected Not at the top of prop, got %v", spec.Prop.Kind())
	}
}

func TestParseRejectsMissingVars(t *testing.T) {
	doc := []byte(`
init: "x = 0"
trans: "x' = x"
prop: "x >= 0"
`)
	if _, err := Parse(doc); err == nil {
		t.Fatal("expected an error for a spec with no vars")
	}
}

func TestParseRejectsReservedVarName(t *testing.T) {
	doc := []byte(`
vars: [_p_x]
init: "_p_x = 0"
trans: "_p_x' = _p_x"
prop: "_p_x >= 0"
`)
	if _, err := Parse(doc); !errors.Is(err, ErrReservedIdent) {
		t.Fatalf("expected ErrReservedIdent for a declared var named _p_x, got %v", err)
	}
}

func TestParseExprRejectsReservedIdentInExpression(t *testing.T) {
	if _, err := ParseExpr("_p_y = 0"); !errors.Is(err, ErrReservedIdent) {
		t.Fatalf("expected ErrReservedIdent for an expression referencing _p_y, got %v", err)
	}
}
