// Package lia implements a small decision procedure for conjunctions of
// linear integer arithmetic literals: satisfiability and quantifier
// elimination by Fourier-Motzkin projection.
//
// This package stands in for the "underlying SMT decision procedures"
// that the PDR engine treats as an opaque collaborator. It is
// deliberately narrow: no bit-vectors, no uninterpreted functions, no
// real nonlinear reasoning. Soundness is with respect to the rationals;
// integrality is not re-checked after projection, matching the scope a
// quantifier-elimination tactic like z3's `qe` provides (equivalence
// over the theory, not integer tightening - that is `PropagateBounds`'s
// job one layer up).
package lia

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// World distinguishes a variable's current-state and next-state ("primed")
// incarnation. This replaces the reserved "_p_" name-prefix convention
// from the original design with a tagged pair, per the design note that a
// table lookup should stand in for string surgery: priming is
// Var.Prime(), not string concatenation.
type World int

const (
	Current World = iota
	Next
)

// Var is an interned, world-tagged state variable. Two Vars are equal
// (and collide as map keys) iff they share both name and world, so Var
// is safe to use directly as a map key without a pointer.
type Var struct {
	Name  string
	World World
}

// NewVar returns the current-state incarnation of the named variable.
func NewVar(name string) Var { return Var{Name: name, World: Current} }

// Prime returns the next-state counterpart of v. Priming an already-primed
// variable is a caller error (mirrors ConjFml.AsPrimed's documented
// no-double-priming contract) and panics rather than silently producing
// a variable with no current-state counterpart.
func (v Var) Prime() Var {
	if v.World == Next {
		panic(fmt.Sprintf("lia: variable %s is already primed", v))
	}
	return Var{Name: v.Name, World: Next}
}

// Unprime returns the current-state counterpart of a primed variable.
func (v Var) Unprime() Var {
	if v.World == Current {
		return v
	}
	return Var{Name: v.Name, World: Current}
}

// String renders v using the "_p_" convention only for display/debugging
// (log lines, error messages); it is never parsed back.
func (v Var) String() string {
	if v.World == Next {
		return "_p_" + v.Name
	}
	return v.Name
}

// Expr is a sparse linear combination over integer-sorted variables:
// sum(Terms[v] * v) + Const.
type Expr struct {
	Terms map[Var]int64
	Const int64
}

// Zero returns the constant-zero expression.
func Zero() Expr { return Expr{Terms: map[Var]int64{}} }

// ExprOf returns the expression denoting a single variable with coefficient 1.
func ExprOf(v Var) Expr { return Expr{Terms: map[Var]int64{v: 1}} }

// ConstExpr returns the constant expression c.
func ConstExpr(c int64) Expr { return Expr{Terms: map[Var]int64{}, Const: c} }

// clone returns a deep copy; Expr values are treated as immutable once
// built, but arithmetic combinators need a private mutable scratch copy.
func (e Expr) clone() Expr {
	t := make(map[Var]int64, len(e.Terms))
	for v, c := range e.Terms {
		if c != 0 {
			t[v] = c
		}
	}
	return Expr{Terms: t, Const: e.Const}
}

// Add returns e + other.
func (e Expr) Add(other Expr) Expr {
	r := e.clone()
	for v, c := range other.Terms {
		r.Terms[v] += c
		if r.Terms[v] == 0 {
			delete(r.Terms, v)
		}
	}
	r.Const += other.Const
	return r
}

// Sub returns e - other.
func (e Expr) Sub(other Expr) Expr {
	return e.Add(other.Scale(-1))
}

// Scale returns e scaled by an integer factor.
func (e Expr) Scale(factor int64) Expr {
	if factor == 0 {
		return Zero()
	}
	r := e.clone()
	for v, c := range r.Terms {
		r.Terms[v] = c * factor
	}
	r.Const *= factor
	return r
}

// Vars returns the variables occurring in e with nonzero coefficient, in a
// stable (sorted) order, so callers get deterministic iteration without
// needing to know about map ordering.
func (e Expr) Vars() []Var {
	vs := make([]Var, 0, len(e.Terms))
	for v, c := range e.Terms {
		if c != 0 {
			vs = append(vs, v)
		}
	}
	sortVars(vs)
	return vs
}

func sortVars(vs []Var) {
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].World != vs[j].World {
			return vs[i].World < vs[j].World
		}
		return vs[i].Name < vs[j].Name
	})
}

// Coeff returns the coefficient of v in e (zero if absent).
func (e Expr) Coeff(v Var) int64 { return e.Terms[v] }

// IsConst reports whether e has no variable terms.
func (e Expr) IsConst() bool { return len(e.Vars()) == 0 }

// String renders e as "2x + 3y - 1" style text for debug logs and
// canonical clause keys.
func (e Expr) String() string {
	vars := e.Vars()
	if len(vars) == 0 {
		return fmt.Sprintf("%d", e.Const)
	}
	var b strings.Builder
	for i, v := range vars {
		c := e.Terms[v]
		switch {
		case i == 0 && c == 1:
			b.WriteString(v.String())
		case i == 0 && c == -1:
			fmt.Fprintf(&b, "-%s", v)
		case i == 0:
			fmt.Fprintf(&b, "%d*%s", c, v)
		case c == 1:
			fmt.Fprintf(&b, " + %s", v)
		case c == -1:
			fmt.Fprintf(&b, " - %s", v)
		case c > 0:
			fmt.Fprintf(&b, " + %d*%s", c, v)
		default:
			fmt.Fprintf(&b, " - %d*%s", -c, v)
		}
	}
	if e.Const > 0 {
		fmt.Fprintf(&b, " + %d", e.Const)
	} else if e.Const < 0 {
		fmt.Fprintf(&b, " - %d", -e.Const)
	}
	return b.String()
}

// toRat converts e to an exact rational-coefficient expression for use by
// the Fourier-Motzkin eliminator, which must pivot with exact arithmetic
// to stay sound.
func (e Expr) toRat() ratExpr {
	r := ratExpr{terms: make(map[Var]*big.Rat, len(e.Terms)), constant: new(big.Rat).SetInt64(e.Const)}
	for v, c := range e.Terms {
		if c != 0 {
			r.terms[v] = new(big.Rat).SetInt64(c)
		}
	}
	return r
}
