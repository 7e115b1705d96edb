// Package formula implements the Formula Canonicalizer from spec.md §4.2:
// a small closed boolean AST over linear-arithmetic literals, NNF/binary/DNF
// conversion, and the restricted Tseitin-CNF wrapping used to build a
// ConjFml from a single clause or cube.
//
// The AST shape mirrors the teacher's closed Term representation
// (*Var/*Atom/*Pair in gokando's pkg/minikanren) generalized from
// relational terms to boolean structure: a handful of node kinds, no
// open-ended interface hierarchy to extend.
package formula

import (
	"fmt"
	"strings"

	"github.com/gitrdm/gopdr/internal/lia"
)

// Kind identifies a Formula node's shape.
type Kind int

const (
	KindTrue Kind = iota
	KindFalse
	KindAtom
	KindNot
	KindAnd
	KindOr
)

// Formula is a boolean formula over lia.Literal atoms. It is an immutable
// value type: every combinator below returns a new Formula rather than
// mutating its receiver or arguments.
type Formula struct {
	kind     Kind
	atom     lia.Literal
	children []Formula // And/Or: 0..n children; Not: exactly 1
}

// True is the formula constant true (the empty conjunction).
func True() Formula { return Formula{kind: KindTrue} }

// False is the formula constant false.
func False() Formula { return Formula{kind: KindFalse} }

// Atom wraps a single literal as a formula.
func Atom(l lia.Literal) Formula { return Formula{kind: KindAtom, atom: l} }

// Not negates a formula.
func Not(f Formula) Formula { return Formula{kind: KindNot, children: []Formula{f}} }

// And conjoins zero or more formulas (zero conjuncts is True).
func And(fs ...Formula) Formula {
	if len(fs) == 0 {
		return True()
	}
	if len(fs) == 1 {
		return fs[0]
	}
	return Formula{kind: KindAnd, children: fs}
}

// Or disjoins zero or more formulas (zero disjuncts is False).
func Or(fs ...Formula) Formula {
	if len(fs) == 0 {
		return False()
	}
	if len(fs) == 1 {
		return fs[0]
	}
	return Formula{kind: KindOr, children: fs}
}

// Kind exposes the node's shape to callers that need to branch on it (the
// DNF distributor and the Tseitin wrapper both do).
func (f Formula) Kind() Kind { return f.kind }

// Literal returns the wrapped literal; only meaningful when Kind() == KindAtom.
func (f Formula) Literal() lia.Literal { return f.atom }

// Children returns the node's subformulas; only meaningful for
// KindNot (length 1), KindAnd, and KindOr.
func (f Formula) Children() []Formula { return f.children }

// IsAtomic reports whether f is a bare literal (spec.md §4.2's is_atomic).
func (f Formula) IsAtomic() bool { return f.kind == KindAtom }

// IsLeaf reports whether f is an atom or the negation of an atom - a "leaf"
// for the purposes of DNF distribution (spec.md §4.2's is_leaf).
func (f Formula) IsLeaf() bool {
	if f.kind == KindAtom {
		return true
	}
	if f.kind == KindNot && len(f.children) == 1 {
		return f.children[0].kind == KindAtom
	}
	return false
}

// String renders f for debug logs.
func (f Formula) String() string {
	switch f.kind {
	case KindTrue:
		return "true"
	case KindFalse:
		return "false"
	case KindAtom:
		return f.atom.String()
	case KindNot:
		return "!(" + f.children[0].String() + ")"
	case KindAnd:
		return join(f.children, " && ")
	case KindOr:
		return join(f.children, " || ")
	default:
		return fmt.Sprintf("<invalid formula kind %d>", f.kind)
	}
}

func join(fs []Formula, sep string) string {
	parts := make([]string, len(fs))
	for i, c := range fs {
		parts[i] = "(" + c.String() + ")"
	}
	return strings.Join(parts, sep)
}
