package formula

import (
	"errors"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/conjfml"
)

// ErrNotSingleClause is returned by ToConjFml when the formula's negation
// normal form contains a disjunction with a non-leaf child - i.e. when
// building it into CNF clauses would require introducing Tseitin auxiliary
// variables. Literals, flat clauses, and conjunctions of them (cubes and
// clause sets) never produce it.
var ErrNotSingleClause = errors.New("formula: not expressible as a single CNF clause")

// ToNNF pushes every Not inward until it applies only to atoms, using De
// Morgan's laws and double-negation elimination. Literal negation is
// closed (lia.Literal.Negate), so a negated atom collapses straight into
// the negated literal rather than staying wrapped in a Not node.
func ToNNF(f Formula) Formula {
	switch f.kind {
	case KindTrue, KindFalse, KindAtom:
		return f
	case KindAnd:
		return And(nnfChildren(f.children)...)
	case KindOr:
		return Or(nnfChildren(f.children)...)
	case KindNot:
		return nnfNot(f.children[0])
	default:
		return f
	}
}

func nnfChildren(fs []Formula) []Formula {
	out := make([]Formula, len(fs))
	for i, c := range fs {
		out[i] = ToNNF(c)
	}
	return out
}

// nnfNot computes NNF(Not(f)).
func nnfNot(f Formula) Formula {
	switch f.kind {
	case KindTrue:
		return False()
	case KindFalse:
		return True()
	case KindAtom:
		return Atom(f.atom.Negate())
	case KindNot:
		// double negation: NNF(¬¬g) = NNF(g)
		return ToNNF(f.children[0])
	case KindAnd:
		// ¬(a ∧ b ∧ ...) = ¬a ∨ ¬b ∨ ...
		negated := make([]Formula, len(f.children))
		for i, c := range f.children {
			negated[i] = nnfNot(c)
		}
		return Or(negated...)
	case KindOr:
		// ¬(a ∨ b ∨ ...) = ¬a ∧ ¬b ∧ ...
		negated := make([]Formula, len(f.children))
		for i, c := range f.children {
			negated[i] = nnfNot(c)
		}
		return And(negated...)
	default:
		return Not(f)
	}
}

// ToBinary rewrites every n-ary And/Or node into a right-associated chain
// of binary nodes (And(a,b,c) becomes And(a, And(b, c))). It is idempotent
// on formulas already in binary form, including leaves.
func ToBinary(f Formula) Formula {
	switch f.kind {
	case KindTrue, KindFalse, KindAtom:
		return f
	case KindNot:
		return Not(ToBinary(f.children[0]))
	case KindAnd:
		return binarize(f.children, And)
	case KindOr:
		return binarize(f.children, Or)
	default:
		return f
	}
}

func binarize(children []Formula, combine func(...Formula) Formula) Formula {
	bs := make([]Formula, len(children))
	for i, c := range children {
		bs[i] = ToBinary(c)
	}
	if len(bs) <= 2 {
		return combine(bs...)
	}
	return combine(bs[0], binarize(bs[1:], combine))
}

// ToDNF converts f (any formula: ToDNF applies ToNNF to it first) into a list of cubes
// whose disjunction is logically equivalent to f, by recursively
// distributing And over Or (spec.md §4.2's `distr`).
//
// True contributes the empty cube (satisfied by every state); False
// contributes no cubes at all.
func ToDNF(f Formula) []*conjfml.ConjFml {
	cubes := dnfCubes(ToNNF(f))
	out := make([]*conjfml.ConjFml, len(cubes))
	for i, cube := range cubes {
		out[i] = conjfml.FromLiterals(cube...)
	}
	return out
}

// dnfCubes returns f's disjuncts as raw literal lists (cubes), f assumed
// already in NNF.
func dnfCubes(f Formula) [][]lia.Literal {
	switch {
	case f.kind == KindTrue:
		return [][]lia.Literal{{}}
	case f.kind == KindFalse:
		return nil
	case f.IsLeaf():
		return [][]lia.Literal{{leafLiteral(f)}}
	case f.kind == KindOr:
		var out [][]lia.Literal
		for _, c := range f.children {
			out = append(out, dnfCubes(c)...)
		}
		return out
	case f.kind == KindAnd:
		// Cartesian product: cross every cube-so-far against the next
		// child's cubes, concatenating literals.
		acc := [][]lia.Literal{{}}
		for _, c := range f.children {
			childCubes := dnfCubes(c)
			var next [][]lia.Literal
			for _, a := range acc {
				for _, b := range childCubes {
					merged := make([]lia.Literal, 0, len(a)+len(b))
					merged = append(merged, a...)
					merged = append(merged, b...)
					next = append(next, merged)
				}
			}
			acc = next
		}
		return acc
	default:
		// f.kind == KindNot with a non-atom child: ToNNF should have
		// eliminated this shape already.
		panic("formula: ToDNF given a formula not in negation normal form")
	}
}

func leafLiteral(f Formula) lia.Literal {
	if f.kind == KindAtom {
		return f.atom
	}
	// f.kind == KindNot, f.children[0].kind == KindAtom (IsLeaf guarantees this)
	return f.children[0].atom.Negate()
}

// ToConjFml wraps a literal, a cube (a conjunction of literals), a single
// clause (a flat disjunction of literals), or a conjunction of such clauses
// into a ConjFml: the restricted CNF step spec.md §4.2's `to_ConjFml`
// describes, valid exactly in the contexts it is restricted to - where no
// auxiliary variables are ever needed because the input is already a cube
// or clause set, not an arbitrary formula. A KindAnd node contributes one
// clause per conjunct (recursively, so a cube of N literals yields N unit
// clauses); only a KindOr node whose children are not all leaves - i.e.
// something that would need a fresh Tseitin gate to flatten - is rejected
// with ErrNotSingleClause.
func ToConjFml(f Formula) (*conjfml.ConjFml, error) {
	clauses, err := conjClauses(ToNNF(f))
	if err != nil {
		return nil, err
	}
	return conjfml.New(clauses...), nil
}

// conjClauses collects nnf (already in negation normal form) into its CNF
// clause list, recursing through KindAnd without ever introducing a gate
// variable. It fails only when a KindOr child is itself non-leaf, the one
// shape that cannot be flattened into a clause without Tseitin.
func conjClauses(nnf Formula) ([]conjfml.Clause, error) {
	switch {
	case nnf.kind == KindTrue:
		return nil, nil
	case nnf.kind == KindFalse:
		return []conjfml.Clause{{}}, nil
	case nnf.IsLeaf():
		return []conjfml.Clause{{leafLiteral(nnf)}}, nil
	case nnf.kind == KindOr:
		lits := make([]lia.Literal, len(nnf.children))
		for i, c := range nnf.children {
			if !c.IsLeaf() {
				return nil, ErrNotSingleClause
			}
			lits[i] = leafLiteral(c)
		}
		return []conjfml.Clause{conjfml.Clause(lits)}, nil
	case nnf.kind == KindAnd:
		var out []conjfml.Clause
		for _, c := range nnf.children {
			sub, err := conjClauses(c)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		return nil, ErrNotSingleClause
	}
}
