// Package conjfml implements ConjFml, the conjunctive-formula container
// from spec.md §4.3: an ordered, duplicate-free list of clauses interpreted as their
// conjunction, with derived unprimed/primed variable lists, set-based
// equality, priming, and difference.
//
// Per spec.md §9's design note, this is a pure value type - not, as in the
// original Python source, a subclass of an SMT solver's assertion-set
// object. Solver handles are a separate resource (pkg/solver), created on
// demand; ConjFml owns only its clauses.
package conjfml

import (
	"sort"
	"strings"

	"github.com/gitrdm/gopdr/internal/lia"

	hset "github.com/hashicorp/go-set/v3"
)

// Clause is a disjunction of literals. A Clause of length 1 is a literal in
// conjunction position; used that way, a ConjFml whose every clause has
// length 1 is exactly a "cube" (spec.md §3).
type Clause []lia.Literal

// key returns a canonical string for set-membership/equality purposes: the
// clause's literals, sorted, joined. Clauses are unordered disjunctions, so
// two clauses with the same literals in different orders must collide.
func (c Clause) key() string {
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.String()
	}
	sort.Strings(parts)
	return strings.Join(parts, " | ")
}

// Equal reports whether two clauses contain the same literals, order
// notwithstanding.
func (c Clause) Equal(other Clause) bool {
	return c.key() == other.key()
}

// Negate returns the cube (conjunction, represented as one clause per
// literal by the caller) that is the logical negation of clause c: by De
// Morgan, ¬(l1 ∨ l2 ∨ ... ) = ¬l1 ∧ ¬l2 ∧ .... Each returned literal
// becomes its own unit clause in the caller's ConjFml.
func (c Clause) Negate() []lia.Literal {
	out := make([]lia.Literal, len(c))
	for i, l := range c {
		out[i] = l.Negate()
	}
	return out
}

// Primed returns c with every literal primed (see lia.Literal.Primed).
func (c Clause) Primed() Clause {
	out := make(Clause, len(c))
	for i, l := range c {
		out[i] = l.Primed()
	}
	return out
}

// vars returns the variables mentioned in c, in first-seen order.
func (c Clause) vars() []lia.Var {
	var out []lia.Var
	seen := map[lia.Var]bool{}
	for _, l := range c {
		for _, v := range l.Vars() {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// unitLiteral returns the clause's single literal and true, if c has
// exactly one literal (the shape a cube's clauses must have).
func (c Clause) unitLiteral() (lia.Literal, bool) {
	if len(c) == 1 {
		return c[0], true
	}
	return lia.Literal{}, false
}

// clauseSet is a small wrapper around hashicorp/go-set for clause
// de-duplication and order-insensitive membership, keyed by Clause.key().
type clauseSet struct {
	keys *hset.Set[string]
}

func newClauseSet() *clauseSet {
	return &clauseSet{keys: hset.New[string](0)}
}

func (s *clauseSet) Add(c Clause)         { s.keys.Insert(c.key()) }
func (s *clauseSet) Contains(c Clause) bool { return s.keys.Contains(c.key()) }
func (s *clauseSet) Equal(other *clauseSet) bool { return s.keys.Equal(other.keys) }
