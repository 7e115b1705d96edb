package conjfml

import (
	"sort"

	"github.com/gitrdm/gopdr/internal/lia"
)

// ConjFml is an ordered, duplicate-free list of clauses, interpreted as their
// conjunction. A ConjFml whose clauses are all unit (length 1) is a cube;
// general ConjFmls (with multi-literal clauses) are full CNF formulas, the
// shape a frame F_k or a transition relation T is stored in.
//
// The zero value is the empty conjunction, i.e. true.
type ConjFml struct {
	clauses []Clause
	seen    *clauseSet
}

// New builds a ConjFml from clauses, each given as a slice of literals.
// Duplicate clauses (as sets, order-insensitive) are added once.
func New(clauses ...Clause) *ConjFml {
	c := &ConjFml{seen: newClauseSet()}
	for _, cl := range clauses {
		c.Add(cl)
	}
	return c
}

// FromLiterals builds a cube: a ConjFml whose clauses are each a single
// literal from lits.
func FromLiterals(lits ...lia.Literal) *ConjFml {
	c := &ConjFml{seen: newClauseSet()}
	for _, l := range lits {
		c.Add(Clause{l})
	}
	return c
}

// Add appends clause to c unless an equal clause (as an unordered literal
// set) is already present.
func (c *ConjFml) Add(clause Clause) {
	if c.seen == nil {
		c.seen = newClauseSet()
	}
	if c.seen.Contains(clause) {
		return
	}
	c.seen.Add(clause)
	c.clauses = append(c.clauses, clause)
}

// Clauses returns c's clauses in insertion order. The caller must not
// mutate the returned slice or its elements.
func (c *ConjFml) Clauses() []Clause { return c.clauses }

// Len returns the number of clauses.
func (c *ConjFml) Len() int { return len(c.clauses) }

// IsEmpty reports whether c has no clauses, i.e. is the formula true - the
// boundary case spec.md §8 calls out explicitly (an empty frame is
// vacuously satisfied by every state).
func (c *ConjFml) IsEmpty() bool { return len(c.clauses) == 0 }

// Literals returns, for a cube (every clause must be a unit clause), the
// flat list of literals. It panics if any clause has more than one literal,
// since calling it on a non-cube ConjFml is a programming error.
func (c *ConjFml) Literals() []lia.Literal {
	out := make([]lia.Literal, 0, len(c.clauses))
	for _, cl := range c.clauses {
		l, ok := cl.unitLiteral()
		if !ok {
			panic("conjfml: Literals called on a non-cube ConjFml (clause with != 1 literal)")
		}
		out = append(out, l)
	}
	return out
}

// Vars returns the distinct variables mentioned across every clause, in
// sorted order.
func (c *ConjFml) Vars() []lia.Var {
	seen := map[lia.Var]bool{}
	var out []lia.Var
	for _, cl := range c.clauses {
		for _, v := range cl.vars() {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].World != out[j].World {
			return out[i].World < out[j].World
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// UpdateVars is a no-op retained for interface parity with the
// variable-cache refresh the original design performed by hand after every
// mutation; here Vars() is always computed fresh from the clause list, so
// there is no cache to go stale. Kept as an explicit call site so engine
// code reads the same as the design's step-by-step description.
func (c *ConjFml) UpdateVars() {}

// AsPrimed returns a new ConjFml with every literal's variables primed.
// Panics if c already mentions a primed variable (double-priming is always
// a caller bug: the PDR engine primes unprimed frames exactly once per
// preimage step).
func (c *ConjFml) AsPrimed() *ConjFml {
	out := New()
	for _, cl := range c.clauses {
		for _, v := range cl.vars() {
			if v.World == lia.Next {
				panic("conjfml: AsPrimed called on an already-primed ConjFml")
			}
		}
		out.Add(cl.Primed())
	}
	return out
}

// GetPrimed returns the sub-multiset of clauses that mention at least one
// primed variable.
func (c *ConjFml) GetPrimed() *ConjFml {
	out := New()
	for _, cl := range c.clauses {
		for _, v := range cl.vars() {
			if v.World == lia.Next {
				out.Add(cl)
				break
			}
		}
	}
	return out
}

// ContainsClause reports whether clause (as an unordered literal set) is
// already present in c.
func (c *ConjFml) ContainsClause(clause Clause) bool {
	if c.seen == nil {
		return false
	}
	return c.seen.Contains(clause)
}

// Difference returns the clauses of c that are not present (as unordered
// literal sets) in other - set difference over the clause multiset.
func (c *ConjFml) Difference(other *ConjFml) *ConjFml {
	out := New()
	for _, cl := range c.clauses {
		if other.seen != nil && other.seen.Contains(cl) {
			continue
		}
		out.Add(cl)
	}
	return out
}

// Equal reports set equality: same clauses, order and duplication
// notwithstanding. Two ConjFmls built from the same clauses in different
// orders, or with one clause repeated, compare equal.
func (c *ConjFml) Equal(other *ConjFml) bool {
	if c.seen == nil {
		c.seen = newClauseSet()
	}
	if other.seen == nil {
		other.seen = newClauseSet()
	}
	return c.seen.Equal(other.seen)
}

// Less provides a deterministic tie-breaker ordering (by clause count, then
// lexicographically by rendered clause keys) used by the PDR engine's
// obligation queue when two cubes are otherwise equal priority.
func (c *ConjFml) Less(other *ConjFml) bool {
	if len(c.clauses) != len(other.clauses) {
		return len(c.clauses) < len(other.clauses)
	}
	a, b := c.sortedKeys(), other.sortedKeys()
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (c *ConjFml) sortedKeys() []string {
	keys := make([]string, len(c.clauses))
	for i, cl := range c.clauses {
		keys[i] = cl.key()
	}
	sort.Strings(keys)
	return keys
}

// Negate returns the ConjFml that is the logical negation of c, expressed
// as a disjunction of cubes (one cube per clause, by De Morgan): each
// returned element is itself a ConjFml (a cube). Negating a multi-clause
// CNF formula is therefore not itself a single ConjFml in general. Negating
// a cube of k literals returns k single-literal cubes, whose disjunction is
// the blocking clause.
func (c *ConjFml) Negate() []*ConjFml {
	// ¬(clause_1 ∧ clause_2 ∧ ...) = ¬clause_1 ∨ ¬clause_2 ∨ ...
	// Each ¬clause_i is itself a conjunction of negated literals (De Morgan
	// applied a second time), i.e. one cube per original clause.
	out := make([]*ConjFml, len(c.clauses))
	for i, cl := range c.clauses {
		out[i] = FromLiterals(cl.Negate()...)
	}
	return out
}

// String renders c for debug logs as "(clause) && (clause) && ...".
func (c *ConjFml) String() string {
	if c.IsEmpty() {
		return "true"
	}
	s := ""
	for i, cl := range c.clauses {
		if i > 0 {
			s += " && "
		}
		s += "(" + clauseString(cl) + ")"
	}
	return s
}

func clauseString(cl Clause) string {
	s := ""
	for i, l := range cl {
		if i > 0 {
			s += " || "
		}
		s += l.String()
	}
	return s
}

// Clone returns a deep-enough copy of c safe to mutate independently (the
// clause slice and seen-set are copied; literals themselves are immutable
// value types and shared).
func (c *ConjFml) Clone() *ConjFml {
	out := New()
	for _, cl := range c.clauses {
		out.Add(cl)
	}
	return out
}
