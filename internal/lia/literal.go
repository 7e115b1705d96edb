package lia

import "fmt"

// Kind is one of the four canonical literal shapes spec.md §3 allows:
// equality, non-strict less-or-equal, and their single negations. Strict
// "<", ">" and non-strict ">=" are never represented directly - they are
// rewritten into one of these four at construction time (EqE/LeE/LtE/GeE/GtE
// below all funnel through this canonicalization).
type Kind int

const (
	Eq Kind = iota
	Le
	NotEq
	NotLe
)

func (k Kind) String() string {
	switch k {
	case Eq:
		return "="
	case Le:
		return "<="
	case NotEq:
		return "!="
	case NotLe:
		return ">"
	default:
		return "?"
	}
}

// Literal is a canonical atomic formula "LHS <kind> 0", e.g. Kind=Le means
// LHS <= 0. Every literal is built relative to zero so that two literals
// over the same underlying inequality compare equal regardless of how the
// caller originally phrased "a <= b" vs "a - b <= 0".
type Literal struct {
	Kind Kind
	LHS  Expr
}

// EqE returns the canonical literal for a == b.
func EqE(a, b Expr) Literal { return Literal{Kind: Eq, LHS: a.Sub(b)} }

// LeE returns the canonical literal for a <= b.
func LeE(a, b Expr) Literal { return Literal{Kind: Le, LHS: a.Sub(b)} }

// LtE returns the canonical literal for a < b, i.e. ¬(b <= a).
func LtE(a, b Expr) Literal { return Literal{Kind: NotLe, LHS: b.Sub(a)} }

// GeE returns the canonical literal for a >= b, i.e. b <= a.
func GeE(a, b Expr) Literal { return Literal{Kind: Le, LHS: b.Sub(a)} }

// GtE returns the canonical literal for a > b, i.e. ¬(a <= b).
func GtE(a, b Expr) Literal { return Literal{Kind: NotLe, LHS: a.Sub(b)} }

// NeqE returns the canonical literal for a != b, i.e. ¬(a == b).
func NeqE(a, b Expr) Literal { return Literal{Kind: NotEq, LHS: a.Sub(b)} }

// Negate returns the canonical negation of l. Negation is always
// expressible as one of the four Kinds without introducing nesting,
// which is what keeps every literal "atomic" for the canonicalizer.
func (l Literal) Negate() Literal {
	switch l.Kind {
	case Eq:
		return Literal{Kind: NotEq, LHS: l.LHS}
	case NotEq:
		return Literal{Kind: Eq, LHS: l.LHS}
	case Le:
		return Literal{Kind: NotLe, LHS: l.LHS}
	case NotLe:
		return Literal{Kind: Le, LHS: l.LHS}
	default:
		panic(fmt.Sprintf("lia: unknown literal kind %d", l.Kind))
	}
}

// Vars returns the variables occurring in the literal, in stable order.
func (l Literal) Vars() []Var { return l.LHS.Vars() }

// Primed returns l with every unprimed variable replaced by its primed
// counterpart. Panics if l already mentions a primed variable, matching
// ConjFml.AsPrimed's caller contract (spec.md §4.3).
func (l Literal) Primed() Literal {
	r := Expr{Terms: make(map[Var]int64, len(l.LHS.Terms)), Const: l.LHS.Const}
	for v, c := range l.LHS.Terms {
		r.Terms[v.Prime()] = c
	}
	return Literal{Kind: l.Kind, LHS: r}
}

// String renders l canonically, e.g. "x + y <= 0" or "x - 1 != 0".
func (l Literal) String() string {
	return fmt.Sprintf("%s %s 0", l.LHS, l.Kind)
}

// Equal reports structural (not just logical) equality: same kind and the
// same normalized coefficients/constant. This is the notion of equality
// ConjFml's clause-set semantics and syntactic "already present" checks in
// the PDR engine rely on.
func (l Literal) Equal(other Literal) bool {
	if l.Kind != other.Kind {
		return false
	}
	if l.LHS.Const != other.LHS.Const {
		return false
	}
	lv, ov := l.LHS.Vars(), other.LHS.Vars()
	if len(lv) != len(ov) {
		return false
	}
	for i, v := range lv {
		if ov[i] != v || l.LHS.Coeff(v) != other.LHS.Coeff(v) {
			return false
		}
	}
	return true
}
