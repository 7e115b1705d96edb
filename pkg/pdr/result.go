package pdr

import "github.com/gitrdm/gopdr/pkg/conjfml"

// Status is the engine's final verdict, exactly spec.md §6's
// {Proved, Refuted, Inconclusive} (Inconclusive covers both
// ErrMaxFramesExceeded and a cancelled context - cases spec.md's own PDR
// description acknowledges termination is not guaranteed for).
type Status int

const (
	Inconclusive Status = iota
	Proved
	Refuted
)

func (s Status) String() string {
	switch s {
	case Proved:
		return "Proved"
	case Refuted:
		return "Refuted"
	default:
		return "Inconclusive"
	}
}

// Result is Engine.Run's return value. Invariant is populated on Proved
// (the fixpoint frame, an inductive invariant implying P); Witness is
// populated on Refuted (the bad cube of F_n ∧ ¬P whose blocking reached
// level 0); it is nil when I itself already intersects ¬P.
type Result struct {
	Status    Status
	Invariant *conjfml.ConjFml
	Witness   *conjfml.ConjFml
	Stats     Stats
}

// Stats are best-effort run counters, surfaced so cmd/gopdr's serve
// subcommand can republish them as Prometheus gauges without pkg/pdr
// itself depending on a metrics library.
type Stats struct {
	ObligationsProcessed int
	FramesGrown          int
	PreimagesComputed    int
	Generalizations      int
}
