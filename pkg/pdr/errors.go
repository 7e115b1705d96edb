package pdr

import "errors"

// Sentinel errors returned (via fmt.Errorf("...: %w", ...) wrapping) by
// Engine.Run and its helpers. Callers should use errors.Is against these,
// never string-match an error's text.
var (
	// ErrInputShape marks malformed input: an empty state alphabet, or a
	// declared variable using the reserved "_p_" prefix. Fatal, surfaced
	// immediately.
	ErrInputShape = errors.New("pdr: input shape error")

	// ErrPropertyRefuted marks that a proof obligation reached level 0, or
	// that the initial states already violate the property. Fatal; in the
	// first case the returned Result carries the bad cube whose blocking
	// failed as Witness, in the second Witness is nil.
	ErrPropertyRefuted = errors.New("pdr: property refuted")

	// ErrUnexpectedFormulaShape marks an internal invariant violation: the
	// negation of a generalized cube could not be built as a single
	// blocking clause, or a DNF decomposition that should have been
	// provably non-empty came back empty.
	ErrUnexpectedFormulaShape = errors.New("pdr: unexpected formula shape")

	// ErrSolverUnknown marks a solver.Unknown verdict. Non-fatal: the
	// engine absorbs it locally (treating it the same as Sat, per the
	// conservative policy never to treat Unknown as Unsat) and only logs
	// it at debug level; Run/block/propagate never return this error.
	// It is exported so a caller inspecting debug logs can match on it.
	ErrSolverUnknown = errors.New("pdr: solver returned unknown")

	// ErrMaxFramesExceeded is not one of spec.md's named error kinds; it is
	// a practical safety bound layered on top, since termination over
	// unbounded LIA is not guaranteed (spec.md §4.6's own "Termination"
	// note). Engine.Run returns Inconclusive rather than looping forever.
	ErrMaxFramesExceeded = errors.New("pdr: exceeded maximum frame count without reaching a fixpoint or refutation")
)
