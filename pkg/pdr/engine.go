// Package pdr implements the IC3/Property-Directed Reachability engine:
// the frame list, the proof-obligation queue, block and propagate, and the
// top-level driver tying the Preimage and Generalizer collaborators
// together over a solver.Facade.
//
// The engine is single-threaded and synchronous - no goroutines inside
// Run/block/propagate. context.Context is threaded through every solver
// call purely for cancellation, not concurrency, the same idiom gokando
// uses for every blocking call into its constraint solvers.
package pdr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/gitrdm/gopdr/internal/lia"
	"github.com/gitrdm/gopdr/pkg/conjfml"
	"github.com/gitrdm/gopdr/pkg/formula"
	"github.com/gitrdm/gopdr/pkg/solver"
)

const defaultMaxFrames = 1000

// reservedVarPrefix is lia.Var's "_p_" primed-variable display
// convention (lia.Var.String). A caller-declared variable using it would
// render identically to some other variable's primed incarnation in
// every log line and error message.
const reservedVarPrefix = "_p_"

// Engine holds one model-checking run's state: the immutable (I, T, P)
// triple, the growing frame trace, and the collaborators it drives. Frames
// and the obligation queue are exclusively owned by the engine instance
// (spec.md §3's Ownership note); nothing here is safe to share across
// goroutines, which is why internal/batch runs one Engine per goroutine
// rather than sharing one.
type Engine struct {
	i, t, p formula.Formula
	vars    []lia.Var

	facade    solver.Facade
	logger    hclog.Logger
	maxFrames int

	frames Trace
	stats  Stats
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithFacade overrides the default solver.LIAFacade - mainly for tests
// that want a stub Facade.
func WithFacade(f solver.Facade) Option { return func(e *Engine) { e.facade = f } }

// WithLogger attaches a structured debug/trace logger (spec.md §6's
// boolean debug surface, implemented as an hclog.Logger instead of a raw
// stderr toggle - grounded on hashicorp-nomad's use of go-hclog
// throughout its server/worker logging).
func WithLogger(l hclog.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithMaxFrames bounds how many frontiers Run will grow before giving up
// with Inconclusive. Not one of spec.md's named knobs - see
// ErrMaxFramesExceeded.
func WithMaxFrames(n int) Option { return func(e *Engine) { e.maxFrames = n } }

// NewEngine constructs an Engine over the given (I, T, P) triple and state
// alphabet.
func NewEngine(i, t, p formula.Formula, vars []lia.Var, opts ...Option) *Engine {
	e := &Engine{
		i: i, t: t, p: p, vars: vars,
		facade:    solver.NewLIAFacade(),
		logger:    hclog.NewNullLogger(),
		maxFrames: defaultMaxFrames,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Check is the spec.md §6 entry point: construct an Engine over (I, T, P)
// and run it to completion.
func Check(ctx context.Context, i, t, p formula.Formula, vars []lia.Var, opts ...Option) (Result, error) {
	return NewEngine(i, t, p, vars, opts...).Run(ctx)
}

// Run executes the main loop from spec.md §4.6 to completion: Proved,
// Refuted, or Inconclusive (fixpoint never reached within MaxFrames, or ctx
// cancelled).
func (e *Engine) Run(ctx context.Context) (Result, error) {
	if len(e.vars) == 0 {
		return Result{Status: Inconclusive, Stats: e.stats}, fmt.Errorf("%w: empty state alphabet", ErrInputShape)
	}
	for _, v := range e.vars {
		if strings.HasPrefix(v.Name, reservedVarPrefix) {
			return Result{Status: Inconclusive, Stats: e.stats}, fmt.Errorf("%w: variable %q uses the reserved %q prefix", ErrInputShape, v.Name, reservedVarPrefix)
		}
	}

	f0, err := e.facade.TseitinCNF(ctx, e.i)
	if err != nil {
		return Result{Status: Inconclusive, Stats: e.stats}, err
	}
	f1, err := e.facade.TseitinCNF(ctx, e.p)
	if err != nil {
		return Result{Status: Inconclusive, Stats: e.stats}, err
	}
	e.frames = Trace{f0, f1}

	verdict, _, err := e.facade.Sat(ctx, formula.And(e.i, formula.Not(e.p)))
	if err != nil {
		return Result{Status: Inconclusive, Stats: e.stats}, err
	}
	if verdict != solver.Unsat {
		e.logger.Warn("initial states already violate the property")
		return Result{Status: Refuted, Stats: e.stats}, fmt.Errorf("%w: I already intersects ¬P", ErrPropertyRefuted)
	}

	n := 1
	for {
		if err := ctx.Err(); err != nil {
			return Result{Status: Inconclusive, Stats: e.stats}, err
		}
		if n > e.maxFrames {
			return Result{Status: Inconclusive, Stats: e.stats}, ErrMaxFramesExceeded
		}
		for n+1 >= len(e.frames) {
			e.frames = append(e.frames, conjfml.New())
		}

		verdict, _, err := e.facade.Sat(ctx, formula.And(conjfmlToFormula(e.frames[n]), formula.Not(e.p)))
		if err != nil {
			return Result{Status: Inconclusive, Stats: e.stats}, err
		}
		if verdict == solver.Unknown {
			e.logger.Debug(ErrSolverUnknown.Error(), "level", n, "query", "frame-vs-property")
		}

		if verdict == solver.Unsat {
			e.logger.Debug("frame does not intersect ¬P, propagating", "level", n)
			fixpoint, err := e.propagate(ctx, n)
			if err != nil {
				return Result{Status: Inconclusive, Stats: e.stats}, err
			}
			if fixpoint != nil {
				return Result{Status: Proved, Invariant: fixpoint, Stats: e.stats}, nil
			}
			n++
			e.stats.FramesGrown++
			continue
		}

		bad := formula.ToDNF(formula.And(conjfmlToFormula(e.frames[n]), formula.Not(e.p)))
		if len(bad) == 0 {
			return Result{Status: Inconclusive, Stats: e.stats}, fmt.Errorf("%w: sat? reported a counterexample but DNF decomposition is empty", ErrUnexpectedFormulaShape)
		}
		for _, cube := range bad {
			if cubeIsFalse(cube) {
				continue
			}
			e.logger.Debug("blocking bad cube", "level", n, "cube", cube.String())
			if err := e.block(ctx, cube, n); err != nil {
				witness := cube
				if errors.Is(err, ErrPropertyRefuted) {
					return Result{Status: Refuted, Witness: witness, Stats: e.stats}, err
				}
				return Result{Status: Inconclusive, Stats: e.stats}, err
			}
		}
	}
}

// block drives the proof-obligation loop from spec.md §4.6 for one
// initial (level, cube) pair to completion: every obligation it spawns
// along the way is blocked before block returns nil, or ErrPropertyRefuted
// bubbles up the instant an obligation reaches level 0.
func (e *Engine) block(ctx context.Context, cube *conjfml.ConjFml, level int) error {
	q := newObligationQueue()
	q.Push(Obligation{Level: level, Cube: cube})

	for q.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		ob, _ := q.Pop()
		e.stats.ObligationsProcessed++
		e.logger.Debug("obligation popped", "level", ob.Level, "cube", ob.Cube.String())

		if ob.Level == 0 {
			return fmt.Errorf("%w: cube %s reached level 0", ErrPropertyRefuted, ob.Cube)
		}

		alreadyBlocked, _, err := e.facade.Sat(ctx, formula.And(conjfmlToFormula(e.frames[ob.Level]), conjfmlToFormula(ob.Cube)))
		if err != nil {
			return err
		}
		if alreadyBlocked == solver.Unsat {
			continue
		}

		predPhi := formula.And(
			conjfmlToFormula(e.frames[ob.Level-1]),
			formula.Not(conjfmlToFormula(ob.Cube)),
			e.t,
			conjfmlToFormula(ob.Cube.AsPrimed()),
		)
		predVerdict, _, err := e.facade.Sat(ctx, predPhi)
		if err != nil {
			return err
		}

		if predVerdict != solver.Unsat {
			preds, err := Preimage(ctx, e.facade, e.frames[ob.Level-1], ob.Cube, e.t)
			if err != nil {
				return err
			}
			preds = filterFalseCubes(preds)
			e.stats.PreimagesComputed++
			e.logger.Debug("preimage computed", "level", ob.Level-1, "cubes", len(preds))
			if len(preds) == 0 {
				continue
			}
			for _, pc := range preds {
				shrunk, err := GeneralizeSat(ctx, e.facade, e.i, preds, pc)
				if err != nil {
					return err
				}
				q.Push(Obligation{Level: ob.Level - 1, Cube: shrunk})
			}
			q.Push(ob)
			continue
		}

		g, err := GeneralizeUnsat(ctx, e.facade, e.i, e.frames[ob.Level-1], e.t, ob.Cube)
		if err != nil {
			return err
		}
		e.stats.Generalizations++
		e.logger.Debug("cube generalized", "level", ob.Level, "cube", g.String())

		clause, err := formula.ToConjFml(formula.Not(conjfmlToFormula(g)))
		if err != nil {
			return fmt.Errorf("%w: blocking clause for generalized cube: %v", ErrUnexpectedFormulaShape, err)
		}
		blockingClause := clause.Clauses()[0]

		for i := 1; i <= ob.Level; i++ {
			if !e.frames[i].ContainsClause(blockingClause) {
				e.frames[i].Add(blockingClause)
			}
		}
	}
	return nil
}

// propagate extends the trace and pushes clauses forward (spec.md §4.6).
// It returns the fixpoint frame if F_k == F_{k+1} for some k in [1, n), or
// nil if no fixpoint was reached this round.
func (e *Engine) propagate(ctx context.Context, n int) (*conjfml.ConjFml, error) {
	for n+1 >= len(e.frames) {
		e.frames = append(e.frames, conjfml.New())
	}

	for k := 1; k < n; k++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		diff := e.frames[k].Difference(e.frames[k+1])
		for _, cl := range diff.Clauses() {
			verdict, _, err := e.facade.Sat(ctx, formula.And(
				conjfmlToFormula(e.frames[k]), e.t, formula.Not(clauseToFormula(cl.Primed())),
			))
			if err != nil {
				return nil, err
			}
			if verdict == solver.Unsat {
				e.frames[k+1].Add(cl)
			}
		}

		if err := e.subsumeFrame(ctx, k+1); err != nil {
			return nil, err
		}
		if err := e.simplifyFrame(ctx, k+1); err != nil {
			return nil, err
		}

		if e.frames[k].Equal(e.frames[k+1]) {
			e.logger.Debug("fixpoint reached", "level", k)
			return e.frames[k], nil
		}
	}
	return nil, nil
}

// subsumeFrame removes clauses of frames[level] subsumed by a shorter
// clause also present, guarded by assertSubsumptionSafe: spec.md §9 flags
// this exact check as "not well-tested" in the source and requires that a
// subsumed clause's removal not break F_k ⇒ P.
func (e *Engine) subsumeFrame(ctx context.Context, level int) error {
	clauses := e.frames[level].Clauses()
	removed := make([]bool, len(clauses))

	for i, shorter := range clauses {
		if removed[i] {
			continue
		}
		for j, longer := range clauses {
			if i == j || removed[j] || len(shorter) >= len(longer) {
				continue
			}
			if !clauseSubset(shorter, longer) {
				continue
			}
			safe, err := e.assertSubsumptionSafe(ctx, level, j, removed)
			if err != nil {
				return err
			}
			if safe {
				removed[j] = true
			}
		}
	}

	kept := conjfml.New()
	any := false
	for i, cl := range clauses {
		if removed[i] {
			any = true
			continue
		}
		kept.Add(cl)
	}
	if any {
		e.frames[level] = kept
	}
	return nil
}

// assertSubsumptionSafe checks that removing clauses[idx] from frame
// `level` would not break F_level ⇒ P: it re-checks sat?(remaining ∧ ¬P)
// is still Unsat with the candidate clause hypothetically gone.
func (e *Engine) assertSubsumptionSafe(ctx context.Context, level, idx int, alreadyRemoved []bool) (bool, error) {
	clauses := e.frames[level].Clauses()
	without := conjfml.New()
	for i, cl := range clauses {
		if i == idx || alreadyRemoved[i] {
			continue
		}
		without.Add(cl)
	}
	verdict, _, err := e.facade.Sat(ctx, formula.And(conjfmlToFormula(without), formula.Not(e.p)))
	if err != nil {
		return false, err
	}
	return verdict == solver.Unsat, nil
}

// simplifyFrame canonicalizes every unit clause's literal (dividing
// through by its coefficient gcd); multi-literal clauses pass through
// unchanged, since simplify's contract (spec.md §4.1) operates on single
// literals.
func (e *Engine) simplifyFrame(ctx context.Context, level int) error {
	clauses := e.frames[level].Clauses()
	out := conjfml.New()
	for _, cl := range clauses {
		if len(cl) != 1 {
			out.Add(cl)
			continue
		}
		simplified, err := e.facade.Simplify(ctx, cl[0])
		if err != nil {
			return err
		}
		out.Add(conjfml.Clause{simplified})
	}
	e.frames[level] = out
	return nil
}
