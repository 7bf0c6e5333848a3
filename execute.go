package benders

import (
	"context"
	"fmt"
	"time"

	"github.com/optkit/benders/types"
)

// callState carries the bookkeeping of one Execute invocation across the
// solve passes.
type callState struct {
	sol      Solution
	kind     EnforcementKind
	checkInt bool

	window  int
	checked []int // visited subproblem indexes, in round-robin order

	// Per-subproblem outcome of the most recent pass that touched it.
	results []Result
	// verified marks subproblems solved in their native form this call.
	verified []bool
	// optimal marks subproblems whose objective matches the auxiliary value.
	optimal []bool

	nVerified  int
	infeasible bool
	cutsTotal  int
}

// Execute runs the decomposition protocol for one candidate master
// solution: it decides which subproblems to solve, in what form and in how
// many passes, drives the cut generators over the solved subproblems, and
// interprets the overall outcome.
//
// Parameters:
//   - ctx: Context for cancellation
//   - sol: Candidate master solution
//   - kind: Enforcement kind of the call
//   - checkInt: Whether integer feasibility of the candidate is being checked
//
// Returns:
//   - Result: Protocol outcome (ResultDidNotRun, ResultFeasible,
//     ResultInfeasible, ResultCutAdded, ResultSeparated or
//     ResultSolveRelaxation)
//   - bool: infeasible, true when the candidate was rejected
//   - bool: auxiliaryViolated, true when all subproblems are feasible but
//     some auxiliary variable undervalues its subproblem's true cost
//   - error: Lifecycle, solve or generator error
func (d *Decomposition) Execute(ctx context.Context, sol Solution, kind EnforcementKind, checkInt bool) (Result, bool, bool, error) {
	if !d.active {
		return ResultDidNotRun, false, false, ErrNotActive
	}
	if !d.initialized {
		return ResultDidNotRun, false, false, ErrNotInitialized
	}

	// A derived copy is advisory and must never block its host heuristic.
	if d.source != nil {
		if !d.cfg.LNSCheck {
			return ResultDidNotRun, false, false, nil
		}
		if d.cfg.LNSMaxDepth >= 0 && d.source.master.SearchDepth() > d.cfg.LNSMaxDepth {
			return ResultDidNotRun, false, false, nil
		}
	}

	// A candidate no better than the incumbent can never become incumbent,
	// so verifying its subproblems is wasted work.
	if checkInt && sol.Objective() >= d.master.PrimalBound() {
		return ResultDidNotRun, false, false, nil
	}

	start := time.Now()
	result, infeasible, auxViolated, err := d.execute(ctx, sol, kind, checkInt)
	duration := time.Since(start)

	d.execTime.Add(int64(duration))
	d.calls.Inc()
	d.metrics.RecordExecution(kind.String(), infeasible, duration.Seconds())
	d.callHook(ctx, "OnExecuted", func() error {
		if d.hooks.OnExecuted == nil {
			return nil
		}

		return d.hooks.OnExecuted(ctx, kind, infeasible)
	})

	return result, infeasible, auxViolated, err
}

func (d *Decomposition) execute(ctx context.Context, sol Solution, kind EnforcementKind, checkInt bool) (Result, bool, bool, error) {
	n := len(d.subproblems)
	firstCall := d.calls.Value() == 0
	convexOnly := d.convexOnly()

	cs := &callState{
		sol:      sol,
		kind:     kind,
		checkInt: checkInt,
		window:   checkedWindow(n, d.cfg.SubproblemFraction, firstCall, kind, convexOnly),
		results:  make([]Result, n),
		verified: make([]bool, n),
		optimal:  make([]bool, n),
	}

	// Independent subproblems keep the objective of their one-time solve;
	// everyone else starts the call with an unknown objective.
	for _, sp := range d.subproblems {
		if sp.isIndependent {
			continue
		}
		sp.objective = types.Infinity()
	}

	if d.caps.preSolve != nil {
		if err := d.caps.preSolve.PreSubproblemSolve(ctx, sol, kind); err != nil {
			return ResultDidNotRun, false, false, fmt.Errorf("pre-solve hook: %w", err)
		}
	}

	loops := initialLoopCount(kind, checkInt, d.nConvex < n, convexOnly)

	var err error
	for loop := 0; loop < loops; loop++ {
		pass := passForLoop(loop, d.caps.relaxedSolver != nil, d.caps.fullSolver != nil)

		cutsBefore := cs.cutsTotal
		if err = d.solvePass(ctx, cs, pass, loop); err != nil {
			break
		}

		// A pseudo solution carries no LP information the generators could
		// use; the candidate is judged by the solve outcomes alone.
		if kind == EnforcePseudo {
			loops = pseudoLoopCount(loops, cs.infeasible, checkInt, d.nConvex < n, convexOnly)

			continue
		}

		if err = d.generateCuts(ctx, cs, pass); err != nil {
			break
		}

		loops = nextLoopCount(loops, loop, cs.cutsTotal-cutsBefore, checkInt, d.nConvex < n, convexOnly)
	}

	// Checked subproblems are torn down in the same round-robin order they
	// were solved, even when a pass failed midway.
	for _, i := range cs.checked {
		if terr := d.teardownSubproblem(d.subproblems[i]); terr != nil && err == nil {
			err = terr
		}
	}
	if err != nil {
		return ResultDidNotRun, false, false, err
	}

	if d.caps.postSolve != nil {
		if err := d.caps.postSolve.PostSubproblemSolve(ctx, sol, kind, cs.infeasible); err != nil {
			return ResultDidNotRun, false, false, fmt.Errorf("post-solve hook: %w", err)
		}
	}

	return d.interpret(cs)
}

// solvePass solves the subproblems of the checked window for one pass,
// advancing the round-robin cursor and stopping early once the number of
// non-optimal subproblems reaches the window size.
func (d *Decomposition) solvePass(ctx context.Context, cs *callState, pass PassKind, loop int) error {
	n := len(d.subproblems)
	numNotOpt := 0

	if loop == 0 {
		start := d.lastChecked
		for j := 0; j < n && numNotOpt < cs.window; j++ {
			i := (start + j) % n
			d.lastChecked = (i + 1) % n
			cs.checked = append(cs.checked, i)

			solved, err := d.solveOne(ctx, cs, d.subproblems[i], pass)
			if err != nil {
				return err
			}
			if solved && !cs.optimal[i] {
				numNotOpt++
			}
		}

		return nil
	}

	// The second pass revisits the subproblems of the first pass. In the
	// built-in full pass, convex subproblems and subproblems already
	// infeasible from the relaxation carry their first-pass outcome; a
	// custom full solve is dispatched for every checked subproblem.
	for _, i := range cs.checked {
		if numNotOpt >= cs.window {
			break
		}

		sp := d.subproblems[i]
		if pass == types.PassFull && (sp.isConvex || cs.results[i] == ResultInfeasible) {
			continue
		}

		solved, err := d.solveOne(ctx, cs, sp, pass)
		if err != nil {
			return err
		}
		if solved && !cs.optimal[i] {
			numNotOpt++
		}
	}

	return nil
}

// solveOne processes a single subproblem for one pass: setup, solve,
// outcome classification and verification accounting. Returns whether the
// subproblem counts toward the non-optimal quota.
func (d *Decomposition) solveOne(ctx context.Context, cs *callState, sp *subproblem, pass PassKind) (bool, error) {
	i := sp.index

	// Independent subproblems were solved once at presolving and count as
	// verified without re-solving; disabled ones are skipped entirely.
	if sp.isIndependent {
		cs.results[i] = ResultFeasible
		cs.optimal[i] = d.isOptimal(cs.sol, sp)
		if !cs.verified[i] {
			cs.verified[i] = true
			cs.nVerified++
		}

		return false, nil
	}
	if !sp.isEnabled {
		cs.results[i] = ResultDidNotRun

		return false, nil
	}

	var (
		result Result
		err    error
	)
	if pass.IsUser() {
		result, err = d.solveSubproblemUser(ctx, cs.sol, sp, pass)
	} else {
		relaxed := pass.IsRelaxed()
		// A fixing held in probing mode is released and re-applied in the
		// full representation when the pass switches from relaxed to full.
		if sp.isSetUp && !relaxed && sp.setUpRelaxed {
			if err = sp.engine.EndProbing(); err != nil {
				return false, fmt.Errorf("end probing on subproblem %d: %w", i, err)
			}
			sp.savedBounds = sp.savedBounds[:0]
			sp.isSetUp = false
			sp.setUpRelaxed = false
		}
		if err = d.setupSubproblem(cs.sol, sp, relaxed); err != nil {
			return false, err
		}
		result, err = d.solveSubproblem(ctx, cs.sol, sp, relaxed)
	}
	if err != nil {
		return false, err
	}

	cs.results[i] = result
	if result == ResultDidNotRun {
		return false, nil
	}

	native := d.nativeForm(sp, pass)
	if native && !cs.verified[i] {
		cs.verified[i] = true
		cs.nVerified++
	}

	switch result {
	case ResultInfeasible:
		cs.infeasible = true
		cs.optimal[i] = false
	case ResultFeasible:
		cs.optimal[i] = d.isOptimal(cs.sol, sp)
	}

	return true, nil
}

// nativeForm reports whether a solve in the given pass verifies the
// subproblem: a convex subproblem solved as a relaxation, a non-convex one
// solved to full optimality, or any relaxed solve in LNS convex-only mode.
func (d *Decomposition) nativeForm(sp *subproblem, pass PassKind) bool {
	if pass.IsRelaxed() {
		if d.convexOnly() {
			return true
		}
		if !pass.IsUser() && sp.engine != nil && sp.engine.Status() != StatusOptimal && sp.engine.Status() != StatusInfeasible {
			return false
		}

		return sp.isConvex
	}

	if !pass.IsUser() && sp.engine != nil {
		s := sp.engine.Status()

		return s == StatusOptimal || s == StatusInfeasible
	}

	return true
}

// generateCuts walks the checked window and drives the cut generators over
// every solved, coupled subproblem that rejected the candidate or left its
// auxiliary variable undervalued.
func (d *Decomposition) generateCuts(ctx context.Context, cs *callState, pass PassKind) error {
	if !d.cutsEnabled(cs.kind) {
		return nil
	}

	for _, i := range cs.checked {
		sp := d.subproblems[i]
		if sp.isIndependent || cs.results[i] == ResultDidNotRun || cs.optimal[i] {
			continue
		}

		added, err := d.generateForSubproblem(ctx, cs, sp, pass)
		if err != nil {
			return err
		}
		if added {
			cs.cutsTotal++
		}
	}

	return nil
}

// generateForSubproblem iterates the generators in priority order and stops
// at the first one that adds a cut. Optimality and feasibility cuts derive
// from mutually exclusive subproblem outcomes, so at most one cut per
// subproblem per pass is ever useful.
func (d *Decomposition) generateForSubproblem(ctx context.Context, cs *callState, sp *subproblem, pass PassKind) (bool, error) {
	for _, g := range d.generators {
		if !d.generatorFires(g, sp, pass) {
			continue
		}

		stats := d.genStats[g.Name()]
		stats.calls++

		res, err := g.Generate(ctx, d, cs.sol, sp.index, cs.kind)
		if err != nil {
			return false, fmt.Errorf("generator %q on subproblem %d: %w", g.Name(), sp.index, err)
		}

		switch res {
		case ResultCutAdded, ResultSeparated:
			stats.cutsFound++
			d.cutsFound.Inc()
			d.metrics.RecordCutGenerated(g.Name(), sp.index)
			d.callHook(ctx, "OnCutAdded", func() error {
				if d.hooks.OnCutAdded == nil {
					return nil
				}

				return d.hooks.OnCutAdded(ctx, g.Name(), sp.index)
			})

			return true, nil
		case ResultFeasible, ResultDidNotRun:
			// Try the next generator.
		default:
			return false, fmt.Errorf("generator %q returned %s: %w", g.Name(), res, ErrInvalidResult)
		}
	}

	return false, nil
}

// generatorFires applies the capability gating: LP-cut generators fire only
// in relaxed passes; the rest fire in full passes on non-convex subproblems
// and in user-full passes.
func (d *Decomposition) generatorFires(g CutGenerator, sp *subproblem, pass PassKind) bool {
	if g.LPCut() {
		return pass.IsRelaxed()
	}

	if pass == types.PassUserFull {
		return true
	}

	return pass == types.PassFull && !sp.isConvex
}

// cutsEnabled reports whether cut generation is configured for the
// enforcement kind of this call. Pseudo candidates never reach the
// generators regardless of configuration.
func (d *Decomposition) cutsEnabled(kind EnforcementKind) bool {
	switch kind {
	case EnforceLP, EnforceCheck:
		return d.cfg.CutLP
	case EnforceRelax:
		return d.cfg.CutRelax
	default:
		return true
	}
}

// interpret maps the accumulated call state to the protocol outcome.
// Verification is counted against every subproblem of the decomposition,
// not just the checked window: a candidate can only be accepted once each
// subproblem was solved in its native form this call. The infeasible flag
// reports genuine subproblem infeasibility only, never a mere cut or an
// unverified candidate.
func (d *Decomposition) interpret(cs *callState) (Result, bool, bool, error) {
	allVerified := cs.nVerified == len(d.subproblems)
	allOptimal := !cs.infeasible && allTrue(cs.optimal, cs.checked)

	cutResult := ResultDidNotRun
	if cs.cutsTotal > 0 {
		cutResult = ResultSeparated
		if d.cfg.CutsAsConstraints {
			cutResult = ResultCutAdded
		}
	}

	// A pseudo candidate cannot be cut off: an infeasible or unverified
	// one asks the master to re-solve its relaxation instead.
	if cs.kind == EnforcePseudo {
		if cs.infeasible || !allVerified {
			return ResultSolveRelaxation, cs.infeasible, false, nil
		}

		return ResultFeasible, cs.infeasible, !allOptimal, nil
	}

	// An integer candidate receives a final verdict unless a constraint
	// was added to reject it; a check verdict stands even then.
	if cs.checkInt && (cs.kind == EnforceCheck || cutResult != ResultCutAdded) {
		if cs.infeasible || !allVerified {
			return ResultInfeasible, cs.infeasible, false, nil
		}

		return ResultFeasible, cs.infeasible, !allOptimal, nil
	}

	if cutResult != ResultDidNotRun {
		return cutResult, cs.infeasible, false, nil
	}

	if cs.infeasible {
		return ResultInfeasible, cs.infeasible, false, nil
	}

	return ResultFeasible, cs.infeasible, !allOptimal, nil
}

func allTrue(flags []bool, idx []int) bool {
	for _, i := range idx {
		if !flags[i] {
			return false
		}
	}

	return true
}
