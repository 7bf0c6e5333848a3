package benders

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/optkit/benders/types"
)

// subproblem is the handle for one externally-solved subproblem instance
// plus the decomposition-owned metadata around it.
//
// The objective field caches the value of the most recent solve within the
// current coordinator call; Infinity() means unknown or infeasible so far.
// The isConvex flag only ever flips NonConvex to Convex, never back.
type subproblem struct {
	index  int
	engine types.SubproblemSolver

	objective     float64
	bestObjective float64

	isConvex             bool
	isIndependent        bool
	isSetUp              bool
	isEnabled            bool
	masterVarsContinuous bool

	// setUpRelaxed records whether the current setup entered probing mode,
	// so teardown releases the matching representation.
	setUpRelaxed bool

	auxVar     *types.Variable
	lowerBound float64

	// savedBounds holds the pre-fixing bounds of the coupling variables so
	// teardown can restore them after a full-form solve.
	savedBounds []savedBound

	// objLimiter is the engine's objective-limit capability, detected once
	// when the handle is created.
	objLimiter types.ObjectiveLimiter
}

type savedBound struct {
	v      *types.Variable
	lb, ub float64
}

// newSubproblem wraps an engine created by the driver. A nil engine is
// allowed when the driver supplies custom solving methods.
func newSubproblem(index int, engine types.SubproblemSolver) *subproblem {
	sp := &subproblem{
		index:         index,
		engine:        engine,
		objective:     types.Infinity(),
		bestObjective: types.Infinity(),
		isEnabled:     true,
		lowerBound:    math.Inf(-1),
	}

	if engine != nil {
		sp.isConvex = classifyConvex(engine)
		sp.objLimiter, _ = engine.(types.ObjectiveLimiter)
	}

	return sp
}

// classifyConvex reports whether the engine holds a purely continuous model.
func classifyConvex(engine types.SubproblemSolver) bool {
	for _, v := range engine.Variables() {
		if v.Integral {
			return false
		}
	}

	return true
}

// makeConvex performs the one-way NonConvex to Convex reclassification.
func (d *Decomposition) makeConvex(sp *subproblem) {
	if sp.isConvex {
		return
	}

	sp.isConvex = true
	d.nConvex++
	d.metrics.RecordConvexReclassification(sp.index)
	d.logger.Info("subproblem reclassified as convex", "decomposition", d.name, "subproblem", sp.index)
}

// ChgMasterVarsToCont converts the coupling variables of subproblem index
// to continuous ones. Once every coupling variable is continuous and no
// discrete variable remains in the subproblem, the subproblem is permanently
// reclassified as convex and subsequent calls solve it through the cheaper
// relaxed representation.
//
// The conversion also runs automatically on every first setup of the
// subproblem; this method lets a host trigger it eagerly, before any
// candidate is checked.
//
// Parameters:
//   - ctx: Context for cancellation
//   - index: Subproblem index
//
// Returns:
//   - error: Conversion error from the engine, or lifecycle error
func (d *Decomposition) ChgMasterVarsToCont(ctx context.Context, index int) error {
	if !d.active {
		return ErrNotActive
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	return d.chgMasterVarsToCont(d.subproblems[index])
}

// chgMasterVarsToCont relaxes the integrality of every coupling variable.
// The coupling variables are fixed to the candidate values during setup, so
// their integrality constraints are vacuous in the subproblem.
func (d *Decomposition) chgMasterVarsToCont(sp *subproblem) error {
	if sp.masterVarsContinuous || sp.engine == nil {
		return nil
	}

	for _, v := range sp.engine.Variables() {
		if !v.Integral {
			continue
		}
		if d.driver.MasterVariable(v) == nil {
			continue
		}
		if err := sp.engine.MakeContinuous(v); err != nil {
			return fmt.Errorf("convert variable %q of subproblem %d: %w", v.Name, sp.index, err)
		}
	}

	sp.masterVarsContinuous = true
	if classifyConvex(sp.engine) {
		d.makeConvex(sp)
	}

	return nil
}

// setupSubproblem fixes the coupling variables of subproblem index to the
// candidate values. Values are clamped into the variable's current local
// bounds so numerical drift in the candidate cannot produce an infeasible
// fixing. For relaxed-form passes the engine is put into probing mode first
// so the fixings stay transient.
func (d *Decomposition) setupSubproblem(sol Solution, sp *subproblem, relaxed bool) error {
	start := time.Now()
	defer func() { d.setupTime.Add(int64(time.Since(start))) }()

	if sp.isSetUp {
		return nil
	}

	// The conversion is idempotent and may flip the subproblem to convex
	// on its first setup.
	if err := d.chgMasterVarsToCont(sp); err != nil {
		return err
	}

	useProbing := relaxed
	if useProbing {
		if err := sp.engine.StartProbing(); err != nil {
			return fmt.Errorf("start probing on subproblem %d: %w", sp.index, err)
		}
	}

	sp.savedBounds = sp.savedBounds[:0]
	for _, v := range sp.engine.Variables() {
		mv := d.driver.MasterVariable(v)
		if mv == nil {
			continue
		}

		val := sol.Value(mv)
		if val < v.Lb {
			val = v.Lb
		}
		if val > v.Ub {
			val = v.Ub
		}

		sp.savedBounds = append(sp.savedBounds, savedBound{v: v, lb: v.Lb, ub: v.Ub})
		if err := sp.engine.ChangeBounds(v, val, val); err != nil {
			return fmt.Errorf("fix variable %q of subproblem %d: %w", v.Name, sp.index, err)
		}
	}

	sp.isSetUp = true
	sp.setUpRelaxed = useProbing

	return nil
}

// solveSubproblem runs the engine in the form the pass demands and caches
// the outcome on the handle.
//
// Returns the solve result (ResultFeasible or ResultInfeasible) or an error.
// An unbounded subproblem is reported as ErrSubproblemUnbounded, since a
// bounded master cannot legitimately induce an unbounded subproblem.
func (d *Decomposition) solveSubproblem(ctx context.Context, sol Solution, sp *subproblem, relaxed bool) (Result, error) {
	var (
		status SolveStatus
		err    error
	)

	form := "full"
	if relaxed {
		form = "relaxed"
	}

	start := time.Now()
	if relaxed {
		status, err = sp.engine.SolveRelaxed(ctx)
	} else {
		if sp.objLimiter != nil && sp.auxVar != nil {
			sp.objLimiter.SetObjectiveLimit(sol.Value(sp.auxVar))
		}
		status, err = sp.engine.SolveFull(ctx)
	}
	duration := time.Since(start)

	if err != nil {
		return ResultDidNotRun, fmt.Errorf("solve subproblem %d: %w", sp.index, err)
	}

	d.metrics.RecordSubproblemSolve(sp.index, form, status.String(), duration.Seconds())

	result := ResultDidNotRun
	switch status {
	case StatusOptimal, StatusInterrupted, StatusSolutionLimit:
		sp.objective = sp.engine.Objective()
		if sp.objective < sp.bestObjective {
			sp.bestObjective = sp.objective
		}
		result = ResultFeasible
	case StatusInfeasible:
		sp.objective = types.Infinity()
		result = ResultInfeasible
	case StatusUnbounded:
		return ResultDidNotRun, fmt.Errorf("subproblem %d: %w", sp.index, ErrSubproblemUnbounded)
	default:
		return ResultDidNotRun, fmt.Errorf("subproblem %d returned status %s: %w", sp.index, status, ErrInvalidResult)
	}

	d.callHook(ctx, "OnSubproblemSolved", func() error {
		if d.hooks.OnSubproblemSolved == nil {
			return nil
		}

		return d.hooks.OnSubproblemSolved(ctx, sp.index, status, sp.objective)
	})

	return result, nil
}

// solveSubproblemUser dispatches one subproblem solve to the driver's custom
// solving method and validates the reported result.
func (d *Decomposition) solveSubproblemUser(ctx context.Context, sol Solution, sp *subproblem, pass PassKind) (Result, error) {
	var (
		obj    float64
		result Result
		err    error
	)

	// A driver may implement only one of the two custom solving methods;
	// the missing half simply does not run.
	if pass == PassUserRelaxed {
		if d.caps.relaxedSolver == nil {
			return ResultDidNotRun, nil
		}
		obj, result, err = d.caps.relaxedSolver.SolveSubproblemRelaxed(ctx, sol, sp.index, d.convexOnly())
	} else {
		if d.caps.fullSolver == nil {
			return ResultDidNotRun, nil
		}
		obj, result, err = d.caps.fullSolver.SolveSubproblemFull(ctx, sol, sp.index)
	}
	if err != nil {
		return ResultDidNotRun, fmt.Errorf("custom solve of subproblem %d: %w", sp.index, err)
	}

	switch result {
	case ResultFeasible:
		sp.objective = obj
		if obj < sp.bestObjective {
			sp.bestObjective = obj
		}
	case ResultInfeasible:
		sp.objective = types.Infinity()
	case ResultDidNotRun:
	default:
		return ResultDidNotRun, fmt.Errorf("custom solve of subproblem %d returned %s: %w", sp.index, result, ErrInvalidResult)
	}

	return result, nil
}

// teardownSubproblem releases the transient solve state of one subproblem
// and restores the coupling variable bounds changed during setup.
// Independent subproblems are exempt: their state is retained for the whole
// run since they are never re-solved.
func (d *Decomposition) teardownSubproblem(sp *subproblem) error {
	if !sp.isSetUp || sp.isIndependent {
		return nil
	}

	if sp.engine != nil {
		var err error
		if sp.setUpRelaxed {
			err = sp.engine.EndProbing()
		} else {
			err = sp.engine.FreeTransform()
		}
		if err != nil {
			return fmt.Errorf("tear down subproblem %d: %w", sp.index, err)
		}

		for _, sb := range sp.savedBounds {
			if err := sp.engine.ChangeBounds(sb.v, sb.lb, sb.ub); err != nil {
				return fmt.Errorf("restore bounds of %q in subproblem %d: %w", sb.v.Name, sp.index, err)
			}
		}
	}

	sp.savedBounds = sp.savedBounds[:0]
	sp.isSetUp = false

	return nil
}

// isOptimal compares the cached subproblem objective against the auxiliary
// variable's candidate value using the relative tolerance.
func (d *Decomposition) isOptimal(sol Solution, sp *subproblem) bool {
	if sp.auxVar == nil || math.IsInf(sp.objective, 1) {
		return false
	}

	return relDiff(sp.objective, sol.Value(sp.auxVar)) < d.cfg.SolutionTolerance
}

// relDiff is the relative difference (a-b) / max(1, |a|, |b|). It is
// scale-invariant for large magnitudes, unlike a plain absolute difference.
func relDiff(a, b float64) float64 {
	quot := math.Max(1.0, math.Max(math.Abs(a), math.Abs(b)))

	return (a - b) / quot
}

// checkIndependence reports whether no master variable maps into the
// subproblem. Such a subproblem is decoupled and needs solving only once.
func (d *Decomposition) checkIndependence(index int) bool {
	for _, mv := range d.master.Variables() {
		if d.driver.SubproblemVariable(mv, index) != nil {
			return false
		}
	}

	return true
}

// computeLowerBound solves subproblem index once to obtain a valid lower
// bound for its auxiliary variable. Independent subproblems are solved to
// full optimality and their solve state is retained for the rest of the
// run; coupled subproblems get a cheap relaxed solve whose state is
// discarded afterwards.
func (d *Decomposition) computeLowerBound(ctx context.Context, sp *subproblem) error {
	if sp.engine == nil {
		return nil
	}

	if sp.isIndependent {
		status, err := sp.engine.SolveFull(ctx)
		if err != nil {
			return fmt.Errorf("solve independent subproblem %d: %w", sp.index, err)
		}
		if status == StatusUnbounded {
			return fmt.Errorf("subproblem %d: %w", sp.index, ErrSubproblemUnbounded)
		}
		if status == StatusOptimal {
			sp.lowerBound = sp.engine.Objective()
			sp.objective = sp.lowerBound
			sp.bestObjective = sp.lowerBound
		}
		// State is retained on purpose; the subproblem is never re-solved.
		sp.isSetUp = true
		sp.setUpRelaxed = false

		return nil
	}

	if err := sp.engine.StartProbing(); err != nil {
		return fmt.Errorf("start probing on subproblem %d: %w", sp.index, err)
	}

	status, err := sp.engine.SolveRelaxed(ctx)
	if err != nil {
		return fmt.Errorf("bound relaxed solve of subproblem %d: %w", sp.index, err)
	}
	if status == StatusOptimal {
		sp.lowerBound = sp.engine.BestBound()
	}

	if err := sp.engine.EndProbing(); err != nil {
		return fmt.Errorf("end probing on subproblem %d: %w", sp.index, err)
	}

	return nil
}
