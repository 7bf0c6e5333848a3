package testing

import (
	"context"
	"math"

	"github.com/optkit/benders/types"
)

// EngineScript is the canned behavior of a fake engine. Solve outcomes are
// consumed in order; the last entry repeats once the script is exhausted.
type EngineScript struct {
	// Variables are the subproblem's variables, owned by the engine.
	Variables []*types.Variable

	// Statuses and Objectives are consumed pairwise per solve call.
	Statuses   []types.SolveStatus
	Objectives []float64

	// BestBounds defaults to Objectives when empty.
	BestBounds []float64

	// Dual solution served through types.DualProvider.
	Duals        []types.ConstraintDual
	ReducedCosts map[string]float64

	// Infeasibility certificate served through types.FarkasProvider.
	FarkasDuals []types.ConstraintDual
	FarkasCoefs map[string]float64
}

// Engine is a scriptable in-memory subproblem solve engine. It records
// every lifecycle call so tests can assert on the setup/solve/teardown
// discipline of the coordinator.
type Engine struct {
	script EngineScript

	solves    int
	status    types.SolveStatus
	objective float64
	bestBound float64

	// Probing and Transformed reflect the engine representation state.
	Probing     bool
	Transformed bool

	// SolveForms records "relaxed"/"full" per solve, in order.
	SolveForms []string

	// ObjLimit is the last objective limit pushed down, NaN when unset.
	ObjLimit float64

	// Err, when set, is returned by every solve call.
	Err error
}

// Compile-time assertions for the engine capabilities.
var (
	_ types.SubproblemSolver = (*Engine)(nil)
	_ types.DualProvider     = (*Engine)(nil)
	_ types.FarkasProvider   = (*Engine)(nil)
	_ types.ObjectiveLimiter = (*Engine)(nil)
)

// NewEngine creates a fake engine from a script.
func NewEngine(script EngineScript) *Engine {
	return &Engine{script: script, ObjLimit: math.NaN()}
}

func (e *Engine) take() (types.SolveStatus, float64, float64) {
	i := e.solves
	if i >= len(e.script.Statuses) {
		i = len(e.script.Statuses) - 1
	}
	e.solves++

	status := types.StatusUnknown
	if i >= 0 {
		status = e.script.Statuses[i]
	}

	obj := types.Infinity()
	if i >= 0 && i < len(e.script.Objectives) {
		obj = e.script.Objectives[i]
	}

	bound := obj
	if i >= 0 && i < len(e.script.BestBounds) {
		bound = e.script.BestBounds[i]
	}

	return status, obj, bound
}

// SolveRelaxed consumes the next scripted outcome as a relaxed solve.
func (e *Engine) SolveRelaxed(ctx context.Context) (types.SolveStatus, error) {
	return e.solve(ctx, "relaxed")
}

// SolveFull consumes the next scripted outcome as a full solve.
func (e *Engine) SolveFull(ctx context.Context) (types.SolveStatus, error) {
	e.Transformed = true

	return e.solve(ctx, "full")
}

func (e *Engine) solve(ctx context.Context, form string) (types.SolveStatus, error) {
	if err := ctx.Err(); err != nil {
		return types.StatusInterrupted, nil
	}
	if e.Err != nil {
		return types.StatusUnknown, e.Err
	}

	e.SolveForms = append(e.SolveForms, form)
	status, obj, bound := e.take()
	e.status = status
	e.objective = obj
	e.bestBound = bound

	return status, nil
}

// Solves returns the number of solve calls so far.
func (e *Engine) Solves() int { return e.solves }

// Status returns the status of the most recent solve.
func (e *Engine) Status() types.SolveStatus { return e.status }

// Objective returns the objective of the most recent solve.
func (e *Engine) Objective() float64 { return e.objective }

// BestBound returns the best bound of the most recent solve.
func (e *Engine) BestBound() float64 { return e.bestBound }

// Variables returns the scripted variables.
func (e *Engine) Variables() []*types.Variable { return e.script.Variables }

// ChangeBounds mutates the variable's bounds in place.
func (e *Engine) ChangeBounds(v *types.Variable, lb, ub float64) error {
	v.Lb, v.Ub = lb, ub

	return nil
}

// MakeContinuous relaxes the variable's integrality.
func (e *Engine) MakeContinuous(v *types.Variable) error {
	v.Integral = false

	return nil
}

// StartProbing enters the probing representation.
func (e *Engine) StartProbing() error {
	e.Probing = true

	return nil
}

// EndProbing leaves the probing representation.
func (e *Engine) EndProbing() error {
	e.Probing = false

	return nil
}

// FreeTransform discards the full-solve state.
func (e *Engine) FreeTransform() error {
	e.Transformed = false

	return nil
}

// SetObjectiveLimit records the pushed-down objective limit.
func (e *Engine) SetObjectiveLimit(limit float64) { e.ObjLimit = limit }

// ConstraintDuals returns the scripted dual solution.
func (e *Engine) ConstraintDuals() []types.ConstraintDual { return e.script.Duals }

// ReducedCost returns the scripted reduced cost of a variable.
func (e *Engine) ReducedCost(v *types.Variable) float64 { return e.script.ReducedCosts[v.Name] }

// FarkasDuals returns the scripted infeasibility certificate.
func (e *Engine) FarkasDuals() []types.ConstraintDual { return e.script.FarkasDuals }

// FarkasCoefficient returns the scripted certificate coefficient.
func (e *Engine) FarkasCoefficient(v *types.Variable) float64 { return e.script.FarkasCoefs[v.Name] }
