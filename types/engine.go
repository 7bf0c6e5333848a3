package types

import "context"

// SubproblemSolver is the external solve engine owned by one subproblem.
//
// The coordinator drives the engine through a setup/solve/teardown cycle for
// every checked master candidate: bounds of the coupling variables are
// tightened to the candidate values, the engine is solved in relaxed or full
// form, and the transient solve state is released afterwards. Probing mode
// is the engine's cheap re-solvable representation used for relaxed solves;
// FreeTransform discards the transformed state after a full solve.
//
// All methods are synchronous. An externally interrupted solve returns
// StatusInterrupted and the best bound and objective found so far.
type SubproblemSolver interface {
	// SolveRelaxed solves the continuous relaxation. The engine must be in
	// probing mode.
	SolveRelaxed(ctx context.Context) (SolveStatus, error)

	// SolveFull solves the subproblem to discrete optimality.
	SolveFull(ctx context.Context) (SolveStatus, error)

	// Status returns the status of the most recent solve.
	Status() SolveStatus

	// Objective returns the objective value of the most recent solve.
	Objective() float64

	// BestBound returns the best proven dual bound of the most recent solve.
	BestBound() float64

	// Variables returns all variables of the subproblem.
	Variables() []*Variable

	// ChangeBounds tightens the bounds of a subproblem variable.
	ChangeBounds(v *Variable, lb, ub float64) error

	// MakeContinuous relaxes an integral variable to a continuous one.
	MakeContinuous(v *Variable) error

	// StartProbing enters the cheap re-solvable probing representation.
	StartProbing() error

	// EndProbing leaves probing mode and resets transient bound changes.
	EndProbing() error

	// FreeTransform discards the transformed state of a full solve so the
	// subproblem can be set up again for the next candidate.
	FreeTransform() error
}

// ConstraintDual carries the dual multiplier of one subproblem constraint
// together with the constraint sides, as needed to assemble a cut.
type ConstraintDual struct {
	Dual float64
	Lhs  float64
	Rhs  float64
}

// DualProvider is an optional engine capability exposing the dual solution
// of an optimal relaxed solve. The optimality cut generator requires it.
type DualProvider interface {
	// ConstraintDuals returns the dual multipliers of all subproblem
	// constraints with their sides.
	ConstraintDuals() []ConstraintDual

	// ReducedCost returns the reduced cost of a subproblem variable.
	ReducedCost(v *Variable) float64
}

// FarkasProvider is an optional engine capability exposing the infeasibility
// certificate of an infeasible relaxed solve. The feasibility cut generator
// requires it.
type FarkasProvider interface {
	// FarkasDuals returns the Farkas multipliers of all subproblem
	// constraints with their sides.
	FarkasDuals() []ConstraintDual

	// FarkasCoefficient returns the certificate coefficient of a subproblem
	// variable.
	FarkasCoefficient(v *Variable) float64
}

// ObjectiveLimiter is an optional engine capability that lets the
// coordinator pass the auxiliary variable's candidate value down as an
// objective limit before a full solve, so the engine can stop as soon as the
// candidate is proven suboptimal.
type ObjectiveLimiter interface {
	SetObjectiveLimit(limit float64)
}
