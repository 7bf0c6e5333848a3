package types

import "context"

// Driver supplies the problem-specific callbacks of a decomposition: it
// creates the subproblem solve engines and resolves the variable
// correspondence between the master problem and the subproblems.
//
// Optional behavior is added by implementing the capability interfaces
// below. The coordinator detects capabilities once at construction and
// dispatches through capability flags rather than repeated type assertions.
type Driver interface {
	// CreateSubproblem creates the solve engine for the subproblem with the
	// given index. Called once per subproblem during initialization.
	CreateSubproblem(index int) (SubproblemSolver, error)

	// MasterVariable returns the master variable coupled to the given
	// subproblem variable, or nil if the variable is local to the
	// subproblem.
	MasterVariable(sub *Variable) *Variable

	// SubproblemVariable returns the variable of subproblem index coupled
	// to the given master variable, or nil if the master variable does not
	// appear in that subproblem.
	SubproblemVariable(master *Variable, index int) *Variable
}

// Initializer is an optional Driver capability invoked when the
// decomposition is initialized and deinitialized.
type Initializer interface {
	Init(ctx context.Context) error
	Exit(ctx context.Context) error
}

// PresolveInitializer is an optional Driver capability invoked when the
// host's presolving starts and ends.
type PresolveInitializer interface {
	InitPresolve(ctx context.Context) error
	ExitPresolve(ctx context.Context) error
}

// SolveInitializer is an optional Driver capability invoked when the host's
// branch-and-bound process starts and ends.
type SolveInitializer interface {
	InitSolve(ctx context.Context) error
	ExitSolve(ctx context.Context) error
}

// PreSolveHook is an optional Driver capability invoked before the
// subproblem solving loop of every coordinator call.
type PreSolveHook interface {
	PreSubproblemSolve(ctx context.Context, sol Solution, kind EnforcementKind) error
}

// PostSolveHook is an optional Driver capability invoked after the
// subproblem solving loop of every coordinator call, with the infeasibility
// outcome of the call.
type PostSolveHook interface {
	PostSubproblemSolve(ctx context.Context, sol Solution, kind EnforcementKind, infeasible bool) error
}

// RelaxedSolver is an optional Driver capability replacing the built-in
// relaxed-form subproblem solve. When convexOnly is true the decomposition
// operates in LNS convex-only mode and the result is trusted as a full
// verification.
//
// The returned result must be ResultFeasible, ResultInfeasible or
// ResultDidNotRun; a feasible result must carry a finite objective.
type RelaxedSolver interface {
	SolveSubproblemRelaxed(ctx context.Context, sol Solution, index int, convexOnly bool) (objective float64, result Result, err error)
}

// FullSolver is an optional Driver capability replacing the built-in
// full-form subproblem solve.
//
// The returned result must be ResultFeasible, ResultInfeasible or
// ResultDidNotRun; a feasible result must carry a finite objective.
type FullSolver interface {
	SolveSubproblemFull(ctx context.Context, sol Solution, index int) (objective float64, result Result, err error)
}

// SubproblemReleaser is the teardown counterpart of RelaxedSolver and
// FullSolver. A driver implementing either custom solve must implement the
// releaser as well, and vice versa; the pairing is validated at
// construction.
type SubproblemReleaser interface {
	ReleaseSubproblem(ctx context.Context, index int) error
}
