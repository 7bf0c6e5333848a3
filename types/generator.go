package types

import "context"

// DecompositionView is the read-mostly surface of a decomposition that cut
// generators operate against. It exposes the subproblem engines, the
// classification and bookkeeping of every subproblem, and the master
// problem mutation points used to add cuts.
type DecompositionView interface {
	// Name returns the decomposition's name.
	Name() string

	// NumSubproblems returns the number of subproblems.
	NumSubproblems() int

	// Subproblem returns the solve engine of subproblem index, or nil if
	// the engine has not been created.
	Subproblem(index int) SubproblemSolver

	// SubproblemObjective returns the objective value recorded by the most
	// recent solve of subproblem index.
	SubproblemObjective(index int) float64

	// SubproblemIsConvex reports whether subproblem index is currently
	// classified as convex.
	SubproblemIsConvex(index int) bool

	// SubproblemIsIndependent reports whether subproblem index is
	// independent of the master problem.
	SubproblemIsIndependent(index int) bool

	// SubproblemLowerBound returns the valid lower bound computed for
	// subproblem index, or negative infinity if none was computed.
	SubproblemLowerBound(index int) float64

	// AuxiliaryVariable returns the master-problem auxiliary variable that
	// underestimates the objective of subproblem index.
	AuxiliaryVariable(index int) *Variable

	// MasterVariable resolves the master variable coupled to a subproblem
	// variable, or nil for subproblem-local variables.
	MasterVariable(sub *Variable) *Variable

	// Master returns the master problem.
	Master() MasterProblem

	// SolutionTolerance returns the relative optimality tolerance of the
	// decomposition.
	SolutionTolerance() float64

	// AddCut adds a cut to the master problem on behalf of the named
	// generator, as a constraint or a separating row depending on the
	// decomposition's configuration, and records it in the generator's
	// store for later transfer.
	//
	// Returns ResultCutAdded for a constraint, ResultSeparated for a row.
	AddCut(generator string, cut *LinearCut) (Result, error)
}

// CutGenerator produces cuts from the solution of a subproblem. Generators
// are executed in deterministic order (priority descending, name ascending
// as tiebreak) until one of them adds a cut for the subproblem at hand.
type CutGenerator interface {
	// Name returns the generator's unique name.
	Name() string

	// Priority returns the generator's execution priority. Higher runs
	// earlier.
	Priority() int

	// LPCut reports whether the generator derives its cuts from relaxed-form
	// solves. LP-cut generators run only in relaxed passes; the rest run
	// only in full passes on non-convex subproblems.
	LPCut() bool

	// Generate inspects the solved subproblem and attempts to produce a
	// cut. The returned result must be one of ResultCutAdded,
	// ResultSeparated, ResultFeasible or ResultDidNotRun.
	Generate(ctx context.Context, dec DecompositionView, sol Solution, index int, kind EnforcementKind) (Result, error)
}
