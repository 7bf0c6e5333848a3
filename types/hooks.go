package types

import "context"

// Hooks defines callbacks for decomposition lifecycle events.
//
// All hooks are optional and called synchronously from the coordinator, in
// the order events occur. Hook errors are logged but never fail the
// operation that triggered them.
//
// Best practices for hook implementation:
//   - Complete quickly (the solving loop waits on them)
//   - Respect context cancellation
//   - Handle errors gracefully (return error for logging)
type Hooks struct {
	// OnExecuted is called after every coordinator call, with the
	// enforcement kind and the infeasibility outcome.
	OnExecuted func(ctx context.Context, kind EnforcementKind, infeasible bool) error

	// OnSubproblemSolved is called after each subproblem solve with the
	// terminal status and recorded objective.
	OnSubproblemSolved func(ctx context.Context, index int, status SolveStatus, objective float64) error

	// OnCutAdded is called when a cut generator adds a cut to the master
	// problem.
	OnCutAdded func(ctx context.Context, generator string, index int) error

	// OnCutTransferred is called for each stored cut successfully
	// transferred to a derived decomposition.
	OnCutTransferred func(ctx context.Context, cut *LinearCut) error
}
