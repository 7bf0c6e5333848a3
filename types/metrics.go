package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// All methods must be safe for concurrent use.
//
// This interface composes smaller, domain-focused interfaces for better modularity.
type MetricsCollector interface {
	ExecutionMetrics
	SubproblemMetrics
	CutMetrics
}

// ExecutionMetrics defines metrics for coordinator-level operations.
type ExecutionMetrics interface {
	// RecordExecution records one complete coordinator call.
	//
	// Parameters:
	//   - kind: Enforcement kind of the call ("lp", "relax", "pseudo", "check")
	//   - infeasible: true if the candidate solution was rejected
	//   - duration: Time taken in seconds
	RecordExecution(kind string, infeasible bool, duration float64)

	// RecordConvexReclassification records a subproblem moving from the
	// non-convex to the convex class.
	RecordConvexReclassification(index int)
}

// SubproblemMetrics defines metrics for individual subproblem solves.
type SubproblemMetrics interface {
	// RecordSubproblemSolve records one subproblem solve.
	//
	// Parameters:
	//   - index: Subproblem index
	//   - form: Solve form ("relaxed", "full")
	//   - status: Terminal solve status string
	//   - duration: Time taken in seconds
	RecordSubproblemSolve(index int, form string, status string, duration float64)
}

// CutMetrics defines metrics for cut generation and transfer.
type CutMetrics interface {
	// RecordCutGenerated records a cut produced by a generator.
	//
	// Parameters:
	//   - generator: Name of the generator that produced the cut
	//   - index: Subproblem the cut was generated for
	RecordCutGenerated(generator string, index int)

	// RecordCutTransfer records the outcome of transferring stored cuts to
	// a derived decomposition.
	//
	// Parameters:
	//   - transferred: Number of cuts successfully mapped and added
	//   - discarded: Number of cuts dropped because a variable could not be mapped
	RecordCutTransfer(transferred, discarded int)
}
