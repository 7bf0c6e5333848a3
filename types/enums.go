package types

// EnforcementKind identifies the kind of master solution being enforced or
// checked when the decomposition coordinator is invoked.
type EnforcementKind int32

const (
	// EnforceLP enforces the solution of the master LP relaxation.
	EnforceLP EnforcementKind = iota

	// EnforceRelax enforces a solution produced by a relaxation handler.
	EnforceRelax

	// EnforcePseudo enforces a pseudo solution, used when the master LP is
	// unbounded or not solved to optimality.
	EnforcePseudo

	// EnforceCheck verifies a candidate incumbent for feasibility.
	EnforceCheck
)

// String returns the string representation of the enforcement kind.
func (k EnforcementKind) String() string {
	switch k {
	case EnforceLP:
		return "lp"
	case EnforceRelax:
		return "relax"
	case EnforcePseudo:
		return "pseudo"
	case EnforceCheck:
		return "check"
	default:
		return "unknown"
	}
}

// Result is the outcome reported by the coordinator and by cut generator
// plugins.
type Result int32

const (
	// ResultDidNotRun indicates the operation was skipped.
	ResultDidNotRun Result = iota

	// ResultFeasible indicates the candidate satisfies all subproblems.
	ResultFeasible

	// ResultInfeasible indicates at least one subproblem rejected the
	// candidate, or not every subproblem could be verified.
	ResultInfeasible

	// ResultCutAdded indicates a cutting plane was added to the master as a
	// constraint.
	ResultCutAdded

	// ResultSeparated indicates a cutting plane was added to the master as a
	// separating row.
	ResultSeparated

	// ResultSolveRelaxation requests that the master re-solve its LP
	// relaxation. Returned for pseudo solutions that could not be verified.
	ResultSolveRelaxation
)

// String returns the string representation of the result.
func (r Result) String() string {
	switch r {
	case ResultDidNotRun:
		return "didnotrun"
	case ResultFeasible:
		return "feasible"
	case ResultInfeasible:
		return "infeasible"
	case ResultCutAdded:
		return "cutadded"
	case ResultSeparated:
		return "separated"
	case ResultSolveRelaxation:
		return "solverelaxation"
	default:
		return "unknown"
	}
}

// PassKind identifies the form in which subproblems are solved during one
// loop of the execution protocol.
type PassKind int32

const (
	// PassRelaxed solves the continuous relaxation of each subproblem.
	PassRelaxed PassKind = iota

	// PassFull solves each subproblem to discrete optimality.
	PassFull

	// PassUserRelaxed delegates the relaxed solve to a driver-supplied
	// solving method.
	PassUserRelaxed

	// PassUserFull delegates the full solve to a driver-supplied solving
	// method.
	PassUserFull
)

// IsRelaxed reports whether the pass solves relaxations.
func (p PassKind) IsRelaxed() bool {
	return p == PassRelaxed || p == PassUserRelaxed
}

// IsUser reports whether the pass dispatches to driver-supplied solving
// methods.
func (p PassKind) IsUser() bool {
	return p == PassUserRelaxed || p == PassUserFull
}

// String returns the string representation of the pass kind.
func (p PassKind) String() string {
	switch p {
	case PassRelaxed:
		return "relaxed"
	case PassFull:
		return "full"
	case PassUserRelaxed:
		return "user-relaxed"
	case PassUserFull:
		return "user-full"
	default:
		return "unknown"
	}
}

// SolveStatus is the status reported by a subproblem solve engine.
type SolveStatus int32

const (
	// StatusUnknown indicates the subproblem has not been solved.
	StatusUnknown SolveStatus = iota

	// StatusOptimal indicates the subproblem was solved to optimality.
	StatusOptimal

	// StatusInfeasible indicates the subproblem has no feasible solution
	// under the current fixings.
	StatusInfeasible

	// StatusUnbounded indicates the subproblem objective is unbounded.
	StatusUnbounded

	// StatusInterrupted indicates the solve was interrupted externally; the
	// best bound and solution found so far remain available.
	StatusInterrupted

	// StatusSolutionLimit indicates the solve stopped at a solution limit;
	// the best solution found so far remains available.
	StatusSolutionLimit
)

// String returns the string representation of the solve status.
func (s SolveStatus) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusInterrupted:
		return "interrupted"
	case StatusSolutionLimit:
		return "sollimit"
	default:
		return "invalid"
	}
}
