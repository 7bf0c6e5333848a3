package types

// MasterProblem is the host-side optimization model that owns the coupling
// variables and receives the generated cuts.
//
// The coordinator consumes this interface to create auxiliary variables, to
// query the incumbent bound and search depth, and to add cuts either as
// constraints or as separating rows. Implementations are supplied by the
// host solver.
type MasterProblem interface {
	// AddVariable creates a continuous variable in the master problem.
	AddVariable(name string, lb, ub, obj float64) (*Variable, error)

	// FindVariable returns the variable with the given name, or nil.
	FindVariable(name string) *Variable

	// Variables returns all master problem variables.
	Variables() []*Variable

	// AddConstraint adds a cut to the master as a linear constraint.
	AddConstraint(cut *LinearCut) error

	// AddRow adds a cut to the master's separation storage.
	AddRow(cut *LinearCut) error

	// PrimalBound returns the objective value of the best known solution,
	// or Infinity() when no solution is known.
	PrimalBound() float64

	// SearchDepth returns the depth of the currently focused node of the
	// master's branch-and-bound tree.
	SearchDepth() int
}

// Solution is a candidate master solution whose subproblem feasibility is
// being checked.
type Solution interface {
	// Value returns the candidate value of a master variable.
	Value(v *Variable) float64

	// Objective returns the candidate's objective value.
	Objective() float64
}
