package types

import "math"

// Variable is one decision variable owned by a master problem or a
// subproblem solve engine.
//
// Instances are created and owned by the collaborator that holds the
// variable; the coordinator and the cut generators only hold references.
// Bounds are the current local bounds and are kept in sync by the owning
// engine when ChangeBounds is called.
type Variable struct {
	// Name uniquely identifies the variable within its owning problem.
	Name string

	// Lb and Ub are the current local bounds.
	Lb float64
	Ub float64

	// Obj is the objective function coefficient.
	Obj float64

	// Integral reports whether the variable is restricted to integer
	// values. Continuous variables have Integral == false.
	Integral bool
}

// IsFixed reports whether the variable's bounds coincide.
func (v *Variable) IsFixed() bool {
	return v.Lb == v.Ub
}

// Infinity is the bound value used for variables unbounded above; its
// negation is used for variables unbounded below.
func Infinity() float64 {
	return math.Inf(1)
}
