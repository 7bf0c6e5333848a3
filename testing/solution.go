package testing

import "github.com/optkit/benders/types"

// Candidate is a map-backed candidate master solution.
type Candidate struct {
	// Values maps master variable names to candidate values.
	Values map[string]float64

	// Obj is the candidate's master objective value.
	Obj float64
}

// Compile-time assertion that Candidate implements Solution.
var _ types.Solution = (*Candidate)(nil)

// NewCandidate creates a candidate solution with the given objective.
func NewCandidate(obj float64, values map[string]float64) *Candidate {
	if values == nil {
		values = make(map[string]float64)
	}

	return &Candidate{Values: values, Obj: obj}
}

// Value returns the candidate value of a master variable. Unknown
// variables report zero.
func (c *Candidate) Value(v *types.Variable) float64 { return c.Values[v.Name] }

// Objective returns the candidate's objective value.
func (c *Candidate) Objective() float64 { return c.Obj }

// Set assigns the candidate value of a variable and returns the candidate
// for chaining.
func (c *Candidate) Set(name string, value float64) *Candidate {
	c.Values[name] = value

	return c
}
