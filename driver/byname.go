// Package driver provides ready-made benders drivers.
package driver

import (
	"fmt"

	"github.com/optkit/benders/types"
)

// ByName resolves the variable correspondence between the master problem
// and the subproblems by variable name: a master variable x couples to the
// subproblem variable carrying the same name. Subproblem engines are
// supplied up front, one per subproblem.
//
// This is the common setup when the subproblems are built by splitting a
// monolithic model, since the split preserves variable names.
type ByName struct {
	master  types.MasterProblem
	engines []types.SubproblemSolver

	// byName[i] indexes subproblem i's variables by name.
	byName []map[string]*types.Variable
}

// Compile-time assertion that ByName implements Driver.
var _ types.Driver = (*ByName)(nil)

// NewByName creates a by-name driver over the given master problem and
// subproblem engines.
//
// Parameters:
//   - master: Master problem whose variable names anchor the mapping
//   - engines: One solve engine per subproblem, in subproblem index order
//
// Returns:
//   - *ByName: Initialized driver
func NewByName(master types.MasterProblem, engines []types.SubproblemSolver) *ByName {
	d := &ByName{
		master:  master,
		engines: engines,
		byName:  make([]map[string]*types.Variable, len(engines)),
	}

	for i, engine := range engines {
		d.byName[i] = make(map[string]*types.Variable)
		if engine == nil {
			continue
		}
		for _, v := range engine.Variables() {
			d.byName[i][v.Name] = v
		}
	}

	return d
}

// NumSubproblems returns the number of supplied engines.
func (d *ByName) NumSubproblems() int { return len(d.engines) }

// CreateSubproblem returns the pre-built engine for subproblem index.
func (d *ByName) CreateSubproblem(index int) (types.SubproblemSolver, error) {
	if index < 0 || index >= len(d.engines) {
		return nil, fmt.Errorf("subproblem index %d out of range [0, %d)", index, len(d.engines))
	}

	return d.engines[index], nil
}

// MasterVariable returns the master variable with the same name as the
// given subproblem variable, or nil.
func (d *ByName) MasterVariable(sub *types.Variable) *types.Variable {
	return d.master.FindVariable(sub.Name)
}

// SubproblemVariable returns the variable of subproblem index with the same
// name as the given master variable, or nil.
func (d *ByName) SubproblemVariable(master *types.Variable, index int) *types.Variable {
	if index < 0 || index >= len(d.byName) {
		return nil
	}

	return d.byName[index][master.Name]
}
