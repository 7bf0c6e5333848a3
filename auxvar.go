package benders

import (
	"fmt"

	"github.com/optkit/benders/types"
)

// auxVarPrefix marks decomposition-owned variables in the master problem.
// The name encodes the subproblem index and the decomposition name, so a
// derived copy can find the cloned variable in its own namespace by name.
const auxVarPrefix = "##bendersauxiliaryvar"

// auxVarName returns the master name of the auxiliary variable for one
// subproblem of this decomposition.
func (d *Decomposition) auxVarName(index int) string {
	return fmt.Sprintf("%s_%d_%s", auxVarPrefix, index, d.name)
}

// addAuxVariables provides every subproblem with its auxiliary variable:
// one continuous master variable, unbounded above, objective coefficient 1,
// bounded below by the subproblem's precomputed lower bound. A
// decomposition configured to share adopts the variables of the
// highest-priority decomposition in its registry instead of creating its
// own.
func (d *Decomposition) addAuxVariables() error {
	if d.cfg.ShareAuxVars && d.registry != nil {
		if top := d.registry.highestPriority(d); top != nil {
			return d.shareAuxVariables(top)
		}
	}

	for _, sp := range d.subproblems {
		if sp.auxVar != nil {
			continue
		}

		v, err := d.master.AddVariable(d.auxVarName(sp.index), sp.lowerBound, types.Infinity(), 1.0)
		if err != nil {
			return fmt.Errorf("add auxiliary variable for subproblem %d: %w", sp.index, err)
		}
		sp.auxVar = v
	}

	return nil
}

// shareAuxVariables captures the auxiliary variables of a higher-priority
// decomposition over the same master problem.
func (d *Decomposition) shareAuxVariables(top *Decomposition) error {
	if top.NumSubproblems() < len(d.subproblems) {
		return fmt.Errorf("%w: decomposition %q has fewer subproblems than %q, cannot share auxiliary variables",
			ErrConfiguration, top.name, d.name)
	}

	for _, sp := range d.subproblems {
		v := top.subproblems[sp.index].auxVar
		if v == nil {
			return fmt.Errorf("%w: decomposition %q has no auxiliary variable for subproblem %d",
				ErrConfiguration, top.name, sp.index)
		}
		sp.auxVar = v
	}

	d.logger.Debug("auxiliary variables shared",
		"decomposition", d.name, "from", top.name, "count", len(d.subproblems))

	return nil
}

// adoptAuxVariables looks up the cloned auxiliary variables in a derived
// copy's own namespace. The clone carries the source decomposition's
// variables under their original names, so the lookup uses the name this
// decomposition would have given them.
func (d *Decomposition) adoptAuxVariables() error {
	for _, sp := range d.subproblems {
		v := d.master.FindVariable(d.auxVarName(sp.index))
		if v == nil {
			return fmt.Errorf("%w: auxiliary variable for subproblem %d not found in copied master", ErrConfiguration, sp.index)
		}
		sp.auxVar = v
		sp.lowerBound = v.Lb
	}

	return nil
}
