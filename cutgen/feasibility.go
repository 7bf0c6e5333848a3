package cutgen

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/optkit/benders/types"
)

// Feasibility generates a cut from the Farkas infeasibility certificate of
// a subproblem that rejected the candidate:
//
//	sum_i fcoef_i * x_i >= lhs
//
// where fcoef_i is the certificate coefficient of the subproblem copy of
// master variable x_i and lhs accumulates the certificate multipliers times
// the active constraint sides, corrected by the best-case bound
// contributions of the subproblem-local variables. Any master candidate
// satisfying the certificate inequality would make the subproblem feasible,
// so the cut excludes the rejecting region. Requires types.FarkasProvider.
type Feasibility struct {
	ncuts atomic.Int64
}

// Compile-time assertion that Feasibility implements CutGenerator.
var _ types.CutGenerator = (*Feasibility)(nil)

// NewFeasibility creates the feasibility cut generator.
func NewFeasibility() *Feasibility {
	return &Feasibility{}
}

// Name returns "feasibility".
func (g *Feasibility) Name() string { return "feasibility" }

// Priority returns the generator's execution priority.
func (g *Feasibility) Priority() int { return PriorityFeasibility }

// LPCut reports that this generator derives cuts from relaxed solves.
func (g *Feasibility) LPCut() bool { return true }

// Generate builds and adds one feasibility cut for subproblem index.
func (g *Feasibility) Generate(ctx context.Context, dec types.DecompositionView, _ types.Solution, index int, _ types.EnforcementKind) (types.Result, error) {
	if ctx.Err() != nil {
		return types.ResultDidNotRun, ctx.Err()
	}

	engine := dec.Subproblem(index)
	if engine == nil || engine.Status() != types.StatusInfeasible {
		return types.ResultDidNotRun, nil
	}

	farkas, ok := engine.(types.FarkasProvider)
	if !ok {
		return types.ResultDidNotRun, nil
	}

	cut := &types.LinearCut{
		Name: fmt.Sprintf("feasibilitycut_%d_%d", index, g.ncuts.Add(1)),
		Lhs:  0,
		Rhs:  types.Infinity(),
	}

	for _, cd := range farkas.FarkasDuals() {
		if cd.Dual == 0 {
			continue
		}
		if cd.Dual > 0 {
			cut.Lhs += cd.Dual * cd.Lhs
		} else {
			cut.Lhs += cd.Dual * cd.Rhs
		}
	}

	for _, v := range engine.Variables() {
		fcoef := farkas.FarkasCoefficient(v)
		if fcoef == 0 {
			continue
		}

		if mv := dec.MasterVariable(v); mv != nil {
			cut.AddCoef(mv, fcoef)

			continue
		}

		// Local variables take their certificate-best bound; the cut only
		// has to exclude candidates no local assignment can repair.
		if fcoef > 0 {
			cut.Lhs -= fcoef * v.Ub
		} else {
			cut.Lhs -= fcoef * v.Lb
		}
	}

	if len(cut.Coefs) == 0 {
		// No coupling variable appears in the certificate; the
		// infeasibility is not attributable to the master.
		return types.ResultDidNotRun, nil
	}

	return dec.AddCut(g.Name(), cut)
}
