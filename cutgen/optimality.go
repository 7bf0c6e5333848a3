package cutgen

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/optkit/benders/types"
)

// Default generator priorities. Feasibility runs before optimality so an
// infeasible subproblem is cut off before its objective is examined;
// integer optimality runs last since it only applies to full-form solves.
const (
	PriorityFeasibility       = 10000
	PriorityOptimality        = 5000
	PriorityIntegerOptimality = 0
)

// Optimality generates the classical dual-based optimality cut for a
// feasible but suboptimal subproblem:
//
//	sum_i redcost_i * x_i + aux >= lhs
//
// where the sum runs over the master variables coupled into the subproblem,
// redcost_i is the reduced cost of the subproblem copy of x_i, and lhs
// accumulates the dual multipliers of the subproblem constraints times
// their active sides plus the bound contributions of the subproblem-local
// variables. The cut requires the engine to expose its dual solution
// through types.DualProvider.
type Optimality struct {
	ncuts atomic.Int64
}

// Compile-time assertion that Optimality implements CutGenerator.
var _ types.CutGenerator = (*Optimality)(nil)

// NewOptimality creates the optimality cut generator.
func NewOptimality() *Optimality {
	return &Optimality{}
}

// Name returns "optimality".
func (g *Optimality) Name() string { return "optimality" }

// Priority returns the generator's execution priority.
func (g *Optimality) Priority() int { return PriorityOptimality }

// LPCut reports that this generator derives cuts from relaxed solves.
func (g *Optimality) LPCut() bool { return true }

// Generate builds and adds one optimality cut for subproblem index.
func (g *Optimality) Generate(ctx context.Context, dec types.DecompositionView, sol types.Solution, index int, _ types.EnforcementKind) (types.Result, error) {
	if ctx.Err() != nil {
		return types.ResultDidNotRun, ctx.Err()
	}

	engine := dec.Subproblem(index)
	if engine == nil || engine.Status() != types.StatusOptimal {
		return types.ResultDidNotRun, nil
	}

	duals, ok := engine.(types.DualProvider)
	if !ok {
		return types.ResultDidNotRun, nil
	}

	aux := dec.AuxiliaryVariable(index)
	if aux == nil {
		return types.ResultDidNotRun, nil
	}

	cut := &types.LinearCut{
		Name: fmt.Sprintf("optimalitycut_%d_%d", index, g.ncuts.Add(1)),
		Lhs:  0,
		Rhs:  types.Infinity(),
	}

	for _, cd := range duals.ConstraintDuals() {
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
		redcost := duals.ReducedCost(v)
		if mv := dec.MasterVariable(v); mv != nil {
			if redcost != 0 {
				cut.AddCoef(mv, redcost)
			}

			continue
		}

		// Subproblem-local variables contribute through the bound their
		// reduced cost pins them to.
		if redcost > 0 {
			cut.Lhs += redcost * v.Lb
		} else if redcost < 0 {
			cut.Lhs += redcost * v.Ub
		}
	}

	cut.AddCoef(aux, 1.0)

	return dec.AddCut(g.Name(), cut)
}
