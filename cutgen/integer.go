package cutgen

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"github.com/optkit/benders/types"
)

// DefaultCutConstant is the default lower bound on a subproblem objective
// used by the integer optimality cut.
const DefaultCutConstant = -10000.0

// IntegerOptimality generates the binary optimality cut for a non-convex
// subproblem solved to discrete optimality with objective obj:
//
//	aux >= L + (obj - L) * (sum_{i in S} x_i - sum_{i not in S} x_i - |S| + 1)
//
// where S is the set of coupled binary master variables at value one in the
// candidate and L is a constant lower bound on the subproblem objective.
// The cut is tight at the candidate and vacuous one flip away, making it a
// no-good style cut. It applies only when every coupled master variable is
// binary; otherwise the generator does not run.
type IntegerOptimality struct {
	cutConstant float64
	ncuts       atomic.Int64
}

// Compile-time assertion that IntegerOptimality implements CutGenerator.
var _ types.CutGenerator = (*IntegerOptimality)(nil)

// NewIntegerOptimality creates the integer optimality cut generator with
// DefaultCutConstant.
func NewIntegerOptimality() *IntegerOptimality {
	return NewIntegerOptimalityWithConstant(DefaultCutConstant)
}

// NewIntegerOptimalityWithConstant creates the generator with a custom
// lower bound on the subproblem objectives. A tighter (larger) constant
// gives stronger cuts; an invalid (too large) one cuts off optima.
func NewIntegerOptimalityWithConstant(cutConstant float64) *IntegerOptimality {
	return &IntegerOptimality{cutConstant: cutConstant}
}

// Name returns "integer".
func (g *IntegerOptimality) Name() string { return "integer" }

// Priority returns the generator's execution priority.
func (g *IntegerOptimality) Priority() int { return PriorityIntegerOptimality }

// LPCut reports that this generator needs full-form solves.
func (g *IntegerOptimality) LPCut() bool { return false }

// CutConstant returns the configured subproblem objective lower bound.
func (g *IntegerOptimality) CutConstant() float64 { return g.cutConstant }

// Generate builds and adds one integer optimality cut for subproblem index.
func (g *IntegerOptimality) Generate(ctx context.Context, dec types.DecompositionView, sol types.Solution, index int, _ types.EnforcementKind) (types.Result, error) {
	if ctx.Err() != nil {
		return types.ResultDidNotRun, ctx.Err()
	}

	obj := dec.SubproblemObjective(index)
	if math.IsInf(obj, 1) {
		return types.ResultDidNotRun, nil
	}

	aux := dec.AuxiliaryVariable(index)
	if aux == nil {
		return types.ResultDidNotRun, nil
	}

	engine := dec.Subproblem(index)
	if engine == nil {
		return types.ResultDidNotRun, nil
	}

	slope := obj - g.cutConstant
	if slope <= 0 {
		// The candidate already beats the assumed lower bound sentinel;
		// there is nothing to cut.
		return types.ResultDidNotRun, nil
	}

	cut := &types.LinearCut{
		Name: fmt.Sprintf("integeroptimalitycut_%d_%d", index, g.ncuts.Add(1)),
		Rhs:  types.Infinity(),
	}

	ones := 0
	for _, v := range engine.Variables() {
		mv := dec.MasterVariable(v)
		if mv == nil {
			continue
		}
		if !mv.Integral || mv.Lb < 0 || mv.Ub > 1 {
			return types.ResultDidNotRun, nil
		}

		if sol.Value(mv) > 0.5 {
			cut.AddCoef(mv, -slope)
			ones++
		} else {
			cut.AddCoef(mv, slope)
		}
	}

	cut.AddCoef(aux, 1.0)
	cut.Lhs = g.cutConstant + slope*(1.0-float64(ones))

	return dec.AddCut(g.Name(), cut)
}
