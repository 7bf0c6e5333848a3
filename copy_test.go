package benders

import (
	"context"
	"testing"

	"github.com/optkit/benders/driver"
	benderstest "github.com/optkit/benders/testing"
	"github.com/optkit/benders/types"
	"github.com/stretchr/testify/require"
)

// startSourceAndCopy builds a source decomposition over one master problem
// and a derived copy over a cloned master carrying the same variable names.
func startSourceAndCopy(t *testing.T, srcCfg Config, srcOpts ...Option) (src, cp *Decomposition, srcMaster, cpMaster *benderstest.Master, cpEngine *benderstest.Engine) {
	t.Helper()
	ctx := context.Background()

	srcMaster = benderstest.NewMaster()
	_, err := srcMaster.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	srcEngine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal},
		Objectives: []float64{0},
	})
	src = startDecomposition(t, srcCfg, srcMaster, []*benderstest.Engine{srcEngine}, srcOpts...)

	aux := src.AuxiliaryVariable(0)
	require.NotNil(t, aux)

	// The cloned master carries the source's variables under their
	// original names, auxiliary variable included.
	cpMaster = benderstest.NewMaster()
	_, err = cpMaster.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)
	_, err = cpMaster.AddVariable(aux.Name, aux.Lb, aux.Ub, aux.Obj)
	require.NoError(t, err)

	cpEngine = benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal},
		Objectives: []float64{4},
	})

	cp, err = src.Copy(cpMaster, driver.NewByName(cpMaster, []types.SubproblemSolver{cpEngine}))
	require.NoError(t, err)
	require.NoError(t, cp.Activate(ctx, 1))
	require.NoError(t, cp.Initialize(ctx))

	return src, cp, srcMaster, cpMaster, cpEngine
}

func TestCopyLinkage(t *testing.T) {
	src, cp, _, cpMaster, _ := startSourceAndCopy(t, DefaultConfig())

	require.True(t, cp.IsCopy())
	require.Same(t, src, cp.Source())
	require.False(t, src.IsCopy())
	require.Equal(t, src.Name(), cp.Name())

	// The copy adopted the cloned auxiliary variable from its own master
	// namespace, not the source's instance.
	aux := cp.AuxiliaryVariable(0)
	require.Same(t, cpMaster.FindVariable(aux.Name), aux)
	require.NotSame(t, src.AuxiliaryVariable(0), aux)
	require.Equal(t, aux.Lb, cp.SubproblemLowerBound(0))
}

func TestCopyExecuteConvexOnly(t *testing.T) {
	_, cp, _, _, cpEngine := startSourceAndCopy(t, DefaultConfig())

	aux := cp.AuxiliaryVariable(0)
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1}).Set(aux.Name, 4)

	result, infeasible, auxViolated, err := cp.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultFeasible, result)
	require.False(t, infeasible)
	require.False(t, auxViolated)
	require.Equal(t, []string{"relaxed"}, cpEngine.SolveForms)
}

func TestCopyChecksNonConvexByRelaxation(t *testing.T) {
	ctx := context.Background()

	srcMaster := benderstest.NewMaster()
	_, err := srcMaster.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	srcEngine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal},
		Objectives: []float64{0},
	})
	src := startDecomposition(t, DefaultConfig(), srcMaster, []*benderstest.Engine{srcEngine})
	aux := src.AuxiliaryVariable(0)

	cpMaster := benderstest.NewMaster()
	_, err = cpMaster.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)
	_, err = cpMaster.AddVariable(aux.Name, aux.Lb, aux.Ub, aux.Obj)
	require.NoError(t, err)

	// The local integer variable keeps the copy's subproblem non-convex.
	cpEngine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10), intVar("y", 0, 3)},
		Statuses:   []types.SolveStatus{types.StatusOptimal},
		Objectives: []float64{4},
	})

	cp, err := src.Copy(cpMaster, driver.NewByName(cpMaster, []types.SubproblemSolver{cpEngine}))
	require.NoError(t, err)
	require.NoError(t, cp.Activate(ctx, 1))
	require.NoError(t, cp.Initialize(ctx))
	require.False(t, cp.SubproblemIsConvex(0))

	// An LNS copy screens candidates through relaxed solves only; the
	// relaxed solve verifies even the non-convex subproblem and no
	// full-form pass runs.
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1}).
		Set(cp.AuxiliaryVariable(0).Name, 4)
	result, infeasible, auxViolated, err := cp.Execute(ctx, sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultFeasible, result)
	require.False(t, infeasible)
	require.False(t, auxViolated)
	require.Equal(t, []string{"relaxed"}, cpEngine.SolveForms)
	require.False(t, cpEngine.Transformed)
}

func TestCopyLNSShortCircuits(t *testing.T) {
	t.Run("checking disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LNSCheck = false

		_, cp, _, _, cpEngine := startSourceAndCopy(t, cfg)
		sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})

		result, infeasible, _, err := cp.Execute(context.Background(), sol, EnforceLP, false)
		require.NoError(t, err)
		require.Equal(t, ResultDidNotRun, result)
		require.False(t, infeasible)
		require.Equal(t, 0, cpEngine.Solves())
	})

	t.Run("depth limit", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.LNSMaxDepth = 1

		_, cp, srcMaster, _, cpEngine := startSourceAndCopy(t, cfg)
		srcMaster.SetSearchDepth(5)

		sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})
		result, _, _, err := cp.Execute(context.Background(), sol, EnforceLP, false)
		require.NoError(t, err)
		require.Equal(t, ResultDidNotRun, result)
		require.Equal(t, 0, cpEngine.Solves())

		// Within the depth limit the copy checks candidates as usual.
		srcMaster.SetSearchDepth(1)
		aux := cp.AuxiliaryVariable(0)
		result, _, _, err = cp.Execute(context.Background(), sol.Set(aux.Name, 4), EnforceLP, false)
		require.NoError(t, err)
		require.Equal(t, ResultFeasible, result)
		require.Equal(t, 1, cpEngine.Solves())
	})
}

func TestCutTransfer(t *testing.T) {
	var transferredCuts []*types.LinearCut
	hooks := &Hooks{
		OnCutTransferred: func(_ context.Context, cut *types.LinearCut) error {
			transferredCuts = append(transferredCuts, cut)

			return nil
		},
	}

	src, cp, srcMaster, cpMaster, _ := startSourceAndCopy(t, DefaultConfig(), WithHooks(hooks))
	ctx := context.Background()

	cut := &types.LinearCut{Name: "optimalitycut_0_1", Lhs: 3, Rhs: types.Infinity()}
	cut.AddCoef(cpMaster.FindVariable("x"), 1.5)
	cut.AddCoef(cp.AuxiliaryVariable(0), 1)

	result, err := cp.AddCut("optimality", cut)
	require.NoError(t, err)
	require.Equal(t, ResultCutAdded, result)
	require.Len(t, cpMaster.Constraints, 1)
	require.Empty(t, srcMaster.Constraints)

	require.NoError(t, cp.Deinitialize(ctx))

	// The cut arrived in the source master with the coefficients rewritten
	// onto the source's variables.
	require.Len(t, srcMaster.Constraints, 1)
	mapped := srcMaster.Constraints[0]
	require.Equal(t, 3.0, mapped.Lhs)
	require.Len(t, mapped.Coefs, 2)
	require.Same(t, srcMaster.FindVariable("x"), mapped.Coefs[0].Var)
	require.Equal(t, 1.5, mapped.Coefs[0].Value)
	require.Same(t, src.AuxiliaryVariable(0), mapped.Coefs[1].Var)

	require.Equal(t, int64(1), src.CutsTransferred())
	require.Len(t, transferredCuts, 1)
	require.Same(t, mapped, transferredCuts[0])
}

func TestCutTransferDiscardsUnmapped(t *testing.T) {
	src, cp, srcMaster, cpMaster, _ := startSourceAndCopy(t, DefaultConfig())
	ctx := context.Background()

	// A variable that exists only in the copied context.
	local, err := cpMaster.AddVariable("lns_slack", 0, 1, 0)
	require.NoError(t, err)

	cut := &types.LinearCut{Name: "feasibilitycut_0_1", Lhs: 1, Rhs: types.Infinity()}
	cut.AddCoef(cpMaster.FindVariable("x"), 1)
	cut.AddCoef(local, 1)

	_, err = cp.AddCut("feasibility", cut)
	require.NoError(t, err)

	require.NoError(t, cp.Deinitialize(ctx))
	require.Empty(t, srcMaster.Constraints)
	require.Equal(t, int64(0), src.CutsTransferred())
}

func TestCutTransferDeduplicates(t *testing.T) {
	src, cp, srcMaster, cpMaster, _ := startSourceAndCopy(t, DefaultConfig())
	ctx := context.Background()

	// Two structurally identical cuts under different names: copies number
	// their cuts independently, so the name does not distinguish them.
	for _, name := range []string{"optimalitycut_0_1", "optimalitycut_0_2"} {
		cut := &types.LinearCut{Name: name, Lhs: 3, Rhs: types.Infinity()}
		cut.AddCoef(cpMaster.FindVariable("x"), 1.5)
		cut.AddCoef(cp.AuxiliaryVariable(0), 1)

		_, err := cp.AddCut("optimality", cut)
		require.NoError(t, err)
	}

	require.NoError(t, cp.Deinitialize(ctx))
	require.Len(t, srcMaster.Constraints, 1)
	require.Equal(t, int64(1), src.CutsTransferred())
}

func TestCutTransferDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TransferCuts = false

	src, cp, srcMaster, cpMaster, _ := startSourceAndCopy(t, cfg)
	ctx := context.Background()

	cut := &types.LinearCut{Name: "optimalitycut_0_1", Lhs: 3, Rhs: types.Infinity()}
	cut.AddCoef(cpMaster.FindVariable("x"), 1.5)
	cut.AddCoef(cp.AuxiliaryVariable(0), 1)

	_, err := cp.AddCut("optimality", cut)
	require.NoError(t, err)

	require.NoError(t, cp.Deinitialize(ctx))
	require.Empty(t, srcMaster.Constraints)
	require.Equal(t, int64(0), src.CutsTransferred())
}

func TestCutFingerprint(t *testing.T) {
	x := contVar("x", 0, 10)

	a := &types.LinearCut{Name: "a", Lhs: 3, Rhs: types.Infinity()}
	a.AddCoef(x, 1.5)

	b := &types.LinearCut{Name: "b", Lhs: 3, Rhs: types.Infinity()}
	b.AddCoef(x, 1.5)

	c := &types.LinearCut{Name: "a", Lhs: 4, Rhs: types.Infinity()}
	c.AddCoef(x, 1.5)

	require.Equal(t, cutFingerprint(a), cutFingerprint(b))
	require.NotEqual(t, cutFingerprint(a), cutFingerprint(c))
}
