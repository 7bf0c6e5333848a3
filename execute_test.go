package benders

import (
	"context"
	"testing"

	"github.com/optkit/benders/driver"
	"github.com/optkit/benders/internal/logger"
	benderstest "github.com/optkit/benders/testing"
	"github.com/optkit/benders/types"
	"github.com/stretchr/testify/require"
)

// startDecomposition builds a decomposition over fake collaborators and
// runs the activation sequence up to InitPresolve. Every engine script
// must begin with one solve outcome for the lower-bound analysis.
func startDecomposition(t *testing.T, cfg Config, master *benderstest.Master, engines []*benderstest.Engine, opts ...Option) *Decomposition {
	t.Helper()

	solvers := make([]types.SubproblemSolver, len(engines))
	for i, e := range engines {
		solvers[i] = e
	}

	opts = append([]Option{WithLogger(logger.NewTest(t))}, opts...)
	dec, err := New("mip", &cfg, master, driver.NewByName(master, solvers), opts...)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, dec.Activate(ctx, len(engines)))
	require.NoError(t, dec.Initialize(ctx))
	require.NoError(t, dec.InitPresolve(ctx))

	return dec
}

func contVar(name string, lb, ub float64) *types.Variable {
	return &types.Variable{Name: name, Lb: lb, Ub: ub}
}

func intVar(name string, lb, ub float64) *types.Variable {
	return &types.Variable{Name: name, Lb: lb, Ub: ub, Integral: true}
}

func TestExecuteFeasibleOptimal(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 5},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})

	aux := dec.AuxiliaryVariable(0)
	require.NotNil(t, aux)

	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1}).Set(aux.Name, 5)
	result, infeasible, auxViolated, err := dec.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultFeasible, result)
	require.False(t, infeasible)
	require.False(t, auxViolated)

	// The solve state is released after the call and the fixed coupling
	// variable got its bounds back.
	require.False(t, engine.Probing)
	x := engine.Variables()[0]
	require.Equal(t, 0.0, x.Lb)
	require.Equal(t, 10.0, x.Ub)

	require.Equal(t, int64(1), dec.Calls())
	require.Equal(t, int64(0), dec.CutsFound())
	require.Equal(t, 5.0, dec.SubproblemObjective(0))
	require.Equal(t, 5.0, dec.SubproblemBestObjective(0))
}

func TestExecuteOptimalityCut(t *testing.T) {
	master := benderstest.NewMaster()
	mx, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:    []*types.Variable{contVar("x", 0, 10)},
		Statuses:     []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives:   []float64{0, 5},
		Duals:        []types.ConstraintDual{{Dual: 1, Lhs: 3, Rhs: 3}},
		ReducedCosts: map[string]float64{"x": 2},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})

	// The auxiliary variable is absent from the candidate, so it reads as
	// zero and undervalues the true subproblem cost of 5.
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})
	result, infeasible, auxViolated, err := dec.Execute(context.Background(), sol, EnforceLP, false)
	require.NoError(t, err)
	require.Equal(t, ResultCutAdded, result)
	// The subproblem itself was feasible; the cut rejects the candidate
	// without marking the master infeasible.
	require.False(t, infeasible)
	require.False(t, auxViolated)

	require.Len(t, master.Constraints, 1)
	cut := master.Constraints[0]
	require.Equal(t, 3.0, cut.Lhs)
	require.Equal(t, types.Infinity(), cut.Rhs)
	require.Len(t, cut.Coefs, 2)
	require.Same(t, mx, cut.Coefs[0].Var)
	require.Equal(t, 2.0, cut.Coefs[0].Value)
	require.Same(t, dec.AuxiliaryVariable(0), cut.Coefs[1].Var)
	require.Equal(t, 1.0, cut.Coefs[1].Value)

	// The higher-priority feasibility generator was consulted first but
	// declined; at most one cut per subproblem per pass.
	require.Equal(t, int64(1), dec.GeneratorCalls("feasibility"))
	require.Equal(t, int64(0), dec.GeneratorCutsFound("feasibility"))
	require.Equal(t, int64(1), dec.GeneratorCutsFound("optimality"))
	require.Equal(t, int64(1), dec.CutsFound())

	require.Equal(t, []string{"relaxed", "relaxed"}, engine.SolveForms)
}

func TestExecuteFeasibilityCut(t *testing.T) {
	master := benderstest.NewMaster()
	mx, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables: []*types.Variable{
			contVar("x", 0, 10),
			contVar("y", 0, 4),
		},
		Statuses:    []types.SolveStatus{types.StatusOptimal, types.StatusInfeasible},
		Objectives:  []float64{0},
		FarkasDuals: []types.ConstraintDual{{Dual: 1, Lhs: 2, Rhs: 2}},
		FarkasCoefs: map[string]float64{"x": 1.5, "y": 1},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})

	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})
	result, infeasible, _, err := dec.Execute(context.Background(), sol, EnforceLP, false)
	require.NoError(t, err)
	require.Equal(t, ResultCutAdded, result)
	require.True(t, infeasible)

	// lhs = 1*2 corrected by the local variable's certificate-best bound
	// contribution 1*4.
	require.Len(t, master.Constraints, 1)
	cut := master.Constraints[0]
	require.Equal(t, -2.0, cut.Lhs)
	require.Len(t, cut.Coefs, 1)
	require.Same(t, mx, cut.Coefs[0].Var)
	require.Equal(t, 1.5, cut.Coefs[0].Value)

	require.Equal(t, int64(1), dec.GeneratorCutsFound("feasibility"))
	require.Equal(t, types.Infinity(), dec.SubproblemObjective(0))
}

func TestExecuteIntegerCutSecondPass(t *testing.T) {
	master := benderstest.NewMaster()
	mx, err := master.AddIntegerVariable("x", 0, 1, 1)
	require.NoError(t, err)

	// The local integer variable y keeps the subproblem non-convex even
	// after the coupling variable's integrality is relaxed during setup.
	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{intVar("x", 0, 1), intVar("y", 0, 3)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 2, 5},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})
	require.False(t, dec.SubproblemIsConvex(0))

	aux := dec.AuxiliaryVariable(0)
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1}).Set(aux.Name, 2)

	// A check verdict stands on its own: the cut is stored for the master,
	// but the call reports the candidate feasible with a violated
	// auxiliary variable rather than a cut result.
	result, infeasible, auxViolated, err := dec.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultFeasible, result)
	require.False(t, infeasible)
	require.True(t, auxViolated)

	// The relaxation matched the auxiliary value, so the cut came from
	// the full-form pass through the integer optimality generator.
	require.Equal(t, []string{"relaxed", "relaxed", "full"}, engine.SolveForms)
	require.Equal(t, int64(1), dec.GeneratorCutsFound("integer"))
	require.Equal(t, int64(0), dec.GeneratorCutsFound("optimality"))

	// The candidate's auxiliary value was pushed down as objective limit
	// for the full solve.
	require.Equal(t, 2.0, engine.ObjLimit)

	slope := 5.0 - (-10000.0)
	require.Len(t, master.Constraints, 1)
	cut := master.Constraints[0]
	require.Len(t, cut.Coefs, 2)
	require.Same(t, mx, cut.Coefs[0].Var)
	require.Equal(t, -slope, cut.Coefs[0].Value)
	require.Same(t, aux, cut.Coefs[1].Var)
	require.Equal(t, -10000.0, cut.Lhs)

	// Full-form solve state was released after the call.
	require.False(t, engine.Transformed)
	require.False(t, engine.Probing)
}

func TestExecutePseudoRequestsRelaxation(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddIntegerVariable("x", 0, 1, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{intVar("x", 0, 1), intVar("y", 0, 3)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal, types.StatusInterrupted},
		Objectives: []float64{0, 2, 5},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})
	aux := dec.AuxiliaryVariable(0)
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1}).Set(aux.Name, 2)

	result, infeasible, _, err := dec.Execute(context.Background(), sol, EnforcePseudo, true)
	require.NoError(t, err)
	require.Equal(t, ResultSolveRelaxation, result)
	require.False(t, infeasible)

	// Pseudo enforcement plans one pass; the full pass was promoted after
	// the feasible relaxed pass, and its interrupted solve left the
	// subproblem unverified.
	require.Equal(t, []string{"relaxed", "relaxed", "full"}, engine.SolveForms)
	require.Empty(t, master.Constraints)
}

func TestExecutePseudoSkipsCutGeneration(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	// An infeasible subproblem with a full Farkas certificate: under any
	// other enforcement kind the feasibility generator would fire.
	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:   []*types.Variable{contVar("x", 0, 10)},
		Statuses:    []types.SolveStatus{types.StatusOptimal, types.StatusInfeasible},
		Objectives:  []float64{0},
		FarkasDuals: []types.ConstraintDual{{Dual: 1, Lhs: 2, Rhs: 2}},
		FarkasCoefs: map[string]float64{"x": 1.5},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})

	result, infeasible, _, err := dec.Execute(context.Background(), sol, EnforcePseudo, true)
	require.NoError(t, err)
	require.Equal(t, ResultSolveRelaxation, result)
	require.True(t, infeasible)

	// No generator ran and nothing reached the master.
	require.Empty(t, master.Constraints)
	require.Empty(t, master.Rows)
	require.Equal(t, int64(0), dec.GeneratorCalls("feasibility"))
	require.Equal(t, int64(0), dec.CutsFound())
}

func TestExecuteInfeasibleWithoutCuts(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusInfeasible},
		Objectives: []float64{0},
	})

	cfg := DefaultConfig()
	cfg.CutLP = false

	dec := startDecomposition(t, cfg, master, []*benderstest.Engine{engine})
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})

	result, infeasible, _, err := dec.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultInfeasible, result)
	require.True(t, infeasible)
	require.Empty(t, master.Constraints)
}

func TestExecuteAuxiliaryViolatedWithoutCuts(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 5},
	})

	cfg := DefaultConfig()
	cfg.CutLP = false

	dec := startDecomposition(t, cfg, master, []*benderstest.Engine{engine})

	// Subproblem cost 5 against an auxiliary value of 0: feasible, but the
	// auxiliary variable undervalues the subproblem.
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})
	result, infeasible, auxViolated, err := dec.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultFeasible, result)
	require.False(t, infeasible)
	require.True(t, auxViolated)
}

func TestExecuteSkipsCandidateWorseThanIncumbent(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 5},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})
	master.SetPrimalBound(10)
	solvesBefore := engine.Solves()

	sol := benderstest.NewCandidate(10, map[string]float64{"x": 1})
	result, infeasible, auxViolated, err := dec.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultDidNotRun, result)
	require.False(t, infeasible)
	require.False(t, auxViolated)

	// Nothing was solved and the call does not count.
	require.Equal(t, solvesBefore, engine.Solves())
	require.Equal(t, int64(0), dec.Calls())

	// A strictly better candidate is checked as usual.
	aux := dec.AuxiliaryVariable(0)
	sol = benderstest.NewCandidate(9, map[string]float64{"x": 1}).Set(aux.Name, 5)
	result, _, _, err = dec.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultFeasible, result)
	require.Equal(t, int64(1), dec.Calls())
}

func TestExecuteRoundRobinFraction(t *testing.T) {
	master := benderstest.NewMaster()
	engines := make([]*benderstest.Engine, 3)
	for i, name := range []string{"x0", "x1", "x2"} {
		_, err := master.AddVariable(name, 0, 10, 1)
		require.NoError(t, err)

		engines[i] = benderstest.NewEngine(benderstest.EngineScript{
			Variables:  []*types.Variable{contVar(name, 0, 10)},
			Statuses:   []types.SolveStatus{types.StatusOptimal},
			Objectives: []float64{5},
		})
	}

	cfg := DefaultConfig()
	cfg.SubproblemFraction = 0.34

	dec := startDecomposition(t, cfg, master, engines)
	sol := benderstest.NewCandidate(0, map[string]float64{"x0": 1, "x1": 1, "x2": 1})

	visits := func(fn func()) []int {
		before := make([]int, len(engines))
		for i, e := range engines {
			before[i] = e.Solves()
		}
		fn()
		var out []int
		for i, e := range engines {
			if e.Solves() > before[i] {
				out = append(out, i)
			}
		}

		return out
	}

	execute := func() {
		result, _, _, err := dec.Execute(context.Background(), sol, EnforceLP, false)
		require.NoError(t, err)
		require.Equal(t, ResultCutAdded, result)
	}

	// The first call always covers every subproblem.
	require.Equal(t, []int{0, 1, 2}, visits(execute))

	// ceil(3 * 0.34) = 2 per call afterwards, continuing from the cursor:
	// every subproblem is visited again within ceil(3/2) calls.
	require.Equal(t, []int{0, 1}, visits(execute))
	require.Equal(t, []int{0, 2}, visits(execute))
	require.Equal(t, []int{1, 2}, visits(execute))
}

func TestExecuteIndependentSubproblem(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	coupled := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 5},
	})
	// No variable of this engine appears in the master problem.
	independent := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("z", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal},
		Objectives: []float64{7},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{coupled, independent})

	require.False(t, dec.SubproblemIsIndependent(0))
	require.True(t, dec.SubproblemIsIndependent(1))

	// The independent subproblem was solved to optimality once during the
	// presolving analysis; its objective doubles as auxiliary lower bound.
	require.Equal(t, 1, independent.Solves())
	require.Equal(t, 7.0, dec.SubproblemLowerBound(1))
	require.Equal(t, 7.0, dec.AuxiliaryVariable(1).Lb)
	require.True(t, independent.Transformed)

	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1}).
		Set(dec.AuxiliaryVariable(0).Name, 5).
		Set(dec.AuxiliaryVariable(1).Name, 7)

	for i := 0; i < 2; i++ {
		result, infeasible, auxViolated, err := dec.Execute(context.Background(), sol, EnforceCheck, true)
		require.NoError(t, err)
		require.Equal(t, ResultFeasible, result)
		require.False(t, infeasible)
		require.False(t, auxViolated)
	}

	// Never re-solved, never torn down.
	require.Equal(t, 1, independent.Solves())
	require.True(t, independent.Transformed)
}

func TestExecuteDisabledSubproblem(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 5},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})
	dec.SetSubproblemEnabled(0, false)
	require.False(t, dec.SubproblemIsEnabled(0))
	solvesBefore := engine.Solves()

	// An unverifiable candidate cannot be accepted as incumbent, but with
	// no subproblem actually proven infeasible the flag stays down.
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})
	result, infeasible, _, err := dec.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultInfeasible, result)
	require.False(t, infeasible)
	require.Equal(t, solvesBefore, engine.Solves())
}

func TestExecuteUnboundedSubproblem(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusUnbounded},
		Objectives: []float64{0},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})

	result, _, _, err := dec.Execute(context.Background(), sol, EnforceLP, false)
	require.ErrorIs(t, err, ErrSubproblemUnbounded)
	require.Equal(t, ResultDidNotRun, result)

	// The failed pass still released the probing state.
	require.False(t, engine.Probing)
}

func TestExecuteLifecycleGuards(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables: []*types.Variable{contVar("x", 0, 10)},
		Statuses:  []types.SolveStatus{types.StatusOptimal},
	})

	cfg := DefaultConfig()
	dec, err := New("mip", &cfg, master, driver.NewByName(master, []types.SubproblemSolver{engine}))
	require.NoError(t, err)

	ctx := context.Background()
	sol := benderstest.NewCandidate(0, nil)

	_, _, _, err = dec.Execute(ctx, sol, EnforceLP, false)
	require.ErrorIs(t, err, ErrNotActive)

	require.NoError(t, dec.Activate(ctx, 1))
	_, _, _, err = dec.Execute(ctx, sol, EnforceLP, false)
	require.ErrorIs(t, err, ErrNotInitialized)

	require.NoError(t, dec.Initialize(ctx))
	require.ErrorIs(t, dec.Activate(ctx, 1), ErrAlreadyActive)
	require.ErrorIs(t, dec.Initialize(ctx), ErrAlreadyInitialized)

	require.NoError(t, dec.Deinitialize(ctx))
	require.ErrorIs(t, dec.Deinitialize(ctx), ErrNotInitialized)

	require.NoError(t, dec.Deactivate(ctx))
	require.ErrorIs(t, dec.Deactivate(ctx), ErrNotActive)
	require.False(t, dec.IsActive())
}

func TestExecuteInvalidGeneratorResult(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 5},
	})

	bad := &stubGenerator{
		name:     "bad",
		priority: 99999,
		lpCut:    true,
		generate: func(context.Context, types.DecompositionView, types.Solution, int, types.EnforcementKind) (types.Result, error) {
			return types.ResultSolveRelaxation, nil
		},
	}

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine}, WithCutGenerators(bad))
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})

	_, _, _, err = dec.Execute(context.Background(), sol, EnforceLP, false)
	require.ErrorIs(t, err, ErrInvalidResult)
}

func TestExecuteHooks(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)

	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{contVar("x", 0, 10)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 5},
	})

	var executed, solved, cutsAdded int
	h := &Hooks{
		OnExecuted: func(_ context.Context, kind EnforcementKind, infeasible bool) error {
			executed++
			require.Equal(t, EnforceLP, kind)
			require.False(t, infeasible)

			return nil
		},
		OnSubproblemSolved: func(_ context.Context, index int, status SolveStatus, objective float64) error {
			solved++
			require.Equal(t, 0, index)
			require.Equal(t, StatusOptimal, status)
			require.Equal(t, 5.0, objective)

			return nil
		},
		OnCutAdded: func(_ context.Context, generator string, index int) error {
			cutsAdded++
			require.Equal(t, "optimality", generator)
			require.Equal(t, 0, index)

			return nil
		},
	}

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine}, WithHooks(h))
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1})

	_, _, _, err = dec.Execute(context.Background(), sol, EnforceLP, false)
	require.NoError(t, err)
	require.Equal(t, 1, executed)
	require.Equal(t, 1, solved)
	require.Equal(t, 1, cutsAdded)
}

func TestExecuteRelaxesCouplingIntegrality(t *testing.T) {
	master := benderstest.NewMaster()
	_, err := master.AddIntegerVariable("x", 0, 1, 1)
	require.NoError(t, err)

	// The only discrete variable is the coupling variable, which setup
	// fixes anyway. Its integrality is relaxed on the first setup and the
	// subproblem is reclassified as convex without any explicit call.
	engine := benderstest.NewEngine(benderstest.EngineScript{
		Variables:  []*types.Variable{intVar("x", 0, 1)},
		Statuses:   []types.SolveStatus{types.StatusOptimal, types.StatusOptimal},
		Objectives: []float64{0, 5},
	})

	dec := startDecomposition(t, DefaultConfig(), master, []*benderstest.Engine{engine})
	require.False(t, dec.SubproblemIsConvex(0))

	aux := dec.AuxiliaryVariable(0)
	sol := benderstest.NewCandidate(0, map[string]float64{"x": 1}).Set(aux.Name, 5)

	result, infeasible, auxViolated, err := dec.Execute(context.Background(), sol, EnforceCheck, true)
	require.NoError(t, err)
	require.Equal(t, ResultFeasible, result)
	require.False(t, infeasible)
	require.False(t, auxViolated)

	require.True(t, dec.SubproblemIsConvex(0))
	require.False(t, engine.Variables()[0].Integral)

	// The relaxed solve already verified the reclassified subproblem, so
	// no full-form pass ran.
	require.Equal(t, []string{"relaxed", "relaxed"}, engine.SolveForms)
	require.False(t, engine.Transformed)
}

// stubGenerator is a configurable cut generator for protocol tests.
type stubGenerator struct {
	name     string
	priority int
	lpCut    bool
	generate func(ctx context.Context, dec types.DecompositionView, sol types.Solution, index int, kind types.EnforcementKind) (types.Result, error)
}

func (g *stubGenerator) Name() string  { return g.name }
func (g *stubGenerator) Priority() int { return g.priority }
func (g *stubGenerator) LPCut() bool   { return g.lpCut }

func (g *stubGenerator) Generate(ctx context.Context, dec types.DecompositionView, sol types.Solution, index int, kind types.EnforcementKind) (types.Result, error) {
	if g.generate == nil {
		return types.ResultDidNotRun, nil
	}

	return g.generate(ctx, dec, sol, index, kind)
}
