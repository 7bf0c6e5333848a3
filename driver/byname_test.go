package driver_test

import (
	"testing"

	"github.com/optkit/benders/driver"
	benderstest "github.com/optkit/benders/testing"
	"github.com/optkit/benders/types"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	master := benderstest.NewMaster()
	mx, err := master.AddVariable("x", 0, 10, 1)
	require.NoError(t, err)
	my, err := master.AddVariable("y", 0, 10, 1)
	require.NoError(t, err)

	e0 := benderstest.NewEngine(benderstest.EngineScript{
		Variables: []*types.Variable{
			{Name: "x", Lb: 0, Ub: 10},
			{Name: "local", Lb: 0, Ub: 1},
		},
	})
	e1 := benderstest.NewEngine(benderstest.EngineScript{
		Variables: []*types.Variable{{Name: "y", Lb: 0, Ub: 10}},
	})

	d := driver.NewByName(master, []types.SubproblemSolver{e0, e1})
	require.Equal(t, 2, d.NumSubproblems())

	t.Run("create subproblem", func(t *testing.T) {
		engine, err := d.CreateSubproblem(0)
		require.NoError(t, err)
		require.Same(t, e0, engine)

		_, err = d.CreateSubproblem(2)
		require.Error(t, err)
		_, err = d.CreateSubproblem(-1)
		require.Error(t, err)
	})

	t.Run("master variable", func(t *testing.T) {
		sx := e0.Variables()[0]
		require.Same(t, mx, d.MasterVariable(sx))

		// Subproblem-local variables have no master counterpart.
		require.Nil(t, d.MasterVariable(e0.Variables()[1]))
	})

	t.Run("subproblem variable", func(t *testing.T) {
		require.Same(t, e0.Variables()[0], d.SubproblemVariable(mx, 0))
		require.Same(t, e1.Variables()[0], d.SubproblemVariable(my, 1))

		// x does not appear in subproblem 1.
		require.Nil(t, d.SubproblemVariable(mx, 1))
		require.Nil(t, d.SubproblemVariable(mx, 5))
	})
}
