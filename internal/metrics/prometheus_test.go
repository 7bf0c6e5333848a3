package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "")

	c.RecordExecution("lp", true, 0.05)
	c.RecordExecution("lp", true, 0.01)
	c.RecordExecution("check", false, 0.2)
	c.RecordConvexReclassification(0)
	c.RecordSubproblemSolve(0, "relaxed", "optimal", 0.01)
	c.RecordSubproblemSolve(1, "full", "infeasible", 0.4)
	c.RecordCutGenerated("optimality", 0)
	c.RecordCutGenerated("optimality", 1)
	c.RecordCutTransfer(3, 1)

	require.Equal(t, 2.0, testutil.ToFloat64(
		c.execResults.WithLabelValues("lp", "true")))
	require.Equal(t, 1.0, testutil.ToFloat64(
		c.execResults.WithLabelValues("check", "false")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.reclassCounter))
	require.Equal(t, 1.0, testutil.ToFloat64(
		c.solveResults.WithLabelValues("full", "infeasible")))
	require.Equal(t, 2.0, testutil.ToFloat64(
		c.cutsGenerated.WithLabelValues("optimality")))
	require.Equal(t, 3.0, testutil.ToFloat64(c.cutsTransferred))
	require.Equal(t, 1.0, testutil.ToFloat64(c.cutsDiscarded))
}

func TestPrometheusCollectorRegistersOnce(t *testing.T) {
	// MustRegister panics on duplicate registration; repeated records must
	// not re-register.
	reg := prometheus.NewRegistry()
	c := NewPrometheus(reg, "custom")

	require.NotPanics(t, func() {
		c.RecordExecution("lp", false, 0.01)
		c.RecordCutTransfer(1, 0)
		c.RecordConvexReclassification(2)
	})

	families, err := reg.Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "custom_coordinator_executions_total")
	require.Contains(t, names, "custom_cuts_transferred_total")
}

func TestNopMetrics(t *testing.T) {
	n := NewNop()

	// All methods are safe no-ops.
	n.RecordExecution("lp", false, 0.1)
	n.RecordConvexReclassification(0)
	n.RecordSubproblemSolve(0, "relaxed", "optimal", 0.1)
	n.RecordCutGenerated("optimality", 0)
	n.RecordCutTransfer(1, 1)
}
