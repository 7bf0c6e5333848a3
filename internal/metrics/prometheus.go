package metrics

import (
	"strconv"
	"sync"

	"github.com/optkit/benders/types"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	execDuration    *prometheus.HistogramVec
	execResults     *prometheus.CounterVec
	reclassCounter  prometheus.Counter
	solveDuration   *prometheus.HistogramVec
	solveResults    *prometheus.CounterVec
	cutsGenerated   *prometheus.CounterVec
	cutsTransferred prometheus.Counter
	cutsDiscarded   prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (defaults to "benders" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "benders"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.execDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "coordinator",
			Name:      "execution_duration_seconds",
			Help:      "Duration of coordinator calls in seconds by enforcement kind.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms .. ~8s
		}, []string{"kind"})

		p.execResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "coordinator",
			Name:      "executions_total",
			Help:      "Total coordinator calls by enforcement kind and outcome.",
		}, []string{"kind", "infeasible"})

		p.reclassCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "coordinator",
			Name:      "convex_reclassifications_total",
			Help:      "Subproblems reclassified from non-convex to convex.",
		})

		p.solveDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "subproblem",
			Name:      "solve_duration_seconds",
			Help:      "Duration of subproblem solves in seconds by form.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"form"})

		p.solveResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "subproblem",
			Name:      "solves_total",
			Help:      "Total subproblem solves by form and terminal status.",
		}, []string{"form", "status"})

		p.cutsGenerated = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cuts",
			Name:      "generated_total",
			Help:      "Total cuts produced by generator name.",
		}, []string{"generator"})

		p.cutsTransferred = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cuts",
			Name:      "transferred_total",
			Help:      "Total stored cuts transferred to derived decompositions.",
		})

		p.cutsDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "cuts",
			Name:      "transfer_discarded_total",
			Help:      "Stored cuts dropped during transfer due to unmapped variables.",
		})

		p.reg.MustRegister(p.execDuration)
		p.reg.MustRegister(p.execResults)
		p.reg.MustRegister(p.reclassCounter)
		p.reg.MustRegister(p.solveDuration)
		p.reg.MustRegister(p.solveResults)
		p.reg.MustRegister(p.cutsGenerated)
		p.reg.MustRegister(p.cutsTransferred)
		p.reg.MustRegister(p.cutsDiscarded)
	})
}

// ExecutionMetrics implementation

// RecordExecution records one complete coordinator call.
func (p *PrometheusCollector) RecordExecution(kind string, infeasible bool, duration float64) {
	p.ensureRegistered()
	p.execDuration.WithLabelValues(kind).Observe(duration)
	p.execResults.WithLabelValues(kind, strconv.FormatBool(infeasible)).Inc()
}

// RecordConvexReclassification increments the reclassification counter.
func (p *PrometheusCollector) RecordConvexReclassification(_ /* index */ int) {
	p.ensureRegistered()
	p.reclassCounter.Inc()
}

// SubproblemMetrics implementation

// RecordSubproblemSolve records one subproblem solve.
func (p *PrometheusCollector) RecordSubproblemSolve(_ /* index */ int, form string, status string, duration float64) {
	p.ensureRegistered()
	p.solveDuration.WithLabelValues(form).Observe(duration)
	p.solveResults.WithLabelValues(form, status).Inc()
}

// CutMetrics implementation

// RecordCutGenerated increments the per-generator cut counter.
func (p *PrometheusCollector) RecordCutGenerated(generator string, _ /* index */ int) {
	p.ensureRegistered()
	p.cutsGenerated.WithLabelValues(generator).Inc()
}

// RecordCutTransfer records a cut transfer outcome.
func (p *PrometheusCollector) RecordCutTransfer(transferred, discarded int) {
	p.ensureRegistered()
	p.cutsTransferred.Add(float64(transferred))
	p.cutsDiscarded.Add(float64(discarded))
}
