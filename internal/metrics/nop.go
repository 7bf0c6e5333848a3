package metrics

import "github.com/optkit/benders/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external
// metrics collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ExecutionMetrics implementation

// RecordExecution discards the coordinator call metric.
func (n *NopMetrics) RecordExecution(_ /* kind */ string, _ /* infeasible */ bool, _ /* duration */ float64) {
	// No-op
}

// RecordConvexReclassification discards the reclassification metric.
func (n *NopMetrics) RecordConvexReclassification(_ /* index */ int) {
	// No-op
}

// SubproblemMetrics implementation

// RecordSubproblemSolve discards the subproblem solve metric.
func (n *NopMetrics) RecordSubproblemSolve(_ /* index */ int, _ /* form */, _ /* status */ string, _ /* duration */ float64) {
	// No-op
}

// CutMetrics implementation

// RecordCutGenerated discards the cut generation metric.
func (n *NopMetrics) RecordCutGenerated(_ /* generator */ string, _ /* index */ int) {
	// No-op
}

// RecordCutTransfer discards the cut transfer metric.
func (n *NopMetrics) RecordCutTransfer(_ /* transferred */, _ /* discarded */ int) {
	// No-op
}
