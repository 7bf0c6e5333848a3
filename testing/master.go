package testing

import (
	"sync"

	"github.com/optkit/benders/types"
	"github.com/puzpuzpuz/xsync/v4"
)

// Master is an in-memory master problem. The variable namespace is a
// concurrent map so tests can exercise the statistics accessors from other
// goroutines while a protocol call mutates the master.
type Master struct {
	vars  *xsync.Map[string, *types.Variable]
	mu    sync.Mutex
	order []*types.Variable

	// Constraints and Rows record every added cut, in order.
	Constraints []*types.LinearCut
	Rows        []*types.LinearCut

	primalBound float64
	depth       int
}

// Compile-time assertion that Master implements MasterProblem.
var _ types.MasterProblem = (*Master)(nil)

// NewMaster creates an empty fake master with an unknown primal bound.
func NewMaster() *Master {
	return &Master{
		vars:        xsync.NewMap[string, *types.Variable](),
		primalBound: types.Infinity(),
	}
}

// AddVariable creates a variable and registers it in the namespace.
func (m *Master) AddVariable(name string, lb, ub, obj float64) (*types.Variable, error) {
	v := &types.Variable{Name: name, Lb: lb, Ub: ub, Obj: obj}
	m.vars.Store(name, v)

	m.mu.Lock()
	m.order = append(m.order, v)
	m.mu.Unlock()

	return v, nil
}

// AddIntegerVariable creates an integral variable, a convenience for test
// setups with binary coupling variables.
func (m *Master) AddIntegerVariable(name string, lb, ub, obj float64) (*types.Variable, error) {
	v, _ := m.AddVariable(name, lb, ub, obj)
	v.Integral = true

	return v, nil
}

// FindVariable returns the variable with the given name, or nil.
func (m *Master) FindVariable(name string) *types.Variable {
	v, _ := m.vars.Load(name)

	return v
}

// Variables returns all variables in insertion order.
func (m *Master) Variables() []*types.Variable {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*types.Variable, len(m.order))
	copy(out, m.order)

	return out
}

// AddConstraint records a cut added as a constraint.
func (m *Master) AddConstraint(cut *types.LinearCut) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Constraints = append(m.Constraints, cut)

	return nil
}

// AddRow records a cut added as a separating row.
func (m *Master) AddRow(cut *types.LinearCut) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rows = append(m.Rows, cut)

	return nil
}

// PrimalBound returns the configured incumbent objective.
func (m *Master) PrimalBound() float64 { return m.primalBound }

// SetPrimalBound configures the incumbent objective.
func (m *Master) SetPrimalBound(bound float64) { m.primalBound = bound }

// SearchDepth returns the configured search depth.
func (m *Master) SearchDepth() int { return m.depth }

// SetSearchDepth configures the search depth.
func (m *Master) SetSearchDepth(depth int) { m.depth = depth }
