package hooks

import (
	"context"

	"github.com/optkit/benders/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// Compile-time assertions that NopHooks implements hook callbacks.
var (
	_ func(context.Context, types.EnforcementKind, bool) error     = (*NopHooks)(nil).OnExecuted
	_ func(context.Context, int, types.SolveStatus, float64) error = (*NopHooks)(nil).OnSubproblemSolved
	_ func(context.Context, string, int) error                     = (*NopHooks)(nil).OnCutAdded
	_ func(context.Context, *types.LinearCut) error                = (*NopHooks)(nil).OnCutTransferred
)

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnExecuted:         h.OnExecuted,
		OnSubproblemSolved: h.OnSubproblemSolved,
		OnCutAdded:         h.OnCutAdded,
		OnCutTransferred:   h.OnCutTransferred,
	}
}

// OnExecuted is a no-op implementation.
func (h *NopHooks) OnExecuted(ctx context.Context, kind types.EnforcementKind, infeasible bool) error {
	return nil
}

// OnSubproblemSolved is a no-op implementation.
func (h *NopHooks) OnSubproblemSolved(ctx context.Context, index int, status types.SolveStatus, objective float64) error {
	return nil
}

// OnCutAdded is a no-op implementation.
func (h *NopHooks) OnCutAdded(ctx context.Context, generator string, index int) error {
	return nil
}

// OnCutTransferred is a no-op implementation.
func (h *NopHooks) OnCutTransferred(ctx context.Context, cut *types.LinearCut) error {
	return nil
}
