package benders

import (
	"math"

	"github.com/optkit/benders/types"
)

// The multi-pass structure of the execution protocol is computed by the
// pure functions in this file, so the promotion rules can be tested in
// isolation from the solving machinery.

// initialLoopCount returns the number of solve passes to plan before any
// subproblem has been solved. Two passes (relaxed then full) are needed
// once a non-convex subproblem exists and integer feasibility is being
// checked, except for pseudo-solution enforcement where the full pass is
// deferred until the relaxed pass proves it necessary, and for LNS
// convex-only checking where relaxed verification is sufficient.
func initialLoopCount(kind types.EnforcementKind, checkInt, hasNonConvex, convexOnly bool) int {
	if checkInt && hasNonConvex && !convexOnly && kind != types.EnforcePseudo {
		return 2
	}

	return 1
}

// nextLoopCount applies the promotion rule after a finished pass: when a
// single planned pass produced no cuts at all but non-convex subproblems
// remain unverified, a full-form pass is appended so the candidate can
// still be rejected or proven feasible in native form.
func nextLoopCount(current, loop, cutsThisLoop int, checkInt, hasNonConvex, convexOnly bool) int {
	if loop == 0 && current == 1 && cutsThisLoop == 0 && checkInt && hasNonConvex && !convexOnly {
		return 2
	}

	return current
}

// pseudoLoopCount is the promotion rule for pseudo-solution enforcement,
// where no cuts are generated: a full-form pass is appended once the
// relaxed pass found no infeasibility, since only a native solve can still
// reject the candidate.
func pseudoLoopCount(current int, infeasible, checkInt, hasNonConvex, convexOnly bool) int {
	if !infeasible && checkInt && hasNonConvex && !convexOnly {
		return 2
	}

	return current
}

// passForLoop maps a loop index to its pass kind. A driver carrying any
// custom solving method owns both loops: whichever method is absent
// reports ResultDidNotRun for its pass instead of falling back to the
// built-in engine solves, which the driver may not support at all.
func passForLoop(loop int, userRelaxed, userFull bool) types.PassKind {
	custom := userRelaxed || userFull

	if loop == 0 {
		if custom {
			return types.PassUserRelaxed
		}

		return types.PassRelaxed
	}

	if custom {
		return types.PassUserFull
	}

	return types.PassFull
}

// checkedWindow returns the number of subproblems to check this call. The
// full set is checked on the very first call, for incumbent verification,
// and in LNS convex-only mode; otherwise the configured fraction applies.
func checkedWindow(n int, frac float64, firstCall bool, kind types.EnforcementKind, convexOnly bool) int {
	if firstCall || kind == types.EnforceCheck || convexOnly {
		return n
	}

	w := int(math.Ceil(float64(n) * frac))
	if w < 1 {
		w = 1
	}
	if w > n {
		w = n
	}

	return w
}
