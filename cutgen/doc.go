// Package cutgen provides the built-in cut generators of the benders
// library.
//
// Three generators ship with the library:
//
//   - Optimality: a dual-based cut for a feasible but suboptimal relaxed
//     subproblem, bounding the auxiliary variable from below
//   - Feasibility: a Farkas-certificate cut for an infeasible relaxed
//     subproblem, excluding the rejecting region of the master
//   - IntegerOptimality: a binary no-good style optimality cut for
//     non-convex subproblems solved to discrete optimality
//
// Generators are stateless apart from a cut-naming counter, so one instance
// can serve a decomposition and its derived copies. Custom generators
// implement types.CutGenerator and are registered with
// benders.WithCutGenerators.
package cutgen
