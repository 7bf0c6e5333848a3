// Package benders provides a Benders' decomposition coordinator for
// mixed-integer optimization solvers.
//
// Benders' decomposition splits a master optimization problem from a family
// of subproblems that are solved repeatedly against trial master solutions.
// This package implements the coordination layer: deciding which subproblems
// to solve for a candidate, in what form (relaxed vs. full) and in how many
// passes, and driving a priority-ordered set of cut generators that turn
// infeasible or suboptimal subproblem outcomes into cutting planes added
// back to the master. The LP/MIP engines that actually solve the master and
// the subproblems are external collaborators behind small interfaces.
//
// # Quick Start
//
//	import (
//	    "github.com/optkit/benders"
//	    "github.com/optkit/benders/driver"
//	)
//
//	cfg := benders.DefaultConfig()
//	drv := driver.NewByName(master, engines) // one engine per subproblem
//
//	dec, err := benders.New("mip", &cfg, master, drv)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := dec.Activate(ctx, len(engines)); err != nil {
//	    log.Fatal(err)
//	}
//	if err := dec.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	if err := dec.InitPresolve(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Once per candidate master solution:
//	result, infeasible, auxViolated, err := dec.Execute(ctx, sol, benders.EnforceCheck, true)
//
// # Key Features
//
//   - Multi-pass execution protocol: relaxed solves first, full solves only
//     when a non-convex subproblem makes them necessary
//   - Round-robin partial checking: a configurable fraction of subproblems
//     per call with fairness across calls
//   - Built-in optimality, feasibility and integer optimality cut
//     generators, extensible through the CutGenerator interface
//   - Independent subproblem detection: decoupled subproblems are solved
//     once and their objective bounds the auxiliary variable permanently
//   - Derived copies for large-neighborhood search with best-effort cut
//     transfer back to the source context
//
// # Architecture
//
// A Decomposition owns one subproblem handle per subproblem and the sorted
// cut generators. The host calls Execute once per candidate; the protocol
// runs setup, solve and teardown on each checked handle:
//
//	NotSetUp → SetUp → Solved → (teardown) → NotSetUp
//
// Cut generators observe the solved subproblems through the
// types.DecompositionView interface and add cuts through AddCut.
//
// # Advanced Usage
//
// Custom generators and observability:
//
//	gen := mycuts.NewCombinatorial()
//
//	dec, err := benders.New("mip", &cfg, master, drv,
//	    benders.WithCutGenerators(gen),
//	    benders.WithLogger(logging.NewSlogDefault()),
//	    benders.WithMetrics(metrics.NewPrometheus(nil, "benders")),
//	)
//
// Drivers can opt into lifecycle and solving callbacks by implementing the
// optional capability interfaces in the types package (Initializer,
// PreSolveHook, RelaxedSolver, FullSolver, SubproblemReleaser).
package benders
