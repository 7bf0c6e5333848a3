package benders

import "github.com/optkit/benders/types"

// Re-export types from the internal types package.
//
// This file provides a stable, backward-compatible public API for the library's
// core types and interfaces. It uses type aliases to re-export definitions
// from the `types` subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal packages
// to depend on `types` without depending on the root `benders` package, while
// still providing a convenient `benders.Result`, `benders.Logger`, etc. for users.
type (
	EnforcementKind = types.EnforcementKind
	Result          = types.Result
	PassKind        = types.PassKind
	SolveStatus     = types.SolveStatus
	Variable        = types.Variable
	Coefficient     = types.Coefficient
	LinearCut       = types.LinearCut
	CutStore        = types.CutStore
	ConstraintDual  = types.ConstraintDual
)

// Re-export interfaces from the internal types package for convenience.
type (
	Driver            = types.Driver
	SubproblemSolver  = types.SubproblemSolver
	MasterProblem     = types.MasterProblem
	Solution          = types.Solution
	CutGenerator      = types.CutGenerator
	DecompositionView = types.DecompositionView
	DualProvider      = types.DualProvider
	FarkasProvider    = types.FarkasProvider
	ObjectiveLimiter  = types.ObjectiveLimiter
	MetricsCollector  = types.MetricsCollector
	Logger            = types.Logger
	Hooks             = types.Hooks
)

// Re-export enumeration constants from the internal types package.
const (
	EnforceLP     = types.EnforceLP
	EnforceRelax  = types.EnforceRelax
	EnforcePseudo = types.EnforcePseudo
	EnforceCheck  = types.EnforceCheck

	ResultDidNotRun       = types.ResultDidNotRun
	ResultFeasible        = types.ResultFeasible
	ResultInfeasible      = types.ResultInfeasible
	ResultCutAdded        = types.ResultCutAdded
	ResultSeparated       = types.ResultSeparated
	ResultSolveRelaxation = types.ResultSolveRelaxation

	PassRelaxed     = types.PassRelaxed
	PassFull        = types.PassFull
	PassUserRelaxed = types.PassUserRelaxed
	PassUserFull    = types.PassUserFull

	StatusUnknown       = types.StatusUnknown
	StatusOptimal       = types.StatusOptimal
	StatusInfeasible    = types.StatusInfeasible
	StatusUnbounded     = types.StatusUnbounded
	StatusInterrupted   = types.StatusInterrupted
	StatusSolutionLimit = types.StatusSolutionLimit
)

// Infinity returns the value used to represent unbounded variable domains.
func Infinity() float64 { return types.Infinity() }
