package benders

import "errors"

// Sentinel errors returned by the Decomposition.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMasterRequired is returned when the master problem is nil.
	ErrMasterRequired = errors.New("master problem is required")

	// ErrDriverRequired is returned when the driver is nil.
	ErrDriverRequired = errors.New("driver is required")

	// ErrConfiguration is returned when a driver declares an inconsistent set
	// of capabilities, such as a custom solve without a matching release.
	ErrConfiguration = errors.New("inconsistent driver capabilities")

	// ErrAlreadyActive is returned when Activate is called on an active decomposition.
	ErrAlreadyActive = errors.New("decomposition already active")

	// ErrNotActive is returned for operations that require an active decomposition.
	ErrNotActive = errors.New("decomposition not active")

	// ErrNotInitialized is returned for operations that require Initialize to have run.
	ErrNotInitialized = errors.New("decomposition not initialized")

	// ErrAlreadyInitialized is returned when Initialize is called twice.
	ErrAlreadyInitialized = errors.New("decomposition already initialized")

	// ErrNotSetUp is returned when a subproblem solve is requested before the
	// subproblem was set up with a candidate solution.
	ErrNotSetUp = errors.New("subproblem not set up")

	// ErrInvalidResult is returned when a cut generator or a custom solving
	// callback reports a result outside its allowed set.
	ErrInvalidResult = errors.New("invalid result code")

	// ErrSubproblemUnbounded is returned when a subproblem solve terminates
	// unbounded, which indicates an ill-posed decomposition.
	ErrSubproblemUnbounded = errors.New("subproblem is unbounded")

	// ErrGeneratorExists is returned when registering a cut generator whose
	// name is already taken.
	ErrGeneratorExists = errors.New("cut generator already registered")

	// ErrNoCutFound is returned by generators that ran but could not produce
	// a cut from an infeasible or suboptimal subproblem.
	ErrNoCutFound = errors.New("no cut could be generated")
)
