// Package types defines the shared types and interfaces used across the
// benders library.
//
// This package contains the contracts between the decomposition coordinator,
// the cut generator plugins, and the external collaborators (the subproblem
// solve engines and the master problem). Subpackages such as cutgen and
// driver depend on types without depending on the root benders package,
// which avoids import cycles while the root package re-exports the common
// definitions for convenience.
package types
