// Package testing provides test utilities for the benders library.
//
// This package offers in-memory fakes for the two external collaborators of
// a decomposition, following Go's convention of a dedicated testing package
// (similar to net/http/httptest):
//
//   - Engine: a scriptable subproblem solve engine with canned statuses,
//     objectives and dual solutions
//   - Master: an in-memory master problem recording added variables,
//     constraints and rows
//   - Candidate: a map-backed candidate solution
//
// Example usage:
//
//	import (
//	    "testing"
//	    benderstest "github.com/optkit/benders/testing"
//	)
//
//	func TestMyGenerator(t *testing.T) {
//	    master := benderstest.NewMaster()
//	    engine := benderstest.NewEngine(benderstest.EngineScript{
//	        Statuses: []types.SolveStatus{types.StatusOptimal},
//	        Objectives: []float64{4.5},
//	    })
//	    // ...
//	}
package testing
