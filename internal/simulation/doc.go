// Package simulation provides a multi-round test harness for validating the
// statistical behavior of covering walks.
//
// The harness exercises the real walk Engine and batch aggregator with no
// mocks. Scenarios describe a walk and batch configuration run for a number
// of rounds, each with its own seed, and capture every round's snapshot for
// property-based assertions.
//
// Usage:
//
//	func TestClockFaceUniform(t *testing.T) {
//	    r := simulation.NewRunner(t)
//	    result := r.Run(simulation.Scenario{
//	        Name:   "clock-face",
//	        Trials: 20000,
//	        Rounds: 3,
//	    })
//	    simulation.AssertProbabilityWithin(t, result, 6, 0.08, 0.10)
//	}
package simulation
