// Package constants provides named constants used throughout the clockwalk codebase.
// This centralizes magic numbers for better maintainability and documentation.
package constants

// Cycle geometry defaults. The default cycle is a clock face.
const (
	// DefaultPositions is the number of labeled nodes on the cycle.
	DefaultPositions = 12

	// DefaultTarget is the node whose last-visited probability is reported.
	// On the default clock it sits opposite the start position.
	DefaultTarget = 6

	// MinPositions is the smallest cycle for which the covering-walk question
	// has more than one candidate for the last node.
	MinPositions = 3
)

// Walk and batch defaults
const (
	// DefaultClockwiseProbability is the unbiased step probability.
	DefaultClockwiseProbability = 0.5

	// DefaultTrials is the batch size used by the reference runs.
	DefaultTrials = 50000

	// DefaultProgressInterval is the number of completed trials between
	// progress notifications for large batches.
	DefaultProgressInterval = 1000

	// ProgressFraction caps the progress interval for small batches so that
	// at least ten notifications are emitted.
	ProgressFraction = 10
)

// Reporting constants
const (
	// UnbiasedProbability is the only clockwise probability for which the
	// 1/(n-1) symmetry result holds.
	UnbiasedProbability = 0.5
)
