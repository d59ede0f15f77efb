// Package cycle describes the labeled n-cycle that walks run on.
//
// The graph is never materialized: nodes are the integer labels 1..n arranged
// in a ring, and adjacency is computed by Neighbor.
package cycle

import (
	"errors"
	"fmt"
	"math"

	"github.com/nvandessel/clockwalk/internal/constants"
)

// ErrInvalidArgument is returned for out-of-range sizes, labels, probabilities
// and counts. It is the only error kind the simulation core reports for bad
// configuration.
var ErrInvalidArgument = errors.New("invalid argument")

// Direction is a single step around the cycle.
type Direction int

const (
	// Clockwise moves from label p to p+1, wrapping n to 1.
	Clockwise Direction = 1

	// Counterclockwise moves from label p to p-1, wrapping 1 to n.
	Counterclockwise Direction = -1
)

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	return -d
}

// String returns "clockwise" or "counterclockwise".
func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "clockwise"
	case Counterclockwise:
		return "counterclockwise"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Arrow returns a one-rune rendering used in path listings.
func (d Direction) Arrow() string {
	if d == Clockwise {
		return "→"
	}
	return "←"
}

// Neighbor returns the label adjacent to p in direction d on a cycle of n nodes.
// p must be a valid label; callers validate with ValidateLabel.
func Neighbor(n, p int, d Direction) int {
	if d == Clockwise {
		return p%n + 1
	}
	return (p-2+n)%n + 1
}

// Opposite returns the node diametrically across from p. For odd n there is
// no exact opposite and the node just past the half-way point clockwise is
// returned.
func Opposite(n, p int) int {
	return (p-1+n/2)%n + 1
}

// ValidateSize checks that a cycle of n nodes is large enough to walk on.
func ValidateSize(n int) error {
	if n < constants.MinPositions {
		return fmt.Errorf("cycle size %d is below minimum %d: %w", n, constants.MinPositions, ErrInvalidArgument)
	}
	return nil
}

// ValidateLabel checks that p is one of the labels 1..n.
func ValidateLabel(n, p int) error {
	if p < 1 || p > n {
		return fmt.Errorf("node %d outside 1..%d: %w", p, n, ErrInvalidArgument)
	}
	return nil
}

// ValidateProbability checks that p is a probability in [0, 1].
func ValidateProbability(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("clockwise probability %v outside [0, 1]: %w", p, ErrInvalidArgument)
	}
	return nil
}

// Labels returns the labels 1..n in ascending order.
func Labels(n int) []int {
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i + 1
	}
	return labels
}
