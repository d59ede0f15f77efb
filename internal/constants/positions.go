package constants

import "fmt"

// Position is a named reference point on the default clock face.
type Position int

// Quarter positions of the default clock.
const (
	PositionTwelve Position = 12
	PositionThree  Position = 3
	PositionSix    Position = 6
	PositionNine   Position = 9
)

// Valid returns true if p is a label on a cycle of n nodes.
func (p Position) Valid(n int) bool {
	return int(p) >= 1 && int(p) <= n
}

// String renders the position as an o'clock label when it fits the default
// clock face, and as a bare label otherwise.
func (p Position) String() string {
	if p.Valid(DefaultPositions) {
		return fmt.Sprintf("%d o'clock", int(p))
	}
	return fmt.Sprintf("%d", int(p))
}
