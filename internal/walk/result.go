package walk

import (
	"slices"

	"github.com/nvandessel/clockwalk/internal/cycle"
)

// TrialResult is the outcome of one covering walk. It is immutable once
// returned: the slice accessors hand out copies.
type TrialResult struct {
	Start       int // Node the walk began on
	Size        int // Number of nodes on the cycle
	LastVisited int // Node whose first visit came last
	Steps       int // Steps taken until cover (the cover time)

	path       []int
	directions []cycle.Direction
	firstVisit []int
}

// HasPath reports whether the trial was run with Config.RecordPath.
func (r TrialResult) HasPath() bool {
	return r.path != nil
}

// Path returns the visited sequence, beginning with Start. Nil unless the
// trial recorded its path.
func (r TrialResult) Path() []int {
	return slices.Clone(r.path)
}

// Directions returns the direction of each step; len(Directions) == len(Path)-1.
func (r TrialResult) Directions() []cycle.Direction {
	return slices.Clone(r.directions)
}

// FirstVisit returns the step at which node was first reached, and false if
// the path was not recorded or node is not a label.
func (r TrialResult) FirstVisit(node int) (int, bool) {
	if r.firstVisit == nil || node < 1 || node >= len(r.firstVisit) {
		return 0, false
	}
	return r.firstVisit[node], true
}

// VisitOrder returns the nodes in the order they were first visited. The
// first element is Start and the last is LastVisited.
func (r TrialResult) VisitOrder() []int {
	if r.path == nil {
		return nil
	}
	seen := make([]bool, r.Size+1)
	order := make([]int, 0, r.Size)
	for _, p := range r.path {
		if !seen[p] {
			seen[p] = true
			order = append(order, p)
		}
	}
	return order
}
