package walk

import "github.com/nvandessel/clockwalk/internal/cycle"

// State is the phase of a single trial.
type State int

const (
	// Walking is the initial phase; the walk keeps stepping while some node
	// is unvisited.
	Walking State = iota

	// Covered is terminal: every node has been visited.
	Covered
)

func (s State) String() string {
	if s == Covered {
		return "covered"
	}
	return "walking"
}

// walkState is the mutable state of one trial. It is created per Run and
// discarded once the result is produced.
type walkState struct {
	size         int
	start        int
	current      int
	visited      []bool // indexed by label; slot 0 unused
	visitedCount int
	steps        int
	lastNew      int
	phase        State

	record     bool
	path       []int
	directions []cycle.Direction
	firstVisit []int // indexed by label; slot 0 unused
}

func newState(c Config) *walkState {
	st := &walkState{
		size:         c.Size,
		start:        c.Start,
		current:      c.Start,
		visited:      make([]bool, c.Size+1),
		visitedCount: 1,
		lastNew:      c.Start,
		phase:        Walking,
		record:       c.RecordPath,
	}
	st.visited[c.Start] = true
	if st.record {
		st.path = []int{c.Start}
		st.firstVisit = make([]int, c.Size+1)
		for i := range st.firstVisit {
			st.firstVisit[i] = -1
		}
		st.firstVisit[c.Start] = 0
	}
	if st.visitedCount == st.size {
		st.phase = Covered
	}
	return st
}

// step moves one node in direction d and records a first visit if any.
func (st *walkState) step(d cycle.Direction) {
	st.current = cycle.Neighbor(st.size, st.current, d)
	st.steps++
	if st.record {
		st.path = append(st.path, st.current)
		st.directions = append(st.directions, d)
	}
	if st.visited[st.current] {
		return
	}
	st.visited[st.current] = true
	st.visitedCount++
	st.lastNew = st.current
	if st.record {
		st.firstVisit[st.current] = st.steps
	}
	if st.visitedCount == st.size {
		st.phase = Covered
	}
}

func (st *walkState) result() TrialResult {
	r := TrialResult{
		Start:       st.start,
		Size:        st.size,
		LastVisited: st.lastNew,
		Steps:       st.steps,
	}
	if st.record {
		r.path = st.path
		r.directions = st.directions
		r.firstVisit = st.firstVisit
	}
	return r
}
