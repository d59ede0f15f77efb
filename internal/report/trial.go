package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/nvandessel/clockwalk/internal/walk"
)

// TrialView is the JSON form of a single trial.
type TrialView struct {
	Start       int      `json:"start"`
	LastVisited int      `json:"last_visited"`
	Steps       int      `json:"steps"`
	Path        []int    `json:"path,omitempty"`
	Directions  []string `json:"directions,omitempty"`
	VisitOrder  []int    `json:"visit_order,omitempty"`
}

// NewTrialView builds the JSON view of r.
func NewTrialView(r walk.TrialResult) TrialView {
	v := TrialView{
		Start:       r.Start,
		LastVisited: r.LastVisited,
		Steps:       r.Steps,
	}
	if r.HasPath() {
		v.Path = r.Path()
		v.VisitOrder = r.VisitOrder()
		for _, d := range r.Directions() {
			v.Directions = append(v.Directions, d.String())
		}
	}
	return v
}

// PathLine renders the path with a direction arrow before each move, e.g.
// "12 → 1 ← 12 ← 11".
func PathLine(r walk.TrialResult) string {
	path, dirs := r.Path(), r.Directions()
	if len(path) == 0 {
		return ""
	}
	b := strings.Builder{}
	b.WriteString(strconv.Itoa(path[0]))
	for i, d := range dirs {
		fmt.Fprintf(&b, " %s %d", d.Arrow(), path[i+1])
	}
	return b.String()
}

// WriteTrace writes the step-by-step account of a recorded trial: each move,
// whether it reached a new node, and the running visited set.
func WriteTrace(w io.Writer, r walk.TrialResult) error {
	if !r.HasPath() {
		return fmt.Errorf("trial was run without path recording")
	}
	path, dirs := r.Path(), r.Directions()
	b := &strings.Builder{}

	fmt.Fprintf(b, "Step 0: Starting at position %d\n", path[0])
	visited := []int{path[0]}
	for i, d := range dirs {
		pos := path[i+1]
		step := i + 1
		first, _ := r.FirstVisit(pos)
		if first == step {
			visited = append(visited, pos)
			slices.Sort(visited)
			fmt.Fprintf(b, "Step %d: Moved %s to position %2d NEW!\n", step, d, pos)
			fmt.Fprintf(b, "          Visited: %v (%d/%d)\n", visited, len(visited), r.Size)
		} else {
			fmt.Fprintf(b, "Step %d: Moved %s to position %2d (already visited)\n", step, d, pos)
		}
	}
	fmt.Fprintf(b, "Last position to be colored: %d\n", r.LastVisited)
	fmt.Fprintf(b, "All positions visited in %d steps\n", r.Steps)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteTrialSummary writes a one-line summary of r.
func WriteTrialSummary(w io.Writer, index int, r walk.TrialResult) error {
	_, err := fmt.Fprintf(w, "Run %d: last=%d steps=%d\n", index, r.LastVisited, r.Steps)
	return err
}
