// Package report renders trial results and batch snapshots for people (text
// tables) and programs (JSON views). Renderers only read their inputs.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nvandessel/clockwalk/internal/aggregate"
	"github.com/nvandessel/clockwalk/internal/constants"
	"github.com/nvandessel/clockwalk/internal/cycle"
)

// BatchView is the JSON form of a batch snapshot.
type BatchView struct {
	RunID                string                `json:"run_id"`
	Positions            int                   `json:"num_positions"`
	Start                int                   `json:"start_position"`
	ClockwiseProbability float64               `json:"clockwise_probability"`
	Trials               int                   `json:"trials"`
	Distribution         []aggregate.NodeStats `json:"distribution"`
	Target               aggregate.TargetStats `json:"target"`
	Symmetry             []aggregate.NodeStats `json:"symmetry,omitempty"`
	Steps                aggregate.StepStats   `json:"cover_time"`
	Note                 string                `json:"note,omitempty"`
}

// NewBatchView builds the JSON view. symmetry lists extra nodes to report;
// nil selects DefaultSymmetryNodes.
func NewBatchView(snap *aggregate.Snapshot, symmetry []int) BatchView {
	if symmetry == nil {
		symmetry = DefaultSymmetryNodes(snap.Size(), snap.Start(), snap.TargetNode())
	}
	return BatchView{
		RunID:                snap.RunID(),
		Positions:            snap.Size(),
		Start:                snap.Start(),
		ClockwiseProbability: snap.ClockwiseProbability(),
		Trials:               snap.Trials(),
		Distribution:         snap.Rows(),
		Target:               snap.Target(),
		Symmetry:             snap.Symmetry(symmetry...),
		Steps:                snap.Steps(),
		Note:                 TheoryNote(snap),
	}
}

// DefaultSymmetryNodes picks the nodes the symmetry check compares: on the
// clock face these are 1, 3, 9 and the target; on other cycles the start's
// clockwise neighbor, the quarter points, and the target.
func DefaultSymmetryNodes(size, start, target int) []int {
	var nodes []int
	if size == constants.DefaultPositions && start == constants.DefaultPositions {
		nodes = []int{1, int(constants.PositionThree), int(constants.PositionNine)}
	} else {
		nodes = []int{
			cycle.Neighbor(size, start, cycle.Clockwise),
			(start-1+size/4)%size + 1,
			(start-1+3*size/4)%size + 1,
		}
	}
	nodes = append(nodes, target)

	out := nodes[:0]
	seen := make(map[int]bool, len(nodes))
	for _, n := range nodes {
		if n != start && !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// TheoryNote explains whether the 1/(n-1) comparator applies. It is empty
// for unbiased walks.
func TheoryNote(snap *aggregate.Snapshot) string {
	if _, ok := snap.Theoretical(); ok {
		return ""
	}
	return fmt.Sprintf("theoretical 1/(n-1) comparison omitted: it holds only for clockwise probability 0.5, got %g",
		snap.ClockwiseProbability())
}

// WriteBatch writes the distribution table, target summary, symmetry check
// and cover-time summary.
func WriteBatch(w io.Writer, snap *aggregate.Snapshot, symmetry []int) error {
	v := NewBatchView(snap, symmetry)
	b := &strings.Builder{}

	fmt.Fprintf(b, "Total simulations: %s\n", humanize.Comma(int64(v.Trials)))
	fmt.Fprintf(b, "Positions: %d   Start: %d   Clockwise probability: %.2f\n\n",
		v.Positions, v.Start, v.ClockwiseProbability)

	fmt.Fprintf(b, "%-12s %-12s %-15s %-12s\n", "Position", "Count", "Probability", "Percentage")
	fmt.Fprintln(b, strings.Repeat("-", 51))
	for _, row := range v.Distribution {
		fmt.Fprintf(b, "%-12d %-12s %-15.6f %.2f%%\n",
			row.Node, humanize.Comma(int64(row.Count)), row.Probability, row.Percentage)
	}
	fmt.Fprintln(b)

	writeTarget(b, v)

	if len(v.Symmetry) > 0 {
		fmt.Fprintln(b, "Symmetry check:")
		for _, row := range v.Symmetry {
			fmt.Fprintf(b, "  Prob(last=%d):%s%.6f\n", row.Node, pad(row.Node), row.Probability)
		}
		fmt.Fprintln(b)
	}

	fmt.Fprintf(b, "Cover time (steps): min %d, mean %.1f, max %d\n", v.Steps.Min, v.Steps.Mean, v.Steps.Max)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTarget(b *strings.Builder, v BatchView) {
	t := v.Target
	fmt.Fprintf(b, "Probability that %d is last: %.6f (%.2f%%)\n", t.Node, t.Probability, t.Percentage)
	if t.ApproxOneIn > 0 {
		fmt.Fprintf(b, "  (This is approximately 1/%.1f)\n", t.ApproxOneIn)
	}
	if t.TheoryValid {
		fmt.Fprintf(b, "  Theoretical 1/%d = %.6f, deviation %.6f\n", v.Positions-1, t.Theoretical, t.Deviation)
	} else {
		fmt.Fprintf(b, "  Note: %s\n", v.Note)
	}
	fmt.Fprintln(b)
}

// pad aligns two-digit labels in the symmetry listing.
func pad(node int) string {
	if node < 10 {
		return "  "
	}
	return " "
}

// ProgressLine formats a progress notification.
func ProgressLine(done, total int) string {
	return fmt.Sprintf("Completed %s / %s simulations...", humanize.Comma(int64(done)), humanize.Comma(int64(total)))
}
