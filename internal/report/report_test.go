package report

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/nvandessel/clockwalk/internal/aggregate"
	"github.com/nvandessel/clockwalk/internal/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runBatch(t *testing.T, p float64, trials int) *aggregate.Snapshot {
	t.Helper()
	cfg := aggregate.DefaultBatchConfig()
	cfg.Walk.ClockwiseProbability = p
	cfg.Trials = trials
	snap, err := aggregate.RunBatch(context.Background(), cfg, walk.NewRand(8, 8))
	require.NoError(t, err)
	return snap
}

func TestDefaultSymmetryNodes(t *testing.T) {
	tests := []struct {
		name                string
		size, start, target int
		want                []int
	}{
		{"clock face", 12, 12, 6, []int{1, 3, 9, 6}},
		{"clock target duplicates", 12, 12, 3, []int{1, 3, 9}},
		{"other start", 12, 1, 7, []int{2, 4, 10, 7}},
		{"target is start", 8, 8, 8, []int{1, 2, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DefaultSymmetryNodes(tt.size, tt.start, tt.target))
		})
	}
}

func TestWriteBatch_Unbiased(t *testing.T) {
	snap := runBatch(t, 0.5, 20000)

	var buf bytes.Buffer
	require.NoError(t, WriteBatch(&buf, snap, nil))
	out := buf.String()

	assert.Contains(t, out, "Total simulations: 20,000")
	assert.Contains(t, out, "Position     Count        Probability     Percentage")
	assert.Contains(t, out, "Probability that 6 is last:")
	assert.Contains(t, out, "approximately 1/")
	assert.Contains(t, out, "Theoretical 1/11 = 0.090909")
	assert.Contains(t, out, "Prob(last=3):")
	assert.Contains(t, out, "Cover time (steps):")
	assert.NotContains(t, out, "Note:")

	// Rows appear in ascending label order.
	idx1 := strings.Index(out, "\n1 ")
	idx11 := strings.Index(out, "\n11 ")
	require.Positive(t, idx1)
	require.Positive(t, idx11)
	assert.Less(t, idx1, idx11)
}

func TestWriteBatch_BiasedNotesTheory(t *testing.T) {
	snap := runBatch(t, 1.0, 100)

	var buf bytes.Buffer
	require.NoError(t, WriteBatch(&buf, snap, []int{11}))
	out := buf.String()

	assert.Contains(t, out, "Note: theoretical 1/(n-1) comparison omitted")
	assert.NotContains(t, out, "Theoretical 1/11")
	assert.Contains(t, out, "11           100          1.000000        100.00%")
}

func TestNewBatchView_JSON(t *testing.T) {
	snap := runBatch(t, 0.5, 500)

	data, err := json.Marshal(NewBatchView(snap, nil))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(500), decoded["trials"])
	assert.Equal(t, float64(12), decoded["num_positions"])
	assert.NotEmpty(t, decoded["run_id"])
	target := decoded["target"].(map[string]any)
	assert.Equal(t, float64(6), target["position"])
	assert.Equal(t, true, target["theory_valid"])
	assert.NotContains(t, decoded, "note")
}

func TestProgressLine(t *testing.T) {
	assert.Equal(t, "Completed 1,000 / 50,000 simulations...", ProgressLine(1000, 50000))
}

func TestPathLineAndTrace(t *testing.T) {
	cfg := walk.Config{Size: 4, Start: 4, ClockwiseProbability: 1.0, RecordPath: true}
	r, err := walk.Run(cfg, walk.NewRand(1, 1))
	require.NoError(t, err)

	assert.Equal(t, "4 → 1 → 2 → 3", PathLine(r))

	var buf bytes.Buffer
	require.NoError(t, WriteTrace(&buf, r))
	out := buf.String()
	assert.Contains(t, out, "Step 0: Starting at position 4")
	assert.Contains(t, out, "Step 1: Moved clockwise to position  1 NEW!")
	assert.Contains(t, out, "Visited: [1 2 3 4] (4/4)")
	assert.Contains(t, out, "Last position to be colored: 3")
	assert.Contains(t, out, "All positions visited in 3 steps")
}

func TestWriteTrace_AlreadyVisited(t *testing.T) {
	cfg := walk.Config{Size: 5, Start: 1, ClockwiseProbability: 0.5, RecordPath: true}
	rng := walk.NewRand(10, 10)
	// Find a trial that revisits a node.
	for i := 0; i < 100; i++ {
		r, err := walk.Run(cfg, rng)
		require.NoError(t, err)
		if r.Steps == r.Size-1 {
			continue
		}
		var buf bytes.Buffer
		require.NoError(t, WriteTrace(&buf, r))
		assert.Contains(t, buf.String(), "(already visited)")
		return
	}
	t.Fatal("no trial revisited a node")
}

func TestWriteTrace_RequiresPath(t *testing.T) {
	r, err := walk.Run(walk.DefaultConfig(), walk.NewRand(1, 1))
	require.NoError(t, err)
	assert.Error(t, WriteTrace(&bytes.Buffer{}, r))
	assert.Empty(t, PathLine(r))
}

func TestNewTrialView(t *testing.T) {
	cfg := walk.Config{Size: 3, Start: 1, ClockwiseProbability: 0, RecordPath: true}
	r, err := walk.Run(cfg, walk.NewRand(1, 1))
	require.NoError(t, err)

	v := NewTrialView(r)
	assert.Equal(t, TrialView{
		Start:       1,
		LastVisited: 2,
		Steps:       2,
		Path:        []int{1, 3, 2},
		Directions:  []string{"counterclockwise", "counterclockwise"},
		VisitOrder:  []int{1, 3, 2},
	}, v)
}
