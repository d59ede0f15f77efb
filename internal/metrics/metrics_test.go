package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nvandessel/clockwalk/internal/walk"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_OnTrial(t *testing.T) {
	c := NewCollector()
	c.OnTrial(walk.TrialResult{LastVisited: 6, Steps: 40})
	c.OnTrial(walk.TrialResult{LastVisited: 6, Steps: 80})
	c.OnTrial(walk.TrialResult{LastVisited: 3, Steps: 20})

	assert.Equal(t, 3.0, testutil.ToFloat64(c.trials))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.lastVisited.WithLabelValues("6")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.lastVisited.WithLabelValues("3")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.coverSteps))
}

func TestCollector_Progress(t *testing.T) {
	c := NewCollector()
	c.OnProgress(250, 1000)
	assert.Equal(t, 0.25, testutil.ToFloat64(c.progress))

	c.OnProgress(5, 0)
	assert.Equal(t, 0.25, testutil.ToFloat64(c.progress), "zero total leaves the gauge unchanged")
}

func TestCollector_BatchFinished(t *testing.T) {
	c := NewCollector()
	c.BatchFinished(nil)
	c.BatchFinished(nil)
	c.BatchFinished(errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.batches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.batches.WithLabelValues("error")))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.OnTrial(walk.TrialResult{LastVisited: 11, Steps: 11})

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)
	assert.True(t, strings.Contains(out, `clockwalk_last_visited_total{node="11"} 1`), out)
	assert.Contains(t, out, "clockwalk_trials_total 1")
}

func TestCollector_IsolatedRegistries(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	a.OnTrial(walk.TrialResult{LastVisited: 2, Steps: 5})

	assert.Equal(t, 1.0, testutil.ToFloat64(a.trials))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.trials))
	assert.NotSame(t, a.Registry(), b.Registry())
}
