package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hindsight/agent"
	"github.com/samuelfneumann/hindsight/environment"
	"github.com/samuelfneumann/hindsight/environment/goalgrid"
	"github.com/samuelfneumann/hindsight/experiment/tracker"
	"github.com/samuelfneumann/hindsight/expreplay"
	ts "github.com/samuelfneumann/hindsight/timestep"
)

// scriptedPolicy cycles through a fixed list of actions
type scriptedPolicy struct {
	actions []float64
	i       int
}

func (s *scriptedPolicy) SelectAction(ts.TimeStep) *mat.VecDense {
	a := s.actions[s.i%len(s.actions)]
	s.i++
	return mat.NewVecDense(1, []float64{a})
}

func (s *scriptedPolicy) Eval()        {}
func (s *scriptedPolicy) Train()       {}
func (s *scriptedPolicy) IsEval() bool { return false }

func newGrid(t *testing.T, goalX, goalY float64,
	steps int) environment.Environment {
	t.Helper()
	g, _, err := goalgrid.New(3, 3,
		environment.NewSingleStarter(mat.NewVecDense(2, nil)),
		environment.NewSingleStarter(mat.NewVecDense(2,
			[]float64{goalX, goalY})),
		environment.NewStepLimit(steps), 1)
	require.NoError(t, err)
	return g
}

func newStore(t *testing.T) *expreplay.Episodic {
	t.Helper()
	store, err := expreplay.NewEpisodic(0, 1)
	require.NoError(t, err)
	return store
}

func TestCollectorRecordsTerminalEpisode(t *testing.T) {
	store := newStore(t)
	policy := &scriptedPolicy{actions: []float64{goalgrid.Right}}
	c := NewCollector(newGrid(t, 2, 0, 10), policy, store, 100, nil)

	ended, err := c.RunEpisode()
	require.NoError(t, err)
	assert.False(t, ended)

	require.Equal(t, 1, store.NumEpisodes())
	ep := store.Episodes()[0]
	require.Len(t, ep, 2)
	assert.False(t, ep[0].Terminal)
	assert.True(t, ep[1].Terminal)
	assert.Equal(t, 0.0, ep[1].Reward)

	// Transitions chain observations
	assert.True(t, ep[0].NextState.Equal(ep[1].State))
	assert.Equal(t, 0, store.CurrentEpisodeLen())
}

func TestCollectorStopsTimedOutEpisodes(t *testing.T) {
	store := newStore(t)
	policy := &scriptedPolicy{actions: []float64{goalgrid.Left}}
	ret := tracker.NewReturn()
	c := NewCollector(newGrid(t, 2, 2, 3), policy, store, 100, nil, ret)

	require.NoError(t, c.CollectEpisodes(2))
	assert.Equal(t, 2, c.Episodes())
	assert.Equal(t, uint(6), c.Steps())

	require.Equal(t, 2, store.NumEpisodes())
	for _, ep := range store.Episodes() {
		require.Len(t, ep, 3)
		assert.False(t, ep.Last().Terminal, "timeouts are not terminal")
	}
	assert.Equal(t, []float64{-3, -3}, ret.Data())
}

func TestCollectorStepLimit(t *testing.T) {
	store := newStore(t)
	policy := &scriptedPolicy{actions: []float64{goalgrid.Left}}
	length := tracker.NewEpisodeLength()
	c := NewCollector(newGrid(t, 2, 2, 4), policy, store, 10, nil)
	c.Register(length)

	require.NoError(t, c.Run())
	assert.Equal(t, uint(10), c.Steps())
	assert.Equal(t, 3, c.Episodes())
	assert.Equal(t, 10, store.Len())
	assert.Equal(t, []float64{4, 4}, length.Data(),
		"the cut-short episode never reaches its last step")

	ended, err := c.RunEpisode()
	require.NoError(t, err)
	assert.True(t, ended)
	assert.Equal(t, 3, c.Episodes())
}

func TestCollectorPropagatesEnvironmentErrors(t *testing.T) {
	policy := &scriptedPolicy{actions: []float64{7}}
	c := NewCollector(newGrid(t, 2, 2, 4), policy, newStore(t), 10, nil)

	_, err := c.RunEpisode()
	assert.Error(t, err)
}

func TestCollectorWithRandomPolicy(t *testing.T) {
	grid := newGrid(t, 2, 2, 20)
	policy, err := agent.NewRandom(grid.ActionSpec(), 3)
	require.NoError(t, err)
	store := newStore(t)

	c := NewCollector(grid, policy, store, 1000, nil)
	require.NoError(t, c.CollectEpisodes(25))
	assert.Equal(t, 25, store.NumEpisodes())
	for _, ep := range store.Episodes() {
		assert.LessOrEqual(t, len(ep), 20)
	}
}
