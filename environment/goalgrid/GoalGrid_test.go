package goalgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hindsight/environment"
	"github.com/samuelfneumann/hindsight/timestep"
)

func at(x, y float64) *mat.VecDense {
	return mat.NewVecDense(2, []float64{x, y})
}

func action(a int) *mat.VecDense {
	return mat.NewVecDense(1, []float64{float64(a)})
}

func newTestGrid(t *testing.T, start, goal *mat.VecDense, steps int,
	pits ...[2]int) (*GoalGrid, timestep.TimeStep) {
	t.Helper()
	g, step, err := New(3, 4, environment.NewSingleStarter(start),
		environment.NewSingleStarter(goal), environment.NewStepLimit(steps),
		0.99, pits...)
	require.NoError(t, err)
	return g, step
}

func TestResetObservation(t *testing.T) {
	_, step := newTestGrid(t, at(1, 1), at(3, 2), 10)

	assert.True(t, step.First())
	assert.Equal(t, 0, step.Number)
	assert.ElementsMatch(t, []string{timestep.ObservationKey,
		timestep.AchievedGoal, timestep.DesiredGoal}, step.Observation.Keys())
	assert.True(t, mat.Equal(at(1, 1), step.Observation[timestep.AchievedGoal]))
	assert.True(t, mat.Equal(at(3, 2), step.Observation[timestep.DesiredGoal]))
}

func TestStepReachesGoal(t *testing.T) {
	g, _ := newTestGrid(t, at(1, 1), at(2, 2), 10)

	step, done, err := g.Step(action(Right))
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, -1.0, step.Reward)

	step, done, err = g.Step(action(Up))
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, step.Terminal())
	assert.Equal(t, 0.0, step.Reward)
	assert.Equal(t, 2, step.Number)

	_, _, err = g.Step(action(Up))
	assert.Error(t, err, "stepping after the episode ended")
}

func TestStepWallsAndTimeout(t *testing.T) {
	g, _ := newTestGrid(t, at(0, 0), at(3, 2), 2)

	_, done, err := g.Step(action(Left))
	require.NoError(t, err)
	assert.False(t, done)
	x, y := g.Coordinates()
	assert.Equal(t, [2]int{0, 0}, [2]int{x, y})

	step, done, err := g.Step(action(Down))
	require.NoError(t, err)
	assert.True(t, done)
	assert.False(t, step.Terminal())
	assert.Equal(t, timestep.Timeout, step.EndType())

	g.Reset()
	_, _, err = g.Step(action(NumActions))
	assert.Error(t, err)
	_, _, err = g.Step(mat.NewVecDense(2, nil))
	assert.Error(t, err)
}

func TestPitYieldsNullGoal(t *testing.T) {
	g, _ := newTestGrid(t, at(0, 0), at(3, 2), 10, [2]int{1, 0})

	step, done, err := g.Step(action(Right))
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, step.Terminal())
	assert.Equal(t, -1.0, step.Reward)

	achieved := step.Observation[timestep.AchievedGoal]
	assert.True(t, IsNullGoal(achieved))
	assert.True(t, g.IsNullGoal(achieved))
	assert.False(t, g.AtGoal(achieved, achieved), "null goals are never reached")
}

func TestNewRejectsInvalidGrid(t *testing.T) {
	s := environment.NewSingleStarter(at(0, 0))
	_, _, err := New(0, 3, s, s, nil, 1)
	assert.Error(t, err)

	_, _, err = New(2, 2, s, s, nil, 1, [2]int{2, 0})
	assert.Error(t, err)
}

func TestRandomGoalsStayOnGrid(t *testing.T) {
	goals := environment.NewCategoricalStarter([]int{4, 3}, 7)
	g, _, err := New(3, 4, environment.NewSingleStarter(at(0, 0)), goals,
		environment.NewStepLimit(5), 1)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		desired := g.Reset().Observation[timestep.DesiredGoal]
		assert.False(t, IsNullGoal(desired))
		assert.GreaterOrEqual(t, desired.AtVec(0), 0.0)
		assert.Less(t, desired.AtVec(0), 4.0)
		assert.GreaterOrEqual(t, desired.AtVec(1), 0.0)
		assert.Less(t, desired.AtVec(1), 3.0)
	}
}

func TestSparseReward(t *testing.T) {
	assert.Equal(t, 0.0, SparseReward(at(1, 2), at(1, 2)))
	assert.Equal(t, -1.0, SparseReward(at(1, 2), at(2, 1)))
	assert.Equal(t, -1.0, SparseReward(at(-1, -1), at(-1, -1)))
	assert.False(t, IsNullGoal(at(-1, 0)))
}
