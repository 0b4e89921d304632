package hindsight

import (
	"fmt"

	"github.com/samuelfneumann/hindsight/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// scriptedRand is a Rand which returns predetermined values so that
// tests can force time steps and relabeling decisions
type scriptedRand struct {
	ints   []int
	floats []float64
}

func (s *scriptedRand) Intn(n int) int {
	if len(s.ints) == 0 {
		panic("scriptedRand: out of ints")
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scriptedRand: %d not in [0, %d)", v, n))
	}
	return v
}

func (s *scriptedRand) Float64() float64 {
	if len(s.floats) == 0 {
		panic("scriptedRand: out of floats")
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func vec(values ...float64) *mat.VecDense {
	return mat.NewVecDense(len(values), values)
}

// distanceReward is the negative Euclidean distance between goals
func distanceReward(newGoal, achievedGoal mat.Vector) float64 {
	return -floats.Distance(mat.Col(nil, 0, newGoal),
		mat.Col(nil, 0, achievedGoal), 2)
}

// neverNull is a NullGoalFunc that treats every goal as valid
func neverNull(mat.Vector) bool { return false }

// alwaysNull is a NullGoalFunc that treats every goal as null
func alwaysNull(mat.Vector) bool { return true }

var (
	desired = []float64{9, 9}
	g0      = []float64{0, 0}
	g1      = []float64{1, 0}
	g2      = []float64{3, 4}
)

// goalEpisode returns an episode whose next states achieve goals,
// starting from the origin, with the desired goal (9, 9) and a reward of
// -1 on every transition
func goalEpisode(goals ...[]float64) timestep.Episode {
	ep := make(timestep.Episode, len(goals))
	prev := []float64{0, 0}
	for i, goal := range goals {
		ep[i] = timestep.Transition{
			State: timestep.NewObservation(vec(prev...), vec(prev...),
				vec(desired...)),
			Action: vec(float64(i)),
			Reward: -1,
			NextState: timestep.NewObservation(vec(goal...), vec(goal...),
				vec(desired...)),
		}
		prev = goal
	}
	return ep
}
