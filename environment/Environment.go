// Package environment outlines the interfaces and structs needed to
// implement concrete goal-conditioned environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hindsight/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when an episode ends. If End returns true, it must
// have set the TimeStep's StepType to timestep.Last and its EndType.
type Ender interface {
	End(t *timestep.TimeStep) bool
}

// Task implements the reward scheme of a goal-conditioned environment.
// Rewards depend only on the goal the agent wanted to reach and the goal
// it actually reached, so that they can be recomputed when a transition
// is relabeled with a different goal.
type Task interface {
	// Reward returns the reward for achieving achievedGoal when the
	// desired goal is desiredGoal
	Reward(desiredGoal, achievedGoal mat.Vector) float64

	// AtGoal returns whether achievedGoal satisfies desiredGoal
	AtGoal(desiredGoal, achievedGoal mat.Vector) bool

	// IsNullGoal returns whether goal denotes that nothing was achieved
	IsNullGoal(goal mat.Vector) bool
}

// Environment implements a simulated goal-conditioned environment.
// Observations of every TimeStep hold the timestep.ObservationKey,
// timestep.AchievedGoal, and timestep.DesiredGoal sub-observations.
type Environment interface {
	Task

	// Reset starts a new episode, sampling a new desired goal
	Reset() timestep.TimeStep

	// Step takes an action in the environment, returning the next
	// TimeStep and whether the episode has ended
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	ActionSpec() Spec
	ObservationSpec() Spec
	GoalSpec() Spec
}
