package hindsight

import (
	"fmt"

	"github.com/samuelfneumann/hindsight/timestep"
	"gonum.org/v1/gonum/mat"
)

// RewardFunc computes the reward of reaching achievedGoal when newGoal is
// the desired goal. It must be a pure function.
type RewardFunc func(newGoal, achievedGoal mat.Vector) float64

// NullGoalFunc reports whether a goal is null, meaning nothing was
// achieved. It must be a pure function.
type NullGoalFunc func(goal mat.Vector) bool

// KeySwap names a desired-goal key of an observation and the
// achieved-goal key whose value replaces it during relabeling
type KeySwap struct {
	Desired  string `mapstructure:"desired" validate:"required"`
	Achieved string `mapstructure:"achieved" validate:"required"`
}

// GoalSwap is the swap every relabeling must perform
var GoalSwap = KeySwap{
	Desired:  timestep.DesiredGoal,
	Achieved: timestep.AchievedGoal,
}

// Relabel replaces the goals of t with those achieved in goal and
// recomputes the reward of t.
//
// For every swap, the value of goal.NextState[swap.Achieved] is written
// to both t.State[swap.Desired] and t.NextState[swap.Desired]. The reward
// is then reward(goal.NextState[achieved_goal],
// t.NextState[achieved_goal]).
//
// Relabel mutates t and does not copy it, callers must pass a private
// copy of any stored transition. All keys are checked before t is
// modified; a missing key is reported as a *timestep.KeyError.
func Relabel(t *timestep.Transition, goal timestep.Transition,
	reward RewardFunc, swaps []KeySwap) error {
	replacements := make([]*mat.VecDense, len(swaps))
	for i, swap := range swaps {
		v, ok := goal.NextState[swap.Achieved]
		if !ok {
			return missingKey(swap.Achieved, "goal next_state")
		}
		if _, ok := t.State[swap.Desired]; !ok {
			return missingKey(swap.Desired, "state")
		}
		if _, ok := t.NextState[swap.Desired]; !ok {
			return missingKey(swap.Desired, "next_state")
		}
		replacements[i] = v
	}

	newGoal, ok := goal.NextState[timestep.AchievedGoal]
	if !ok {
		return missingKey(timestep.AchievedGoal, "goal next_state")
	}
	achievedGoal, ok := t.NextState[timestep.AchievedGoal]
	if !ok {
		return missingKey(timestep.AchievedGoal, "next_state")
	}

	// The state and next state each receive their own copy so that the
	// relabeled transition shares no memory with the goal transition
	for i, swap := range swaps {
		t.State[swap.Desired] = mat.VecDenseCopyOf(replacements[i])
		t.NextState[swap.Desired] = mat.VecDenseCopyOf(replacements[i])
	}
	t.Reward = reward(newGoal, achievedGoal)

	return nil
}

func missingKey(key, field string) error {
	return fmt.Errorf("relabel: %w", &timestep.KeyError{Key: key, Field: field})
}

// containsGoalSwap returns whether the mandatory desired/achieved goal
// swap is in swaps
func containsGoalSwap(swaps []KeySwap) bool {
	for _, swap := range swaps {
		if swap == GoalSwap {
			return true
		}
	}
	return false
}
