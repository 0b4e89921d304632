package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Transition is a single step of environment interaction: the state, the
// action taken in it, the reward received, the next state, and whether
// the next state is terminal.
//
// Transitions stored in a replay buffer are treated as immutable. Code
// that needs to change a stored transition works on a Clone.
type Transition struct {
	State     Observation
	Action    *mat.VecDense
	Reward    float64
	NextState Observation
	Terminal  bool
}

// NewTransition creates a new transition from the step the action was
// taken in and the step the action lead to
func NewTransition(step TimeStep, action *mat.VecDense,
	nextStep TimeStep) Transition {
	return Transition{
		State:     step.Observation,
		Action:    action,
		Reward:    nextStep.Reward,
		NextState: nextStep.Observation,
		Terminal:  nextStep.Terminal(),
	}
}

// Clone returns a deep copy of the transition
func (t Transition) Clone() Transition {
	var action *mat.VecDense
	if t.Action != nil {
		action = mat.VecDenseCopyOf(t.Action)
	}
	return Transition{
		State:     t.State.Clone(),
		Action:    action,
		Reward:    t.Reward,
		NextState: t.NextState.Clone(),
		Terminal:  t.Terminal,
	}
}

// Equal returns whether two transitions hold the same data
func (t Transition) Equal(other Transition) bool {
	if t.Reward != other.Reward || t.Terminal != other.Terminal {
		return false
	}
	if (t.Action == nil) != (other.Action == nil) {
		return false
	}
	if t.Action != nil && !mat.Equal(t.Action, other.Action) {
		return false
	}
	return t.State.Equal(other.State) && t.NextState.Equal(other.NextState)
}

func (t Transition) String() string {
	str := "Transition | Reward: %.2f  |  Terminal: %v  |  State keys: %v"
	return fmt.Sprintf(str, t.Reward, t.Terminal, t.State.Keys())
}
