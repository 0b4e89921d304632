// Package timestep implements timesteps of the agent-environment interaction
// for goal-conditioned environments
package timestep

import (
	"fmt"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes how an episode ended. Only episodes that reach a
// terminal state produce terminal transitions; episodes cut off by a
// step limit do not.
type EndType int

const (
	Nil EndType = iota
	TerminalStateReached
	Timeout
)

func (e EndType) String() string {
	switch e {
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	Reward      float64
	Discount    float64
	Observation Observation
	Number      int
	endType     EndType
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o Observation, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Discount: d, Observation: o,
		Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd sets the way in which the episode ended. It is only recorded
// on Last steps.
func (t *TimeStep) SetEnd(e EndType) {
	if t.Last() {
		t.endType = e
	}
}

// EndType returns how the episode ended, or Nil if the TimeStep is not
// the last in its episode
func (t *TimeStep) EndType() EndType {
	return t.endType
}

// Terminal returns whether the TimeStep is a true terminal state, as
// opposed to the last step of an episode cut short by a timeout
func (t *TimeStep) Terminal() bool {
	return t.Last() && t.endType == TerminalStateReached
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  End: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		t.endType)
}
