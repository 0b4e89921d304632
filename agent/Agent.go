// Package agent defines the policies used to act in goal-conditioned
// environments
package agent

import (
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hindsight/timestep"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. A goal-conditioned
// policy reads the desired goal from the timestep.DesiredGoal
// sub-observation of the TimeStep it selects an action in.
type Policy interface {
	SelectAction(t timestep.TimeStep) *mat.VecDense
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}
