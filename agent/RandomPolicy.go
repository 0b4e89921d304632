package agent

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/hindsight/environment"
	"github.com/samuelfneumann/hindsight/timestep"
)

// Random implements a uniform random policy over the discrete actions
// of an environment. Random ignores the goal and observation it acts
// in, so it behaves identically in training and evaluation mode.
type Random struct {
	dist distuv.Categorical
	eval bool
}

// NewRandom creates a new uniform random policy for the action
// specification spec, which must be one-dimensional and discrete
func NewRandom(spec environment.Spec, seed uint64) (*Random, error) {
	if spec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newRandom: actions must be discrete")
	}
	if spec.Shape.Len() != 1 {
		return nil, fmt.Errorf("newRandom: actions must be 1-dimensional, "+
			"got %d dimensions", spec.Shape.Len())
	}

	numActions := int(spec.UpperBound.AtVec(0)-spec.LowerBound.AtVec(0)) + 1
	if numActions <= 0 {
		return nil, fmt.Errorf("newRandom: no actions in [%v, %v]",
			spec.LowerBound.AtVec(0), spec.UpperBound.AtVec(0))
	}

	weights := make([]float64, numActions)
	for i := range weights {
		weights[i] = 1.0 / float64(numActions)
	}
	source := rand.NewSource(seed)

	return &Random{dist: distuv.NewCategorical(weights, source)}, nil
}

// SelectAction selects an action uniformly at random
func (r *Random) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	return mat.NewVecDense(1, []float64{r.dist.Rand()})
}

// Eval sets the policy to evaluation mode
func (r *Random) Eval() { r.eval = true }

// Train sets the policy to training mode
func (r *Random) Train() { r.eval = false }

// IsEval returns whether the policy is in evaluation mode
func (r *Random) IsEval() bool { return r.eval }
