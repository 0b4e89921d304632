package hindsight

import (
	"github.com/samuelfneumann/hindsight/timestep"
)

// FinalGoal is a Strategy which relabels transitions with the goal
// achieved at the end of their episode.
//
// For each episode, a time step is chosen uniformly at random. With
// probability 0.5 the transition at that step has its goals replaced by
// the goal achieved in the last transition of the episode, and its reward
// recomputed.
type FinalGoal struct {
	relabeler
}

// finalProb is the probability with which FinalGoal relabels a
// transition
const finalProb = 0.5

// NewFinalGoal returns a new FinalGoal Strategy. If ignoreNullGoals is
// true, transitions are not relabeled with goals for which isNullGoal
// returns true, and isNullGoal must not be nil.
func NewFinalGoal(ignoreNullGoals bool, isNullGoal NullGoalFunc,
	rng Rand) (*FinalGoal, error) {
	r, err := newRelabeler("newFinalGoal", ignoreNullGoals, isNullGoal, rng)
	if err != nil {
		return nil, err
	}
	return &FinalGoal{r}, nil
}

// Apply implements the Strategy interface
func (f *FinalGoal) Apply(episodes []timestep.Episode, reward RewardFunc,
	swaps []KeySwap) ([][]timestep.Transition, error) {
	if err := validateEpisodes("apply", episodes); err != nil {
		return nil, err
	}

	// Randomly select time steps from each episode and the subset of
	// episodes for hindsight goal replacement
	ts := f.timeSteps(episodes)
	applyHers := f.applyHers(len(episodes), finalProb)

	batch := make([][]timestep.Transition, len(episodes))
	for i, episode := range episodes {
		transition := episode[ts[i]]
		if applyHers[i] {
			var err error
			transition, err = f.relabel(Final, episode, ts[i], episode.Last(),
				reward, swaps)
			if err != nil {
				return nil, err
			}
		}
		batch[i] = []timestep.Transition{transition}
	}
	return batch, nil
}

// Type implements the Strategy interface
func (*FinalGoal) Type() StrategyType { return Final }

func (*FinalGoal) strategy() {}
