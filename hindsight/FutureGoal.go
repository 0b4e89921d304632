package hindsight

import (
	"fmt"

	"github.com/samuelfneumann/hindsight/timestep"
	"github.com/samuelfneumann/hindsight/utils/intutils"
)

// FutureGoal is a Strategy which relabels transitions with a goal
// achieved at the same or a later step of their episode.
//
// For each episode, a time step t is chosen uniformly at random. With
// probability FutureProb the transition at t has its goals replaced by
// the goal achieved at a step chosen uniformly from [t, len(episode)),
// and its reward recomputed.
type FutureGoal struct {
	relabeler
	futureProb float64
}

// FutureProb returns the probability of relabeling a transition given
// futureK, the number of relabeled transitions replayed per original
// transition: 1 - 1/(futureK + 1).
func FutureProb(futureK int) float64 {
	return 1.0 - 1.0/(float64(futureK)+1.0)
}

// NewFutureGoal returns a new FutureGoal Strategy. futureK must be
// non-negative; futureK = 0 disables relabeling. If ignoreNullGoals is
// true, transitions are not relabeled with goals for which isNullGoal
// returns true, and isNullGoal must not be nil.
func NewFutureGoal(ignoreNullGoals bool, isNullGoal NullGoalFunc,
	futureK int, rng Rand) (*FutureGoal, error) {
	if futureK < 0 {
		return nil, &Error{
			Op: "newFutureGoal",
			Err: fmt.Errorf("%w: future_k must be >= 0, have %d",
				ErrConfiguration, futureK),
		}
	}

	r, err := newRelabeler("newFutureGoal", ignoreNullGoals, isNullGoal, rng)
	if err != nil {
		return nil, err
	}
	return &FutureGoal{relabeler: r, futureProb: FutureProb(futureK)}, nil
}

// FutureProb returns the probability with which a transition is
// relabeled
func (f *FutureGoal) FutureProb() float64 {
	return f.futureProb
}

// Apply implements the Strategy interface
func (f *FutureGoal) Apply(episodes []timestep.Episode, reward RewardFunc,
	swaps []KeySwap) ([][]timestep.Transition, error) {
	if err := validateEpisodes("apply", episodes); err != nil {
		return nil, err
	}

	ts := f.timeSteps(episodes)
	applyHers := f.applyHers(len(episodes), f.futureProb)
	futureTs := f.futureSteps(episodes, ts)

	batch := make([][]timestep.Transition, len(episodes))
	for i, episode := range episodes {
		transition := episode[ts[i]]
		if applyHers[i] {
			var err error
			transition, err = f.relabel(Future, episode, ts[i],
				episode[futureTs[i]], reward, swaps)
			if err != nil {
				return nil, err
			}
		}
		batch[i] = []timestep.Transition{transition}
	}
	return batch, nil
}

// futureSteps draws, for each episode, a step in [ts[i], len(episode))
// at which the relabeling goal is achieved
func (f *FutureGoal) futureSteps(episodes []timestep.Episode,
	ts []int) []int {
	futureTs := make([]int, len(episodes))
	for i, ep := range episodes {
		offset := int(f.rng.Float64() * float64(len(ep)-ts[i]))
		futureTs[i] = intutils.Min(ts[i]+offset, len(ep)-1)
	}
	return futureTs
}

// Type implements the Strategy interface
func (*FutureGoal) Type() StrategyType { return Future }

func (*FutureGoal) strategy() {}
