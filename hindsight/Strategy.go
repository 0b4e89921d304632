package hindsight

import (
	"fmt"

	"github.com/samuelfneumann/hindsight/timestep"
)

// StrategyType names a replay strategy in a configuration
type StrategyType string

const (
	None   StrategyType = "none"
	Final  StrategyType = "final"
	Future StrategyType = "future"
)

// Rand is the source of randomness used by replay strategies.
// *golang.org/x/exp/rand.Rand satisfies Rand.
type Rand interface {
	// Intn returns a uniform random integer in [0, n)
	Intn(n int) int

	// Float64 returns a uniform random float in [0, 1)
	Float64() float64
}

// Strategy determines how the goals of sampled episodes are relabeled.
//
// Strategy is a closed set: the only implementations are *NoRelabel,
// *FinalGoal, and *FutureGoal.
type Strategy interface {
	// Apply produces one batch element per episode. Each element is a
	// slice of transitions; for relabeling strategies it holds exactly
	// one, possibly relabeled, transition. Stored transitions are never
	// modified.
	Apply(episodes []timestep.Episode, reward RewardFunc,
		swaps []KeySwap) ([][]timestep.Transition, error)

	// Type returns the configuration name of the strategy
	Type() StrategyType

	strategy()
}

// NoRelabel is a Strategy which performs no relabeling, each episode
// is returned unchanged
type NoRelabel struct{}

// NewNoRelabel returns a Strategy which performs no relabeling
func NewNoRelabel() *NoRelabel {
	return &NoRelabel{}
}

// Apply implements the Strategy interface
func (*NoRelabel) Apply(episodes []timestep.Episode, _ RewardFunc,
	_ []KeySwap) ([][]timestep.Transition, error) {
	batch := make([][]timestep.Transition, len(episodes))
	for i, ep := range episodes {
		batch[i] = append([]timestep.Transition(nil), ep...)
	}
	return batch, nil
}

// Type implements the Strategy interface
func (*NoRelabel) Type() StrategyType { return None }

func (*NoRelabel) strategy() {}

// relabeler holds the behaviour shared by the relabeling strategies
type relabeler struct {
	ignoreNullGoals bool
	isNullGoal      NullGoalFunc
	rng             Rand
	metrics         *Metrics
}

func newRelabeler(op string, ignoreNullGoals bool, isNullGoal NullGoalFunc,
	rng Rand) (relabeler, error) {
	if ignoreNullGoals && isNullGoal == nil {
		return relabeler{}, &Error{
			Op: op,
			Err: fmt.Errorf("%w: a null goal predicate is required "+
				"when ignoring null goals", ErrConfiguration),
		}
	}
	if rng == nil {
		return relabeler{}, &Error{
			Op:  op,
			Err: fmt.Errorf("%w: a random source is required", ErrConfiguration),
		}
	}
	return relabeler{
		ignoreNullGoals: ignoreNullGoals,
		isNullGoal:      isNullGoal,
		rng:             rng,
	}, nil
}

// setMetrics registers the metrics recorded when relabeling
func (r *relabeler) setMetrics(m *Metrics) {
	r.metrics = m
}

// timeSteps draws a uniform time index for each episode
func (r relabeler) timeSteps(episodes []timestep.Episode) []int {
	ts := make([]int, len(episodes))
	for i, ep := range episodes {
		ts[i] = r.rng.Intn(len(ep))
	}
	return ts
}

// applyHers draws, for each episode, whether hindsight relabeling is
// applied with probability p
func (r relabeler) applyHers(n int, p float64) []bool {
	applyHers := make([]bool, n)
	for i := range applyHers {
		applyHers[i] = r.rng.Float64() < p
	}
	return applyHers
}

// relabel returns the transition at index t of episode, relabeled with
// the achieved goal of goal unless goal holds a null goal that should be
// ignored
func (r relabeler) relabel(strategy StrategyType, episode timestep.Episode,
	t int, goal timestep.Transition, reward RewardFunc,
	swaps []KeySwap) (timestep.Transition, error) {
	transition := episode[t]

	achieved, err := goal.NextState.Get(timestep.AchievedGoal)
	if err != nil {
		return transition, fmt.Errorf("relabel: %w", err)
	}
	if r.ignoreNullGoals && r.isNullGoal(achieved) {
		r.metrics.nullGoalSkipped(strategy)
		return transition, nil
	}

	transition = transition.Clone()
	if err := Relabel(&transition, goal, reward, swaps); err != nil {
		return episode[t], err
	}
	r.metrics.relabeled(strategy)
	return transition, nil
}

// validateEpisodes reports an error if any episode has no transitions
func validateEpisodes(op string, episodes []timestep.Episode) error {
	for i, ep := range episodes {
		if len(ep) == 0 {
			return &Error{
				Op:  op,
				Err: fmt.Errorf("%w: episode %d is empty", ErrPrecondition, i),
			}
		}
	}
	return nil
}
