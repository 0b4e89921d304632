package hindsight

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config implements a specific configuration of a hindsight replay
// buffer. The reward function and null goal predicate are not part of
// the Config since they cannot be serialized; they are passed to New or
// Create.
type Config struct {
	// Strategy is the relabeling strategy, one of none, final, or future
	Strategy StrategyType `mapstructure:"strategy" validate:"required,oneof=none final future"`

	// Capacity is the maximum number of transitions stored, 0 for an
	// unbounded buffer
	Capacity int `mapstructure:"capacity" validate:"gte=0"`

	// FutureK is the number of relabeled transitions replayed per
	// original transition by the future strategy
	FutureK int `mapstructure:"future_k" validate:"gte=0"`

	// IgnoreNullGoals turns off relabeling with goals for which the null
	// goal predicate returns true
	IgnoreNullGoals bool `mapstructure:"ignore_null_goals"`

	// SwapKeys are the observation keys swapped when relabeling. They
	// must contain the desired_goal/achieved_goal swap.
	SwapKeys []KeySwap `mapstructure:"swap_keys" validate:"required,min=1,dive"`

	// Seed seeds the default random sources of the buffer and store
	Seed uint64 `mapstructure:"seed"`
}

// DefaultConfig returns the default hindsight replay configuration:
// the future strategy with future_k = 4 and null goals ignored.
func DefaultConfig() Config {
	return Config{
		Strategy:        Future,
		Capacity:        0,
		FutureK:         4,
		IgnoreNullGoals: true,
		SwapKeys:        []KeySwap{GoalSwap},
	}
}

// Validate returns an error wrapping ErrConfiguration if the Config is
// invalid
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return &Error{
			Op:  "validate",
			Err: fmt.Errorf("%w: %v", ErrConfiguration, err),
		}
	}
	if !containsGoalSwap(c.SwapKeys) {
		return &Error{
			Op: "validate",
			Err: fmt.Errorf("%w: swap keys must contain (%s, %s)",
				ErrConfiguration, GoalSwap.Desired, GoalSwap.Achieved),
		}
	}
	return nil
}

// Create creates and returns the hindsight replay buffer with the
// specified Config.
func (c Config) Create(reward RewardFunc, isNullGoal NullGoalFunc,
	opts ...Option) (*Buffer, error) {
	return New(c, reward, isNullGoal, opts...)
}
