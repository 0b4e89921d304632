package timestep

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Well known observation keys of goal-conditioned environments
const (
	ObservationKey = "observation"
	AchievedGoal   = "achieved_goal"
	DesiredGoal    = "desired_goal"
)

// ErrMissingKey is wrapped by every KeyError
var ErrMissingKey = errors.New("missing observation key")

// KeyError reports that an observation did not contain a required
// sub-observation
type KeyError struct {
	Key   string
	Field string // "state" or "next_state" when known
}

// Error satisfies the error interface
func (k *KeyError) Error() string {
	if k.Field == "" {
		return fmt.Sprintf("%v %q", ErrMissingKey, k.Key)
	}
	return fmt.Sprintf("%v %q in %s", ErrMissingKey, k.Key, k.Field)
}

// Unwrap allows errors.Is(err, ErrMissingKey)
func (k *KeyError) Unwrap() error {
	return ErrMissingKey
}

// IsMissingKey returns whether or not an error reports a missing
// observation key
func IsMissingKey(err error) bool {
	return errors.Is(err, ErrMissingKey)
}

// Observation is a goal-conditioned observation: a mapping of named
// sub-observations such as the raw observation, the achieved goal, and
// the desired goal.
type Observation map[string]*mat.VecDense

// NewObservation returns a goal-conditioned observation with the three
// well known keys. Vectors are stored as given, not copied.
func NewObservation(obs, achieved, desired *mat.VecDense) Observation {
	return Observation{
		ObservationKey: obs,
		AchievedGoal:   achieved,
		DesiredGoal:    desired,
	}
}

// Get returns the sub-observation stored at key
func (o Observation) Get(key string) (*mat.VecDense, error) {
	v, ok := o[key]
	if !ok {
		return nil, &KeyError{Key: key}
	}
	return v, nil
}

// Has returns whether all keys are present in the observation
func (o Observation) Has(keys ...string) bool {
	for _, key := range keys {
		if _, ok := o[key]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the observation. No vector is shared
// between the clone and the original.
func (o Observation) Clone() Observation {
	if o == nil {
		return nil
	}
	clone := make(Observation, len(o))
	for key, v := range o {
		if v == nil {
			clone[key] = nil
			continue
		}
		clone[key] = mat.VecDenseCopyOf(v)
	}
	return clone
}

// Equal returns whether two observations have the same keys and equal
// vectors at each key
func (o Observation) Equal(other Observation) bool {
	if len(o) != len(other) {
		return false
	}
	for key, v := range o {
		w, ok := other[key]
		if !ok {
			return false
		}
		if v == nil || w == nil {
			if v != w {
				return false
			}
			continue
		}
		if !mat.Equal(v, w) {
			return false
		}
	}
	return true
}

// Keys returns the sorted keys of the observation
func (o Observation) Keys() []string {
	keys := make([]string, 0, len(o))
	for key := range o {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
