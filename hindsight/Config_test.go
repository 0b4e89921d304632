package hindsight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		valid  bool
	}{
		{"default", func(c *Config) {}, true},
		{"none", func(c *Config) { c.Strategy = None }, true},
		{"final", func(c *Config) { c.Strategy = Final }, true},
		{"unknown strategy", func(c *Config) { c.Strategy = "episode" }, false},
		{"missing strategy", func(c *Config) { c.Strategy = "" }, false},
		{"negative capacity", func(c *Config) { c.Capacity = -1 }, false},
		{"negative future_k", func(c *Config) { c.FutureK = -3 }, false},
		{"no swap keys", func(c *Config) { c.SwapKeys = nil }, false},
		{"missing goal swap", func(c *Config) {
			c.SwapKeys = []KeySwap{{Desired: "desired_x", Achieved: "achieved_x"}}
		}, false},
		{"reversed goal swap", func(c *Config) {
			c.SwapKeys = []KeySwap{{Desired: GoalSwap.Achieved,
				Achieved: GoalSwap.Desired}}
		}, false},
		{"empty swap key", func(c *Config) {
			c.SwapKeys = append(c.SwapKeys, KeySwap{Desired: "desired_x"})
		}, false},
		{"extra swap key", func(c *Config) {
			c.SwapKeys = append(c.SwapKeys,
				KeySwap{Desired: "desired_x", Achieved: "achieved_x"})
		}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := DefaultConfig()
			test.modify(&c)

			err := c.Validate()
			if test.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, IsConfiguration(err))
			}
		})
	}
}

func TestNewConfigurationErrors(t *testing.T) {
	_, err := New(DefaultConfig(), nil, neverNull)
	assert.True(t, IsConfiguration(err), "reward function is required")

	_, err = New(DefaultConfig(), distanceReward, nil)
	assert.True(t, IsConfiguration(err), "null goal predicate is required")

	c := DefaultConfig()
	c.IgnoreNullGoals = false
	b, err := c.Create(distanceReward, nil)
	require.NoError(t, err)
	assert.Equal(t, Future, b.Strategy().Type())
	assert.InDelta(t, 0.8, b.Strategy().(*FutureGoal).FutureProb(), 1e-12)

	c.Strategy = "her"
	_, err = c.Create(distanceReward, nil)
	assert.True(t, IsConfiguration(err))
}
