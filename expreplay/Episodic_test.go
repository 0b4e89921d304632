package expreplay

import (
	"sync"
	"testing"

	"github.com/samuelfneumann/hindsight/timestep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// episode returns an episode of the given length whose transition
// rewards identify the episode (id) and the step (i) as id*100 + i
func episode(id, length int) timestep.Episode {
	ep := make(timestep.Episode, length)
	for i := range ep {
		ep[i] = timestep.Transition{Reward: float64(id*100 + i)}
	}
	return ep
}

func TestNewEpisodicNegativeCapacity(t *testing.T) {
	_, err := NewEpisodic(-1, 0)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
}

func TestEpisodicAppendClosesOnTerminal(t *testing.T) {
	e, err := NewEpisodic(0, 1)
	require.NoError(t, err)

	require.NoError(t, e.Append(timestep.Transition{Reward: -1}))
	require.NoError(t, e.Append(timestep.Transition{Reward: -1}))
	assert.Equal(t, 0, e.NumEpisodes())
	assert.Equal(t, 2, e.CurrentEpisodeLen())

	require.NoError(t, e.Append(timestep.Transition{Reward: 0, Terminal: true}))
	assert.Equal(t, 1, e.NumEpisodes())
	assert.Equal(t, 3, e.Len())
	assert.Equal(t, 0, e.CurrentEpisodeLen())
}

func TestEpisodicStopCurrentEpisode(t *testing.T) {
	e, err := NewEpisodic(0, 1)
	require.NoError(t, err)

	e.StopCurrentEpisode()
	assert.Equal(t, 0, e.NumEpisodes())

	require.NoError(t, e.Append(timestep.Transition{Reward: -1}))
	e.StopCurrentEpisode()
	assert.Equal(t, 1, e.NumEpisodes())
	assert.Equal(t, 1, e.Len())
}

func TestEpisodicEvictsOldestEpisodes(t *testing.T) {
	e, err := NewEpisodic(5, 1)
	require.NoError(t, err)

	require.NoError(t, e.AppendEpisode(episode(0, 2)))
	require.NoError(t, e.AppendEpisode(episode(1, 3)))
	assert.Equal(t, 2, e.NumEpisodes())
	assert.Equal(t, 5, e.Len())

	require.NoError(t, e.AppendEpisode(episode(2, 2)))
	episodes := e.Episodes()
	require.Len(t, episodes, 2)
	assert.Equal(t, 100.0, episodes[0][0].Reward)
	assert.Equal(t, 200.0, episodes[1][0].Reward)
	assert.Equal(t, 5, e.Len())
}

func TestEpisodicAppendEmptyEpisode(t *testing.T) {
	e, err := NewEpisodic(0, 1)
	require.NoError(t, err)

	err = e.AppendEpisode(timestep.Episode{})
	require.Error(t, err)
	assert.True(t, IsEmptyEpisode(err))
}

func TestEpisodicSampleWithReplacement(t *testing.T) {
	e, err := NewEpisodic(0, 7)
	require.NoError(t, err)

	_, err = e.SampleWithReplacement(3)
	require.Error(t, err)
	assert.True(t, IsEmptyBuffer(err))

	require.NoError(t, e.AppendEpisode(episode(0, 1)))
	require.NoError(t, e.AppendEpisode(episode(1, 4)))

	sampled, err := e.SampleWithReplacement(50)
	require.NoError(t, err)
	require.Len(t, sampled, 50)

	seen := map[float64]bool{}
	for _, ep := range sampled {
		seen[ep[0].Reward] = true
	}
	assert.Len(t, seen, 2, "both episodes should be drawn over 50 samples")

	_, err = e.SampleWithReplacement(-1)
	assert.True(t, IsInvalidArgument(err))

	sampled, err = e.SampleWithReplacement(0)
	require.NoError(t, err)
	assert.Empty(t, sampled)
}

func TestEpisodicFifoSelector(t *testing.T) {
	e, err := NewEpisodic(0, 0, WithSelector(NewFifoSelector()))
	require.NoError(t, err)
	require.NoError(t, e.AppendEpisode(episode(0, 1)))
	require.NoError(t, e.AppendEpisode(episode(1, 1)))

	sampled, err := e.SampleWithReplacement(3)
	require.NoError(t, err)
	assert.Equal(t, 0.0, sampled[0][0].Reward)
	assert.Equal(t, 100.0, sampled[1][0].Reward)
	assert.Equal(t, 0.0, sampled[2][0].Reward)
}

func TestEpisodicConcurrentAppendAndSample(t *testing.T) {
	e, err := NewEpisodic(20, 3)
	require.NoError(t, err)
	require.NoError(t, e.AppendEpisode(episode(0, 2)))

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i < 200; i++ {
			_ = e.AppendEpisode(episode(i, 1+i%4))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			sampled, err := e.SampleWithReplacement(4)
			if assert.NoError(t, err) {
				assert.Len(t, sampled, 4)
			}
		}
	}()
	wg.Wait()

	assert.LessOrEqual(t, e.Len(), 20)
}

func BenchmarkEpisodicSampleWithReplacement(b *testing.B) {
	e, _ := NewEpisodic(0, 1)
	for i := 0; i < 1000; i++ {
		e.AppendEpisode(episode(i, 50))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.SampleWithReplacement(256)
	}
}
