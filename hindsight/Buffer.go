// Package hindsight implements a hindsight experience replay buffer for
// goal-conditioned reinforcement learning.
//
// The buffer samples whole episodes, with replacement, from an episodic
// store and hands them to a relabeling Strategy. The Strategy chooses one
// transition per episode and may replace its desired goal with a goal
// that was actually achieved later in the same episode, recomputing the
// reward with the buffer's reward function. Stored episodes are never
// modified; relabeling always works on a deep copy.
//
// See https://arxiv.org/abs/1707.01495. N-step transitions are not
// supported.
package hindsight

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/samuelfneumann/hindsight/expreplay"
	"github.com/samuelfneumann/hindsight/timestep"
	"golang.org/x/exp/rand"
)

// EpisodeStore stores closed episodes and samples them with replacement.
// Implementations must be safe for use by one appending and one
// sampling goroutine at once. *expreplay.Episodic is an EpisodeStore.
type EpisodeStore interface {
	AppendEpisode(ep timestep.Episode) error
	SampleWithReplacement(k int) ([]timestep.Episode, error)
	NumEpisodes() int
}

// Option configures a Buffer
type Option func(*Buffer)

// WithRand sets the random source used for relabeling and episode
// cropping. By default a source seeded with Config.Seed is used.
func WithRand(r Rand) Option {
	return func(b *Buffer) {
		b.rng = r
	}
}

// WithStore sets the episode store sampled by the Buffer. By default an
// *expreplay.Episodic with Config.Capacity is created.
func WithStore(s EpisodeStore) Option {
	return func(b *Buffer) {
		b.store = s
	}
}

// WithLogger sets the logger of the Buffer and of its default store
func WithLogger(logger *slog.Logger) Option {
	return func(b *Buffer) {
		b.logger = logger
	}
}

// WithMetrics sets the metrics recorded by the Buffer
func WithMetrics(m *Metrics) Option {
	return func(b *Buffer) {
		b.metrics = m
	}
}

// Buffer is a hindsight experience replay buffer
type Buffer struct {
	mu       sync.Mutex // Guards rng
	rng      Rand
	store    EpisodeStore
	strategy Strategy

	reward     RewardFunc
	isNullGoal NullGoalFunc
	swaps      []KeySwap
	config     Config

	logger  *slog.Logger
	metrics *Metrics
}

// New creates and returns a new hindsight replay buffer. The reward
// function is required. isNullGoal is required if c.IgnoreNullGoals is
// true.
func New(c Config, reward RewardFunc, isNullGoal NullGoalFunc,
	opts ...Option) (*Buffer, error) {
	if reward == nil {
		return nil, &Error{
			Op:  "new",
			Err: fmt.Errorf("%w: a reward function is required", ErrConfiguration),
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.IgnoreNullGoals && isNullGoal == nil {
		return nil, &Error{
			Op: "new",
			Err: fmt.Errorf("%w: a null goal predicate is required when "+
				"ignoring null goals", ErrConfiguration),
		}
	}

	b := &Buffer{
		reward:     reward,
		isNullGoal: isNullGoal,
		swaps:      append([]KeySwap(nil), c.SwapKeys...),
		config:     c,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.rng == nil {
		b.rng = rand.New(rand.NewSource(c.Seed))
	}
	if b.store == nil {
		store, err := expreplay.NewEpisodic(c.Capacity, c.Seed+1,
			expreplay.WithLogger(b.logger))
		if err != nil {
			return nil, &Error{
				Op:  "new",
				Err: fmt.Errorf("%w: %v", ErrConfiguration, err),
			}
		}
		b.store = store
	}

	strategy, err := newStrategy(c, isNullGoal, b.rng)
	if err != nil {
		return nil, err
	}
	switch s := strategy.(type) {
	case *FinalGoal:
		s.setMetrics(b.metrics)
	case *FutureGoal:
		s.setMetrics(b.metrics)
	}
	b.strategy = strategy

	b.logger.Info("created hindsight replay buffer",
		slog.String("strategy", string(c.Strategy)),
		slog.Int("capacity", c.Capacity),
		slog.Int("future_k", c.FutureK),
		slog.Bool("ignore_null_goals", c.IgnoreNullGoals),
		slog.Int("swap_keys", len(c.SwapKeys)))

	return b, nil
}

// newStrategy selects the Strategy named by the configuration
func newStrategy(c Config, isNullGoal NullGoalFunc, rng Rand) (Strategy,
	error) {
	switch c.Strategy {
	case None:
		return NewNoRelabel(), nil
	case Final:
		return NewFinalGoal(c.IgnoreNullGoals, isNullGoal, rng)
	case Future:
		return NewFutureGoal(c.IgnoreNullGoals, isNullGoal, c.FutureK, rng)
	}
	return nil, &Error{
		Op:  "newStrategy",
		Err: fmt.Errorf("%w: %q", ErrConfiguration, c.Strategy),
	}
}

// Sample samples n episodes with replacement and returns the batch
// produced by the buffer's Strategy: one slice of transitions per
// sampled episode. For relabeling strategies each slice holds a single
// transition.
func (b *Buffer) Sample(n int) ([][]timestep.Transition, error) {
	episodes, err := b.sampleEpisodes("sample", n)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	batch, err := b.apply(episodes)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	b.metrics.sampledTransitions(b.strategy.Type(), len(batch))
	b.logger.Debug("sampled batch",
		slog.String("strategy", string(b.strategy.Type())),
		slog.Int("batch_size", len(batch)))

	return batch, nil
}

// apply dispatches to the buffer's Strategy. Must be called with b.mu
// held.
func (b *Buffer) apply(episodes []timestep.Episode) ([][]timestep.Transition,
	error) {
	switch s := b.strategy.(type) {
	case *NoRelabel, *FinalGoal, *FutureGoal:
		return s.Apply(episodes, b.reward, b.swaps)
	default:
		return nil, &Error{
			Op:  "sample",
			Err: fmt.Errorf("%w: %T", ErrUnsupportedStrategy, s),
		}
	}
}

// SampleEpisodes samples n episodes with replacement. If maxLen > 0,
// each episode longer than maxLen is replaced by a window of maxLen
// consecutive transitions starting at a uniformly random offset.
func (b *Buffer) SampleEpisodes(n, maxLen int) ([]timestep.Episode,
	error) {
	episodes, err := b.sampleEpisodes("sampleEpisodes", n)
	if err != nil {
		return nil, err
	}
	if maxLen <= 0 {
		return episodes, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ep := range episodes {
		episodes[i] = b.randomSubseq(ep, maxLen)
	}
	return episodes, nil
}

// randomSubseq returns a random window of at most maxLen transitions of
// ep. Must be called with b.mu held.
func (b *Buffer) randomSubseq(ep timestep.Episode,
	maxLen int) timestep.Episode {
	if len(ep) <= maxLen {
		return ep
	}
	start := b.rng.Intn(len(ep) - maxLen + 1)
	return ep.Subseq(start, maxLen)
}

// sampleEpisodes checks the sampling preconditions and draws n episodes
// from the store
func (b *Buffer) sampleEpisodes(op string, n int) ([]timestep.Episode,
	error) {
	if n <= 0 {
		return nil, &Error{
			Op:  op,
			Err: fmt.Errorf("%w: cannot sample %d episodes", ErrPrecondition, n),
		}
	}

	stored := b.store.NumEpisodes()
	b.metrics.setStoredEpisodes(stored)
	if stored == 0 {
		return nil, &Error{
			Op:  op,
			Err: fmt.Errorf("%w: buffer holds no episodes", ErrPrecondition),
		}
	}

	episodes, err := b.store.SampleWithReplacement(n)
	if expreplay.IsEmptyBuffer(err) {
		return nil, &Error{
			Op:  op,
			Err: fmt.Errorf("%w: %v", ErrPrecondition, err),
		}
	} else if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return episodes, nil
}

// AppendEpisode adds a closed episode to the buffer's store
func (b *Buffer) AppendEpisode(ep timestep.Episode) error {
	return b.store.AppendEpisode(ep)
}

// NumEpisodes returns the number of episodes in the buffer's store
func (b *Buffer) NumEpisodes() int {
	return b.store.NumEpisodes()
}

// Store returns the episode store sampled by the buffer
func (b *Buffer) Store() EpisodeStore {
	return b.store
}

// Strategy returns the relabeling Strategy of the buffer
func (b *Buffer) Strategy() Strategy {
	return b.strategy
}

// Config returns the configuration the buffer was created with
func (b *Buffer) Config() Config {
	return b.config
}
