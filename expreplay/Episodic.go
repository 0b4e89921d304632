// Package expreplay implements an episodic experience replay buffer.
//
// Transitions are stored grouped into whole episodes. Episodes are
// accumulated transition by transition, closed once the episode ends,
// and evicted first-in-first-out once the number of stored transitions
// exceeds the buffer's capacity.
package expreplay

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gammazero/deque"
	"github.com/samuelfneumann/hindsight/timestep"
)

// Option configures an Episodic buffer
type Option func(*Episodic)

// WithLogger sets the logger used by the buffer
func WithLogger(logger *slog.Logger) Option {
	return func(e *Episodic) {
		e.logger = logger
	}
}

// WithSelector sets the Selector used to choose episodes to sample
func WithSelector(s Selector) Option {
	return func(e *Episodic) {
		e.sampler = s
	}
}

// Episodic is an episodic experience replay buffer. It is safe for
// concurrent use: one goroutine may append experience while others
// sample from the buffer.
type Episodic struct {
	mu             sync.RWMutex // Guards the following
	episodes       *deque.Deque[timestep.Episode]
	currentEpisode timestep.Episode
	transitions    int

	// capacity is the maximum number of transitions stored, a value of
	// 0 indicates an unbounded buffer
	capacity int

	sampler Selector
	logger  *slog.Logger
}

// NewEpisodic returns a new episodic replay buffer storing at most
// capacity transitions. A capacity of 0 creates an unbounded buffer.
// The seed is used to create the default uniform Selector.
func NewEpisodic(capacity int, seed uint64, opts ...Option) (*Episodic,
	error) {
	if capacity < 0 {
		return nil, &ExpReplayError{
			Op:  "newEpisodic",
			Err: fmt.Errorf("%w: capacity must be >= 0, have %d",
				errInvalidArgument, capacity),
		}
	}

	e := &Episodic{
		episodes: deque.New[timestep.Episode](),
		capacity: capacity,
		sampler:  NewUniformSelector(seed),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Append adds a transition to the episode currently being collected.
// If the transition is terminal, the current episode is closed and
// stored.
func (e *Episodic) Append(t timestep.Transition) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.currentEpisode = append(e.currentEpisode, t)
	if t.Terminal {
		e.stopCurrentEpisode()
	}
	return nil
}

// StopCurrentEpisode closes the episode currently being collected and
// stores it in the buffer. It should be called when an episode ends
// without reaching a terminal state, for example at a timeout. Calling
// StopCurrentEpisode with no transitions collected does nothing.
func (e *Episodic) StopCurrentEpisode() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.stopCurrentEpisode()
}

// stopCurrentEpisode must be called with e.mu held
func (e *Episodic) stopCurrentEpisode() {
	if len(e.currentEpisode) == 0 {
		return
	}
	e.store(e.currentEpisode)
	e.currentEpisode = nil
}

// AppendEpisode stores a complete episode in the buffer. The buffer
// takes ownership of the episode, which must not be modified afterwards.
func (e *Episodic) AppendEpisode(ep timestep.Episode) error {
	if len(ep) == 0 {
		return &ExpReplayError{Op: "appendEpisode", Err: errEmptyEpisode}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.store(ep)
	return nil
}

// store must be called with e.mu held
func (e *Episodic) store(ep timestep.Episode) {
	e.episodes.PushBack(ep[:len(ep):len(ep)])
	e.transitions += len(ep)
	e.evict()
}

// evict removes the oldest episodes until the number of stored
// transitions no longer exceeds the capacity. Must be called with e.mu
// held.
func (e *Episodic) evict() {
	if e.capacity == 0 {
		return
	}
	for e.transitions > e.capacity && e.episodes.Len() > 0 {
		ep := e.episodes.PopFront()
		e.transitions -= len(ep)
		e.logger.Debug("evicted episode",
			slog.Int("length", len(ep)),
			slog.Int("stored_transitions", e.transitions),
			slog.Int("capacity", e.capacity))
	}
}

// SampleWithReplacement samples k episodes uniformly at random, with
// replacement. The returned episodes are shared with the buffer and
// must not be modified.
func (e *Episodic) SampleWithReplacement(k int) ([]timestep.Episode,
	error) {
	if k < 0 {
		return nil, &ExpReplayError{
			Op:  "sampleWithReplacement",
			Err: fmt.Errorf("%w: cannot sample %d episodes",
				errInvalidArgument, k),
		}
	}

	snapshot := e.Episodes()
	if len(snapshot) == 0 {
		return nil, &ExpReplayError{
			Op:  "sampleWithReplacement",
			Err: errEmptyBuffer,
		}
	}

	indices := e.sampler.Choose(k, len(snapshot))
	sampled := make([]timestep.Episode, len(indices))
	for i, index := range indices {
		sampled[i] = snapshot[index]
	}
	return sampled, nil
}

// Episodes returns a snapshot of the stored episodes, oldest first
func (e *Episodic) Episodes() []timestep.Episode {
	e.mu.RLock()
	defer e.mu.RUnlock()

	episodes := make([]timestep.Episode, e.episodes.Len())
	for i := range episodes {
		episodes[i] = e.episodes.At(i)
	}
	return episodes
}

// NumEpisodes returns the number of closed episodes in the buffer
func (e *Episodic) NumEpisodes() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.episodes.Len()
}

// Len returns the number of transitions stored in closed episodes
func (e *Episodic) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.transitions
}

// CurrentEpisodeLen returns the number of transitions collected in the
// episode that has not yet been closed
func (e *Episodic) CurrentEpisodeLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.currentEpisode)
}

// Capacity returns the maximum number of transitions stored in the
// buffer, 0 if unbounded
func (e *Episodic) Capacity() int {
	return e.capacity
}

// String returns the string representation of the buffer
func (e *Episodic) String() string {
	baseStr := "Episodic | Episodes: %v  |  Transitions: %v  |  " +
		"Capacity: %v  |  In Progress: %v"
	return fmt.Sprintf(baseStr, e.NumEpisodes(), e.Len(), e.capacity,
		e.CurrentEpisodeLen())
}
