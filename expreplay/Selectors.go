package expreplay

import (
	"sync"

	"golang.org/x/exp/rand"
)

// Selector implements functionality for choosing which stored episodes
// should be sampled from an episodic replay buffer
type Selector interface {
	// Choose selects n indices in [0, size) at which episodes should be
	// sampled from the buffer
	Choose(n, size int) []int
}

// uniformSelector is a Selector which selects episodes uniformly
// randomly with replacement. It is safe for concurrent use.
type uniformSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformSelector returns a new Selector which selects episodes
// uniformly randomly, with replacement, from an episodic replay buffer
func NewUniformSelector(seed uint64) Selector {
	source := rand.NewSource(seed)
	rng := rand.New(source)

	return &uniformSelector{rng: rng}
}

// Choose selects n indices, with replacement, at which to draw data
// from the buffer
func (u *uniformSelector) Choose(n, size int) []int {
	if size <= 0 || n <= 0 {
		return []int{}
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	selected := make([]int, n)
	for i := range selected {
		selected[i] = u.rng.Intn(size)
	}
	return selected
}

// fifoSelector is a Selector which selects episodes in the order they
// were inserted into the buffer, wrapping around when more episodes are
// requested than are stored. It is mostly useful for deterministic
// iteration over a buffer.
type fifoSelector struct{}

// NewFifoSelector returns a new Selector which draws episodes from an
// episodic replay buffer as first-in-first-out.
func NewFifoSelector() Selector {
	return fifoSelector{}
}

// Choose selects n indices at which to draw data from the buffer
func (fifoSelector) Choose(n, size int) []int {
	if size <= 0 || n <= 0 {
		return []int{}
	}

	selected := make([]int, n)
	for i := range selected {
		selected[i] = i % size
	}
	return selected
}
