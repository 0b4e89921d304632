package timestep

// Episode is the ordered sequence of transitions of a single rollout,
// from reset to termination or timeout
type Episode []Transition

// Len returns the number of transitions in the episode
func (e Episode) Len() int {
	return len(e)
}

// Last returns the final transition of the episode. It panics on an
// empty episode.
func (e Episode) Last() Transition {
	return e[len(e)-1]
}

// Subseq returns the contiguous window of at most length transitions
// starting at start. The returned episode shares its transitions with e.
func (e Episode) Subseq(start, length int) Episode {
	if start < 0 {
		start = 0
	}
	if start > len(e) {
		start = len(e)
	}
	end := start + length
	if end > len(e) || length < 0 {
		end = len(e)
	}
	return e[start:end:end]
}

// Clone returns a deep copy of the episode
func (e Episode) Clone() Episode {
	clone := make(Episode, len(e))
	for i := range e {
		clone[i] = e[i].Clone()
	}
	return clone
}
