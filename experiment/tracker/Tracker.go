// Package tracker implements Trackers, which track data generated by
// the TimeSteps of an experiment
package tracker

import (
	ts "github.com/samuelfneumann/hindsight/timestep"
)

// Interface Tracker keeps track of experiment data. Track is called with
// every TimeStep of an experiment, in order.
type Tracker interface {
	Track(t ts.TimeStep)
	Data() []float64
}
