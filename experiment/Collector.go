// Package experiment implements functionality for running an experiment
// which collects goal-conditioned episodes into a replay buffer
package experiment

import (
	"fmt"
	"log/slog"

	"github.com/samuelfneumann/hindsight/agent"
	env "github.com/samuelfneumann/hindsight/environment"
	"github.com/samuelfneumann/hindsight/experiment/tracker"
	ts "github.com/samuelfneumann/hindsight/timestep"
)

// Recorder records the transitions of episodes as they are generated.
// Append closes the current episode when it receives a terminal
// transition; StopCurrentEpisode closes an episode which ended without
// reaching a terminal state.
type Recorder interface {
	Append(t ts.Transition) error
	StopCurrentEpisode()
}

// Collector is an experiment that runs a policy online and records
// every transition it generates. No learning is performed.
type Collector struct {
	env.Environment
	agent.Policy
	recorder     Recorder
	maxSteps     uint
	currentSteps uint
	episodes     int
	trackers     []tracker.Tracker
	logger       *slog.Logger
}

// NewCollector creates and returns a new Collector on a given
// environment with a given policy. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter is a
// slice of tracker.Tracker which determine what data is tracked.
func NewCollector(e env.Environment, p agent.Policy, r Recorder,
	steps uint, logger *slog.Logger, t ...tracker.Tracker) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		Environment: e,
		Policy:      p,
		recorder:    r,
		maxSteps:    steps,
		trackers:    t,
		logger:      logger,
	}
}

// Register registers a tracker.Tracker with the Collector so that data
// generated during the experiment can be tracked
func (c *Collector) Register(t tracker.Tracker) {
	c.trackers = append(c.trackers, t)
}

// RunEpisode runs a single episode of the experiment, returning whether
// the maximum timestep limit has been reached. If the limit is reached
// mid-episode, the partial episode is closed in the Recorder.
func (c *Collector) RunEpisode() (bool, error) {
	if c.currentSteps >= c.maxSteps {
		return true, nil
	}

	step := c.Environment.Reset()
	c.track(step)

	for !step.Last() && c.currentSteps < c.maxSteps {
		c.currentSteps++

		action := c.Policy.SelectAction(step)
		nextStep, _, err := c.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		c.track(nextStep)

		if err := c.recorder.Append(ts.NewTransition(step, action,
			nextStep)); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		step = nextStep
	}

	// Terminal transitions close the episode on Append, all other
	// endings must be closed here
	if !step.Terminal() {
		c.recorder.StopCurrentEpisode()
	}
	c.episodes++

	c.logger.Debug("episode finished", "episode", c.episodes,
		"steps", step.Number, "end", step.EndType().String(),
		"total_steps", c.currentSteps)

	return c.currentSteps >= c.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (c *Collector) Run() error {
	for ended := false; !ended; {
		var err error
		if ended, err = c.RunEpisode(); err != nil {
			return err
		}
	}
	return nil
}

// CollectEpisodes runs n episodes, stopping early if the maximum
// timestep limit is reached
func (c *Collector) CollectEpisodes(n int) error {
	for i := 0; i < n; i++ {
		ended, err := c.RunEpisode()
		if err != nil {
			return err
		}
		if ended {
			break
		}
	}
	return nil
}

// Episodes returns the number of episodes run so far
func (c *Collector) Episodes() int {
	return c.episodes
}

// Steps returns the number of environment steps taken so far
func (c *Collector) Steps() uint {
	return c.currentSteps
}

// track tracks the current timestep by sending it to each tracker
func (c *Collector) track(t ts.TimeStep) {
	for _, tr := range c.trackers {
		tr.Track(t)
	}
}
