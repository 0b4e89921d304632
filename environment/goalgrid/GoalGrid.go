// Package goalgrid implements a goal-conditioned 2D gridworld. Each
// episode the agent must walk to a desired goal cell which is sampled
// anew on every reset. Cells may be marked as pits: stepping into a pit
// removes the agent from the grid and ends the episode, after which the
// achieved goal is the null goal.
package goalgrid

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/hindsight/environment"
	"github.com/samuelfneumann/hindsight/timestep"
)

// Actions
const (
	Left = iota
	Right
	Up
	Down
	NumActions
)

// GoalGrid is a goal-conditioned gridworld with r rows and c columns.
// Positions and goals are represented as (x, y) coordinate vectors.
type GoalGrid struct {
	Task
	starter environment.Starter
	goals   environment.Starter
	ender   environment.Ender

	r, c     int
	x, y     int
	pits     map[[2]int]bool
	desired  *mat.VecDense
	discount float64

	currentStep timestep.TimeStep
}

// New creates a new GoalGrid with r rows and c columns. Starting
// positions are sampled from starter and desired goals from goals, both
// as (x, y) vectors. Episodes which do not reach the goal are ended by
// ender.
func New(r, c int, starter, goals environment.Starter,
	ender environment.Ender, discount float64,
	pits ...[2]int) (*GoalGrid, timestep.TimeStep, error) {
	if r <= 0 || c <= 0 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: grid must have "+
			"positive dimensions, got (%d, %d)", r, c)
	}

	pitSet := make(map[[2]int]bool, len(pits))
	for _, pit := range pits {
		if !inBounds(pit[0], pit[1], r, c) {
			return nil, timestep.TimeStep{}, fmt.Errorf("new: pit %v "+
				"outside of grid with bounds (%d, %d)", pit, c, r)
		}
		pitSet[pit] = true
	}

	g := &GoalGrid{
		Task:     Task{},
		starter:  starter,
		goals:    goals,
		ender:    ender,
		r:        r,
		c:        c,
		pits:     pitSet,
		discount: discount,
	}

	return g, g.Reset(), nil
}

// Dims gets the rows and columns of the GoalGrid
func (g *GoalGrid) Dims() (r, c int) {
	return g.r, g.c
}

// Coordinates returns the current (x, y) position of the agent. If the
// agent has fallen into a pit, both coordinates are -1.
func (g *GoalGrid) Coordinates() (int, int) {
	return g.x, g.y
}

// Reset resets the environment to a starting position and samples a new
// desired goal
func (g *GoalGrid) Reset() timestep.TimeStep {
	start := g.starter.Start()
	g.x, g.y = int(start.AtVec(0)), int(start.AtVec(1))
	g.desired = g.goals.Start()

	startStep := timestep.New(timestep.First, 0, g.discount,
		g.observation(), 0)
	g.currentStep = startStep
	return startStep
}

// Step takes one environmental step given an action in {Left, Right,
// Up, Down}. Moves into the walls of the grid leave the agent in place.
func (g *GoalGrid) Step(action *mat.VecDense) (timestep.TimeStep, bool,
	error) {
	if g.currentStep.Last() {
		return timestep.TimeStep{}, true, fmt.Errorf("step: episode has " +
			"ended, call Reset")
	}
	if l := action.Len(); l != 1 {
		return timestep.TimeStep{}, false, fmt.Errorf("step: action "+
			"dimension must be 1, have %d", l)
	}

	x, y := g.x, g.y
	switch int(action.AtVec(0)) {
	case Left:
		x--
	case Right:
		x++
	case Up:
		y++
	case Down:
		y--
	default:
		return timestep.TimeStep{}, false, fmt.Errorf("step: illegal "+
			"action %v", action.AtVec(0))
	}

	if inBounds(x, y, g.r, g.c) {
		g.x, g.y = x, y
	}
	inPit := g.pits[[2]int{g.x, g.y}]
	if inPit {
		g.x, g.y = nullCoordinate, nullCoordinate
	}

	obs := g.observation()
	achieved := obs[timestep.AchievedGoal]
	reward := g.Reward(g.desired, achieved)
	number := g.currentStep.Number + 1

	step := timestep.New(timestep.Mid, reward, g.discount, obs, number)
	if inPit || g.AtGoal(g.desired, achieved) {
		step.StepType = timestep.Last
		step.SetEnd(timestep.TerminalStateReached)
	} else if g.ender != nil {
		g.ender.End(&step)
	}
	g.currentStep = step

	return step, step.Last(), nil
}

// ActionSpec returns the action specification of the environment
func (g *GoalGrid) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{NumActions - 1})

	return environment.Spec{
		Shape:       shape,
		Type:        environment.Action,
		LowerBound:  lowerBound,
		UpperBound:  upperBound,
		Cardinality: environment.Discrete,
	}
}

// ObservationSpec returns the observation specification of the
// environment
func (g *GoalGrid) ObservationSpec() environment.Spec {
	spec := g.GoalSpec()
	spec.Type = environment.Observation
	return spec
}

// GoalSpec returns the goal specification of the environment
func (g *GoalGrid) GoalSpec() environment.Spec {
	shape := mat.NewVecDense(2, nil)
	lowerBound := mat.NewVecDense(2, []float64{0, 0})
	upperBound := mat.NewVecDense(2, []float64{float64(g.c - 1),
		float64(g.r - 1)})

	return environment.Spec{
		Shape:       shape,
		Type:        environment.Goal,
		LowerBound:  lowerBound,
		UpperBound:  upperBound,
		Cardinality: environment.Discrete,
	}
}

func (g *GoalGrid) String() string {
	str := "GoalGrid | At: (%d, %d)  |   Goal: (%v, %v)  |  Bounds: (%d, %d)"
	return fmt.Sprintf(str, g.x, g.y, g.desired.AtVec(0),
		g.desired.AtVec(1), g.c, g.r)
}

// observation returns the goal-conditioned observation at the current
// position. The achieved goal is the agent's position.
func (g *GoalGrid) observation() timestep.Observation {
	position := mat.NewVecDense(2, []float64{float64(g.x), float64(g.y)})
	return timestep.NewObservation(position,
		mat.VecDenseCopyOf(position), mat.VecDenseCopyOf(g.desired))
}

func inBounds(x, y, r, c int) bool {
	return x >= 0 && x < c && y >= 0 && y < r
}
