package goalgrid

import "gonum.org/v1/gonum/mat"

const nullCoordinate = -1

// Task is the sparse goal-reaching task of a GoalGrid
type Task struct{}

// Reward returns SparseReward(desiredGoal, achievedGoal)
func (Task) Reward(desiredGoal, achievedGoal mat.Vector) float64 {
	return SparseReward(desiredGoal, achievedGoal)
}

// AtGoal returns whether the achieved goal is the desired goal cell
func (Task) AtGoal(desiredGoal, achievedGoal mat.Vector) bool {
	return !IsNullGoal(achievedGoal) && mat.Equal(desiredGoal, achievedGoal)
}

// IsNullGoal returns IsNullGoal(goal)
func (Task) IsNullGoal(goal mat.Vector) bool {
	return IsNullGoal(goal)
}

// SparseReward returns 0 if achievedGoal is desiredGoal and -1 otherwise
func SparseReward(desiredGoal, achievedGoal mat.Vector) float64 {
	if (Task{}).AtGoal(desiredGoal, achievedGoal) {
		return 0
	}
	return -1
}

// IsNullGoal returns whether goal is the off-grid position (-1, -1),
// which is achieved after falling into a pit
func IsNullGoal(goal mat.Vector) bool {
	return goal.Len() == 2 && goal.AtVec(0) == nullCoordinate &&
		goal.AtVec(1) == nullCoordinate
}
