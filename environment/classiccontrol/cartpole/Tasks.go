package cartpole

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	env "sfneuman.com/gocem/environment"
	ts "sfneuman.com/gocem/timestep"
)

const (
	// FailAngle is the pole angle (+/-) at which a Balance episode
	// fails
	FailAngle float64 = 12 * 2 * math.Pi / 360

	// FailPosition is the cart position (+/-) at which a Balance
	// episode fails
	FailPosition float64 = 2.4
)

// Balance implements the classic control Cartpole Balance task. In
// this task, the goal of the agent is to keep the pole balanced
// upright on the cart for as long as possible.
//
// The reward is +1 on every timestep, so that the episodic return
// equals the number of steps the pole was kept balanced. Episodes end
// at a step limit or when the pole's angle or the cart's position
// leaves the legal interval.
type Balance struct {
	env.Starter
	stepLimiter   env.Ender
	intervalLimit env.Ender
	failAngle     float64
	failPosition  float64
}

// NewBalance creates and returns a new Balance task. Episodes end in
// failure when the pole angle leaves (-failAngle, failAngle) or the
// cart position leaves (-failPosition, failPosition), and end in a
// timeout after episodeSteps steps.
func NewBalance(s env.Starter, episodeSteps int, failAngle,
	failPosition float64) *Balance {
	stepLimiter := env.NewStepLimit(episodeSteps)

	legalIntervals := []r1.Interval{
		{Min: -failPosition, Max: failPosition},
		{Min: -failAngle, Max: failAngle},
	}
	featureIndices := []int{0, 2} // Cart position and pole angle

	intervalLimit := env.NewIntervalLimit(legalIntervals, featureIndices,
		ts.TerminalStateEnd)

	return &Balance{s, stepLimiter, intervalLimit, failAngle, failPosition}
}

// End checks if a TimeStep is the last in an episode. If so, it
// adjusts the TimeStep's StepType to timestep.Last and returns true.
// Otherwise, the function does not adjust the TimeStep and returns
// false.
func (b *Balance) End(t *ts.TimeStep) bool {
	if end := b.intervalLimit.End(t); end {
		return true
	}
	if end := b.stepLimiter.End(t); end {
		return true
	}
	return false
}

// GetReward returns the reward for an action taken in some state,
// resulting in a transition to the next state nextState. The Balance
// task rewards +1 on every transition, including the episode-ending
// one.
func (b *Balance) GetReward(_ mat.Vector, _ mat.Vector,
	_ mat.Vector) float64 {
	return 1.0
}

// AtGoal returns whether or not the goal position has been reached.
// Since Balance is a continuing-style task, every legal state is a
// goal state.
func (b *Balance) AtGoal(state mat.Matrix) bool {
	return math.Abs(state.At(0, 2)) < b.failAngle &&
		math.Abs(state.At(0, 0)) < b.failPosition
}

// Min returns the minimum possible reward that can be received in the
// environment
func (b *Balance) Min() float64 {
	return 1.0
}

// Max returns the maximum possible reward that can be received in the
// environment
func (b *Balance) Max() float64 {
	return 1.0
}

// RewardSpec returns the reward specification for the environment
func (b *Balance) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{b.Min()})
	upperBound := mat.NewVecDense(1, []float64{b.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
