// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"
	"sfneuman.com/gocem/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines when episodes end. Enders modify a TimeStep in-place
// so that its StepType becomes timestep.Last and its EndType reflects
// why the episode ended.
type Ender interface {
	// End takes a TimeStep, modifying it to be an episode-ending step
	// if the episode should end. Returns whether the episode ended.
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme and episode boundaries for taking
// actions in some environment
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for a transition from state to
	// nextState under action a
	GetReward(state, a, nextState mat.Vector) float64

	// AtGoal returns whether the argument state is a goal state
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards
	Min() float64
	Max() float64

	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a
// Task to complete
type Environment interface {
	Task

	// Reset resets the environment between episodes, returning the
	// first timestep of the new episode
	Reset() timestep.TimeStep

	// Step takes one environmental step given an action, returning
	// the next timestep and whether that timestep is the last in the
	// episode. Step returns an error on illegal actions.
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
