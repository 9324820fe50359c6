// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either the
// first environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes how an episode ended: at a terminal state, at a
// timeout such as an episode step limit, or not at all (the episode
// is still in progress)
type EndType int

const (
	NilEnd EndType = iota
	TerminalStateEnd
	TimeoutEnd
)

func (e EndType) String() string {
	switch e {
	case TerminalStateEnd:
		return "TerminalState"
	case TimeoutEnd:
		return "Timeout"
	default:
		return "Nil"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	Reward      float64
	Discount    float64
	Observation mat.Vector
	Number      int
	endType     EndType
}

// New constructs a new TimeStep
func New(t StepType, r, d float64, o mat.Vector, n int) TimeStep {
	return TimeStep{t, r, d, o, n, NilEnd}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd sets the ending type of the TimeStep
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// TerminalEnd returns whether the TimeStep ended an episode at a
// terminal state, as opposed to ending due to a timeout
func (t *TimeStep) TerminalEnd() bool {
	return t.endType == TerminalStateEnd
}

// TimeoutEnd returns whether the TimeStep ended an episode due to a
// timeout, e.g. an episode step limit
func (t *TimeStep) TimeoutEnd() bool {
	return t.endType == TimeoutEnd
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)
}
