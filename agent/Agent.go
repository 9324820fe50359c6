// Package agent defines the interfaces of agent policies
package agent

import (
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"

	"sfneuman.com/gocem/network"
	"sfneuman.com/gocem/timestep"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. A Policy returns an
// error when an action cannot be selected, for example when the
// underlying function approximator produces non-finite action scores.
type Policy interface {
	SelectAction(t timestep.TimeStep) (*mat.VecDense, error)
}

// NNPolicy represents a policy that uses neural network function
// approximation.
type NNPolicy interface {
	Policy

	// Network returns the neural network function approximator of the
	// policy
	Network() network.NeuralNet

	// Close cleans up any resources (e.g. a VM) the policy owns
	Close() error
}

// LogPdfOfer implements a policy type that can calculate the log of
// the probability density function of the policy for taking some
// (externally inputted) action in some (externally inputted) state.
// Because of this, the gradient will not be computed through the
// action selection process.
type LogPdfOfer interface {
	NNPolicy

	// LogPdfNode returns the node that calculates the log probability
	// of the inputted actions
	LogPdfNode() *G.Node

	// LogPdfVal returns the value of the node returned by LogPdfNode
	LogPdfVal() G.Value

	// LogPdfOf sets the log probability computation to use the
	// argument actions in the argument states. Inputs should be
	// constructed in row major order. The policy's graph must be run
	// by an external VM before the log probability value is available.
	LogPdfOf(states, actions []float64) (*G.Node, error)
}
