// Package network implements neural network function approximators
// using Gorgonia
package network

import (
	G "gorgonia.org/gorgonia"
)

// NeuralNet implements a neural network whose computational graph is
// stored in a gorgonia.ExprGraph. A NeuralNet does not own a VM; an
// external VM should be used to run the graph of the network.
type NeuralNet interface {
	// Graph returns the computational graph of the network
	Graph() *G.ExprGraph

	// Clone and CloneWithBatch clone the network, with the same or a
	// new input batch size, to a fresh computational graph
	Clone() (NeuralNet, error)
	CloneWithBatch(int) (NeuralNet, error)

	// BatchSize returns the number of rows in a batch of inputs
	BatchSize() int

	// Features returns the number of features in a single input
	// observation vector
	Features() int

	// Outputs returns the number of output predictions per input row
	Outputs() int

	// SetInput sets the value of the input node before running the
	// forward pass. The input is given in row-major order.
	SetInput([]float64) error

	// Set sets the weights of the network to equal those of another
	// network
	Set(NeuralNet) error

	// Learnables returns the learnable nodes of the network, and
	// Model returns those nodes with their gradients
	Learnables() G.Nodes
	Model() []G.ValueGrad

	// Prediction returns the node of the computational graph that
	// stores the network output, and Output returns the value of that
	// node from the last run of the graph
	Prediction() []*G.Node
	Output() []G.Value
}

// Set sets the weights of a destination network to be equal to the
// weights of a source network
func Set(dest, source NeuralNet) error {
	return dest.Set(source)
}
