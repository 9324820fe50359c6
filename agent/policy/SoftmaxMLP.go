// Package policy implements policies using neural network function
// approximation using Gorgonia
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"

	"sfneuman.com/gocem/agent"
	"sfneuman.com/gocem/environment"
	"sfneuman.com/gocem/network"
	"sfneuman.com/gocem/timestep"
	"sfneuman.com/gocem/utils/floatutils"
)

// SoftmaxMLP implements a categorical policy over discrete actions
// using a feedforward neural network/MLP. Given an environment with N
// actions, the neural network produces N outputs, the unnormalized
// log-probabilities (logits) of the N actions. Actions are selected by
// sampling from the softmax distribution of the logits, never greedily,
// so that every action keeps a nonzero selection probability.
//
// A SoftmaxMLP constructed with a batch size of 1 owns a VM and can
// select actions with SelectAction. A SoftmaxMLP constructed with a
// larger batch size is used for training: LogPdfOf sets the policy's
// graph to compute the log probability of taking each of a batch of
// actions in the corresponding batch of states, and an external VM
// runs the graph so that a loss may be constructed from LogPdfNode.
type SoftmaxMLP struct {
	network.NeuralNet
	vm G.VM // Non-nil only when batchSize == 1

	actionIndices *G.Node
	logPdf        *G.Node
	logPdfVal     G.Value

	batchSize  int
	numActions int

	source rand.Source // RNG for sampling actions
	seed   uint64
}

// NewSoftmaxMLP creates and returns a new SoftmaxMLP policy on an
// environment with discrete actions. The batch parameter determines
// the number of (state, action) rows that LogPdfOf accepts; action
// selection requires batch == 1. The hiddenSizes, biases, activations,
// and init parameters determine the hidden layers of the underlying
// MLP, as in network.NewMultiHeadMLP.
func NewSoftmaxMLP(env environment.Environment, batch int, g *G.ExprGraph,
	hiddenSizes []int, biases []bool, activations []*network.Activation,
	init G.InitWFn, seed uint64) (*SoftmaxMLP, error) {
	if env.ActionSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newsoftmaxmlp: softmax policy cannot be " +
			"used with continuous actions")
	}
	if env.ActionSpec().LowerBound.AtVec(0) != 0.0 {
		return nil, fmt.Errorf("newsoftmaxmlp: actions must be enumerated " +
			"starting from 0")
	}

	features := env.ObservationSpec().Shape.Len()
	numActions := int(env.ActionSpec().UpperBound.AtVec(0)) + 1

	net, err := network.NewMultiHeadMLP(features, batch, numActions, g,
		hiddenSizes, biases, init, activations)
	if err != nil {
		return nil, fmt.Errorf("newsoftmaxmlp: could not create policy "+
			"network: %v", err)
	}

	return newSoftmaxMLP(net, batch, numActions, seed)
}

// newSoftmaxMLP adds the log probability computation to the graph of
// an existing policy network and returns the resulting policy
func newSoftmaxMLP(net network.NeuralNet, batch, numActions int,
	seed uint64) (*SoftmaxMLP, error) {
	logits := net.Prediction()[0]

	// Log probability of actions inputted with LogPdfOf: the logit of
	// each selected action less the log of the sum of exponentiated
	// logits in its row
	actionIndices := G.NewMatrix(
		net.Graph(),
		tensor.Float64,
		G.WithShape(logits.Shape()...),
		G.WithInit(G.Zeroes()),
		G.WithName("actionIndices"),
	)
	selectedLogits := G.Must(G.HadamardProd(actionIndices, logits))
	selectedLogits = G.Must(G.Sum(selectedLogits, 1))
	logPdf := G.Must(G.Sub(selectedLogits, logSumExp(logits, 1)))

	pol := &SoftmaxMLP{
		NeuralNet: net,

		actionIndices: actionIndices,
		logPdf:        logPdf,

		batchSize:  batch,
		numActions: numActions,

		source: rand.NewSource(seed),
		seed:   seed,
	}
	G.Read(pol.logPdf, &pol.logPdfVal)

	if batch == 1 {
		pol.vm = G.NewTapeMachine(net.Graph())
	}

	return pol, nil
}

// CloneWithBatch clones the policy with a new input batch size. The
// clone starts from the same weight values as the original but shares
// no graph with it, so the two may be run and updated independently.
func (c *SoftmaxMLP) CloneWithBatch(batch int) (*SoftmaxMLP, error) {
	net, err := c.NeuralNet.CloneWithBatch(batch)
	if err != nil {
		return nil, fmt.Errorf("clonewithbatch: could not clone policy "+
			"network: %v", err)
	}

	return newSoftmaxMLP(net, batch, c.numActions, c.seed)
}

// logSumExp computes log(Σ exp(logits)) along an axis in a numerically
// stable manner by subtracting the per-row maximum logit before
// exponentiating
func logSumExp(logits *G.Node, along int) *G.Node {
	max := G.Must(G.Max(logits, along))

	exponent := G.Must(G.BroadcastSub(logits, max, nil, []byte{1}))
	exponent = G.Must(G.Exp(exponent))

	sum := G.Must(G.Sum(exponent, along))
	log := G.Must(G.Log(sum))

	return G.Must(G.Add(max, log))
}

// SelectAction selects an action by sampling from the softmax
// distribution of the policy network's logits at the argument
// timestep's observation. An error is returned if the network produces
// non-finite logits, since the softmax distribution would be undefined.
func (c *SoftmaxMLP) SelectAction(t timestep.TimeStep) (*mat.VecDense,
	error) {
	if c.vm == nil {
		return nil, fmt.Errorf("selectaction: policy has batch size %v "+
			"but action selection requires a batch size of 1", c.batchSize)
	}

	obs := make([]float64, t.Observation.Len())
	for i := range obs {
		obs[i] = t.Observation.AtVec(i)
	}

	if err := c.Network().SetInput(obs); err != nil {
		return nil, fmt.Errorf("selectaction: could not set input: %v", err)
	}
	if err := c.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("selectaction: could not run policy "+
			"network: %v", err)
	}
	logits := c.Network().Output()[0].Data().([]float64)
	c.vm.Reset()

	if !floatutils.AllFinite(logits...) {
		return nil, fmt.Errorf("selectaction: non-finite action score in %v",
			logits)
	}

	probs := floatutils.Softmax(logits)
	dist := distuv.NewCategorical(probs, c.source)
	action := dist.Rand()

	return mat.NewVecDense(1, []float64{action}), nil
}

// LogPdfOf sets the computation of the policy's log probability to be
// of the argument actions in the argument states. States are given in
// row major order; actions are the corresponding action indices. The
// policy's graph must be run by an external VM before the log
// probability value is available through LogPdfVal.
func (c *SoftmaxMLP) LogPdfOf(states, actions []float64) (*G.Node, error) {
	if len(actions) != c.batchSize {
		return nil, fmt.Errorf("logpdfof: invalid number of actions"+
			"\n\twant(%v)\n\thave(%v)", c.batchSize, len(actions))
	}

	if err := c.Network().SetInput(states); err != nil {
		return nil, fmt.Errorf("logpdfof: could not set input: %v", err)
	}

	// One-hot encode the actions to select the logits of the actions
	// actually taken
	actionIndices := make([]float64, 0, c.numActions*c.batchSize)
	for i := range actions {
		row := make([]float64, c.numActions)
		row[int(actions[i])] = 1.0
		actionIndices = append(actionIndices, row...)
	}
	actionIndicesTensor := tensor.NewDense(
		tensor.Float64,
		[]int{c.batchSize, c.numActions},
		tensor.WithBacking(actionIndices),
	)
	if err := G.Let(c.actionIndices, actionIndicesTensor); err != nil {
		return nil, fmt.Errorf("logpdfof: could not set action indices: %v",
			err)
	}

	return c.logPdf, nil
}

// LogPdfNode returns the node of the computational graph that computes
// the log probability of the actions inputted with LogPdfOf
func (c *SoftmaxMLP) LogPdfNode() *G.Node {
	return c.logPdf
}

// LogPdfVal returns the value of the node returned by LogPdfNode
func (c *SoftmaxMLP) LogPdfVal() G.Value {
	return c.logPdfVal
}

// Network returns the neural network function approximator that the
// policy uses.
func (c *SoftmaxMLP) Network() network.NeuralNet {
	return c.NeuralNet
}

// Close cleans up the policy's VM, if it owns one
func (c *SoftmaxMLP) Close() error {
	if c.vm == nil {
		return nil
	}
	return c.vm.Close()
}

// Interface compliance check
var _ agent.LogPdfOfer = (*SoftmaxMLP)(nil)
