// Package cem implements the cross-entropy method for discrete-action
// environments. The cross-entropy method alternates between rolling
// out the current policy to generate a batch of episodes, keeping only
// the elite episodes whose total reward meets a percentile cutoff, and
// updating the policy by supervised classification on the elite
// (observation, action) pairs. The method is described in:
//
// https://link.springer.com/article/10.1007/s10479-005-5724-z
package cem

import (
	"errors"
	"fmt"

	G "gorgonia.org/gorgonia"

	"sfneuman.com/gocem/agent/policy"
	"sfneuman.com/gocem/environment"
	"sfneuman.com/gocem/experiment/trackers"
	"sfneuman.com/gocem/initwfn"
	"sfneuman.com/gocem/network"
	"sfneuman.com/gocem/solver"
)

// DefaultSolvedThreshold is the mean batch reward above which the
// 200-step Cartpole balance task is considered solved
const DefaultSolvedThreshold float64 = 199.0

// ErrUnsolved is returned by Run when the iteration cap is reached
// before the solved threshold
var ErrUnsolved = errors.New("run: maximum iterations reached before " +
	"solving")

// Config implements a configuration of the cross-entropy method
type Config struct {
	// HiddenSize is the number of units in the policy network's single
	// hidden layer
	HiddenSize int

	// BatchSize is the number of episodes generated per iteration
	BatchSize int

	// Percentile in [0, 100] is the percentile of a batch's episode
	// rewards that an episode must meet for its steps to be trained on
	Percentile float64

	// LearningRate is the step size of the Adam solver
	LearningRate float64

	// SolvedThreshold is the mean batch reward above which training
	// stops
	SolvedThreshold float64

	// MaxIterations caps the number of training iterations. Values
	// <= 0 mean no cap, in which case Run returns only once the
	// solved threshold is exceeded.
	MaxIterations int
}

// Validate returns an error describing why the configuration is
// invalid, or nil if it is valid
func (c Config) Validate() error {
	if c.HiddenSize <= 0 {
		return fmt.Errorf("hidden size must be positive, got %v",
			c.HiddenSize)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %v", c.BatchSize)
	}
	if c.Percentile < 0 || c.Percentile > 100 {
		return fmt.Errorf("percentile must be in [0, 100], got %v",
			c.Percentile)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %v",
			c.LearningRate)
	}
	return nil
}

// CEM implements the cross-entropy method control loop. CEM owns the
// policy being learned and the decision of when to stop pulling
// batches from its episode Generator.
type CEM struct {
	env       environment.Environment
	config    Config
	behaviour *policy.SoftmaxMLP
	generator *Generator
	solver    *solver.Solver
	trackers  []trackers.Tracker
}

// New creates and returns a new CEM agent on an environment with
// discrete actions. Any argument trackers receive the diagnostic
// scalars of each training iteration.
func New(env environment.Environment, c Config, seed uint64,
	t ...trackers.Tracker) (*CEM, error) {
	if env.ActionSpec().Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: cannot use cross-entropy method with " +
			"continuous actions")
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: invalid configuration: %v", err)
	}

	init, err := initwfn.NewGlorotU(1.0)
	if err != nil {
		return nil, fmt.Errorf("new: could not create weight "+
			"initializer: %v", err)
	}

	// Behaviour policy for selecting actions during rollouts; selects
	// one action at a time
	behaviour, err := policy.NewSoftmaxMLP(
		env,
		1,
		G.NewGraph(),
		[]int{c.HiddenSize},
		[]bool{true},
		[]*network.Activation{network.ReLU()},
		init.InitWFn(),
		seed,
	)
	if err != nil {
		return nil, fmt.Errorf("new: could not create behaviour policy: %v",
			err)
	}

	generator, err := NewGenerator(env, behaviour, c.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("new: could not create episode generator: %v",
			err)
	}

	sol, err := solver.NewDefaultAdam(c.LearningRate)
	if err != nil {
		return nil, fmt.Errorf("new: could not create solver: %v", err)
	}

	return &CEM{
		env:       env,
		config:    c,
		behaviour: behaviour,
		generator: generator,
		solver:    sol,
		trackers:  t,
	}, nil
}

// Register registers a tracker with the (possibly already running)
// agent
func (c *CEM) Register(t trackers.Tracker) {
	c.trackers = append(c.trackers, t)
}

// Policy returns the policy learned by the agent
func (c *CEM) Policy() *policy.SoftmaxMLP {
	return c.behaviour
}

// Close cleans up the agent's resources
func (c *CEM) Close() error {
	return c.behaviour.Close()
}

// Run runs the cross-entropy method control loop: generate a batch of
// episodes with the current policy, keep the elite episodes, take a
// single gradient step towards reproducing the elite actions, and
// stop once the batch's mean reward exceeds the solved threshold.
//
// Run returns nil once the solved threshold is exceeded and
// ErrUnsolved if the configured iteration cap was reached first. Any
// other error is fatal to the run: since each iteration depends on a
// fresh stochastic rollout, no retry semantics are appropriate.
func (c *CEM) Run() error {
	defer c.save()

	for i := 0; c.config.MaxIterations <= 0 ||
		i < c.config.MaxIterations; i++ {
		batch, err := c.generator.Next()
		if err != nil {
			return fmt.Errorf("run: could not generate batch: %v", err)
		}

		set, err := Select(batch, c.config.Percentile)
		if err != nil {
			return fmt.Errorf("run: %v", err)
		}

		loss, err := c.update(set)
		if err != nil {
			return fmt.Errorf("run: could not update policy: %v", err)
		}

		c.track(trackers.Iteration{
			Number:      i,
			Loss:        loss,
			RewardBound: set.RewardBound,
			RewardMean:  set.RewardMean,
		})

		if set.RewardMean > c.config.SolvedThreshold {
			return nil
		}
	}

	return ErrUnsolved
}

// update takes a single gradient step on the policy weights,
// minimizing the mean categorical cross-entropy between the policy's
// action distribution at the elite observations and the elite actions.
// There is no inner epoch loop: each batch is used for exactly one
// step and then discarded. The training loss is returned.
//
// Training on an empty TrainingSet is undefined and returns an error.
func (c *CEM) update(set TrainingSet) (float64, error) {
	if set.Len() == 0 {
		return 0, fmt.Errorf("update: no training examples to train on")
	}

	// Clone the behaviour policy into a training policy whose graph
	// takes the whole training set as one batch
	train, err := c.behaviour.CloneWithBatch(set.Len())
	if err != nil {
		return 0, fmt.Errorf("update: could not create training policy: %v",
			err)
	}

	// Mean categorical cross-entropy of the taken actions
	loss := G.Must(G.Mean(train.LogPdfNode()))
	loss = G.Must(G.Neg(loss))
	var lossVal G.Value
	G.Read(loss, &lossVal)

	if _, err := G.Grad(loss, train.Network().Learnables()...); err != nil {
		return 0, fmt.Errorf("update: could not compute gradient: %v", err)
	}

	vm := G.NewTapeMachine(
		train.Network().Graph(),
		G.BindDualValues(train.Network().Learnables()...),
	)
	defer vm.Close()

	if _, err := train.LogPdfOf(set.Observations, set.Actions); err != nil {
		return 0, fmt.Errorf("update: could not set training examples: %v",
			err)
	}
	if err := vm.RunAll(); err != nil {
		return 0, fmt.Errorf("update: could not run training graph: %v", err)
	}
	if err := c.solver.Step(train.Network().Model()); err != nil {
		return 0, fmt.Errorf("update: could not step solver: %v", err)
	}
	vm.Reset()

	// The updated weights become the behaviour policy for the next
	// batch of rollouts
	if err := network.Set(c.behaviour.Network(), train.Network()); err != nil {
		return 0, fmt.Errorf("update: could not update behaviour "+
			"weights: %v", err)
	}

	return lossVal.Data().(float64), nil
}

// track sends the diagnostics of a single iteration to each tracker
func (c *CEM) track(i trackers.Iteration) {
	for _, t := range c.trackers {
		t.Track(i)
	}
}

// save saves the data cached by each tracker
func (c *CEM) save() {
	for _, t := range c.trackers {
		t.Save()
	}
}
