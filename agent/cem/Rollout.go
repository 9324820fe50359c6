package cem

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"sfneuman.com/gocem/agent"
	"sfneuman.com/gocem/environment"
)

// Step records a single step of a rollout: the observation the agent
// saw and the action it actually took from that observation. Steps are
// immutable once created.
type Step struct {
	Observation mat.Vector
	Action      int
}

// Episode records one complete run of an environment from reset to
// termination: the total undiscounted reward and the ordered steps
// taken. Episodes are immutable once closed out.
type Episode struct {
	Reward float64
	Steps  []Step
}

// Batch is a fixed-size group of completed episodes processed together
// before a parameter update. A Batch is never mutated after being
// handed to a consumer.
type Batch []Episode

// Rewards returns the total rewards of the episodes in the batch
func (b Batch) Rewards() []float64 {
	rewards := make([]float64, len(b))
	for i := range b {
		rewards[i] = b[i].Reward
	}
	return rewards
}

// Steps returns the total number of steps across all episodes in the
// batch
func (b Batch) Steps() int {
	var n int
	for i := range b {
		n += len(b[i].Steps)
	}
	return n
}

// Generator drives an environment with a policy to produce a
// never-ending sequence of fixed-size batches of completed episodes.
// Each call to Next runs the environment until batchSize episodes have
// completed and returns them; the generator suspends exactly at batch
// completion and resumes on the next call. A Generator cannot be
// rewound; to restart episode generation, construct a new Generator.
type Generator struct {
	env       environment.Environment
	policy    agent.Policy
	batchSize int
}

// NewGenerator creates and returns a new Generator which rolls out
// policy p on environment e, producing batches of batchSize episodes
func NewGenerator(e environment.Environment, p agent.Policy,
	batchSize int) (*Generator, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("newgenerator: batch size must be positive, "+
			"got %v", batchSize)
	}

	return &Generator{
		env:       e,
		policy:    p,
		batchSize: batchSize,
	}, nil
}

// BatchSize returns the number of episodes per generated batch
func (g *Generator) BatchSize() int {
	return g.batchSize
}

// Next generates and returns the next batch of completed episodes.
// Policy and environment errors are passed through unmasked.
func (g *Generator) Next() (Batch, error) {
	batch := make(Batch, 0, g.batchSize)

	for len(batch) < g.batchSize {
		episode, err := g.rollout()
		if err != nil {
			return nil, err
		}
		batch = append(batch, episode)
	}

	return batch, nil
}

// rollout runs a single episode from environment reset to termination,
// selecting actions with the generator's policy
func (g *Generator) rollout() (Episode, error) {
	step := g.env.Reset()

	var episode Episode
	for !step.Last() {
		action, err := g.policy.SelectAction(step)
		if err != nil {
			return Episode{}, fmt.Errorf("rollout: could not select "+
				"action: %v", err)
		}

		obs := step.Observation
		step, _, err = g.env.Step(action)
		if err != nil {
			return Episode{}, fmt.Errorf("rollout: could not step "+
				"environment: %v", err)
		}

		episode.Reward += step.Reward
		episode.Steps = append(episode.Steps, Step{
			Observation: obs,
			Action:      int(action.AtVec(0)),
		})
	}

	return episode, nil
}
