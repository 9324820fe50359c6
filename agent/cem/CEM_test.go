package cem

import (
	"errors"
	"testing"

	"sfneuman.com/gocem/experiment/trackers"
)

// recorder implements trackers.Tracker, caching every tracked
// iteration in memory
type recorder struct {
	iterations []trackers.Iteration
	saved      bool
}

func (r *recorder) Track(i trackers.Iteration) {
	r.iterations = append(r.iterations, i)
}

func (r *recorder) Save() {
	r.saved = true
}

// newTestCEM creates a CEM agent on a scripted environment whose every
// episode lasts episodeSteps steps with a total reward of episodeSteps
func newTestCEM(t *testing.T, episodeSteps int, solvedThreshold float64,
	maxIterations int) (*CEM, *recorder) {
	t.Helper()

	config := Config{
		HiddenSize:      4,
		BatchSize:       2,
		Percentile:      70,
		LearningRate:    0.1,
		SolvedThreshold: solvedThreshold,
		MaxIterations:   maxIterations,
	}

	tracker := &recorder{}
	agent, err := New(newScriptedEnv(episodeSteps), config, 14, tracker)
	if err != nil {
		t.Fatalf("could not create agent: %v", err)
	}
	return agent, tracker
}

func TestRunStopsWhenSolved(t *testing.T) {
	// Every episode's reward is 3, immediately above the threshold
	agent, tracker := newTestCEM(t, 3, 2.5, 10)
	defer agent.Close()

	if err := agent.Run(); err != nil {
		t.Fatalf("run failed on a solved environment: %v", err)
	}

	if len(tracker.iterations) != 1 {
		t.Fatalf("tracked %v iterations, expected the run to stop after 1",
			len(tracker.iterations))
	}
	if !tracker.saved {
		t.Error("run did not save its trackers")
	}

	iteration := tracker.iterations[0]
	if iteration.Number != 0 {
		t.Errorf("first iteration has number %v, expected 0",
			iteration.Number)
	}
	if iteration.RewardMean != 3.0 {
		t.Errorf("first iteration has reward mean %v, expected 3",
			iteration.RewardMean)
	}
	if iteration.RewardBound != 3.0 {
		t.Errorf("first iteration has reward bound %v, expected 3",
			iteration.RewardBound)
	}
}

func TestRunRespectsIterationCap(t *testing.T) {
	// An unreachable threshold forces the iteration cap to fire
	agent, tracker := newTestCEM(t, 3, 1000, 3)
	defer agent.Close()

	err := agent.Run()
	if !errors.Is(err, ErrUnsolved) {
		t.Fatalf("expected ErrUnsolved, got %v", err)
	}

	if len(tracker.iterations) != 3 {
		t.Errorf("tracked %v iterations, expected the full cap of 3",
			len(tracker.iterations))
	}
	if !tracker.saved {
		t.Error("run did not save its trackers after hitting the cap")
	}
	for i, iteration := range tracker.iterations {
		if iteration.Number != i {
			t.Errorf("iteration %v has number %v", i, iteration.Number)
		}
	}
}

func TestUpdateRejectsEmptyTrainingSet(t *testing.T) {
	agent, _ := newTestCEM(t, 3, 2.5, 10)
	defer agent.Close()

	if _, err := agent.update(TrainingSet{}); err == nil {
		t.Error("expected an error when updating on an empty training set")
	}
}

func TestNewRejectsContinuousActions(t *testing.T) {
	env := newScriptedEnv(3)
	env.continuous = true

	config := Config{
		HiddenSize:      4,
		BatchSize:       2,
		Percentile:      70,
		LearningRate:    0.1,
		SolvedThreshold: 2.5,
		MaxIterations:   10,
	}

	if _, err := New(env, config, 14); err == nil {
		t.Error("expected an error for an environment with continuous " +
			"actions")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := Config{
		HiddenSize:      128,
		BatchSize:       16,
		Percentile:      70,
		LearningRate:    0.01,
		SolvedThreshold: 199,
		MaxIterations:   500,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid configuration failed validation: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero hidden size", func(c *Config) { c.HiddenSize = 0 }},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }},
		{"negative percentile", func(c *Config) { c.Percentile = -1 }},
		{"percentile above 100", func(c *Config) { c.Percentile = 101 }},
		{"zero learning rate", func(c *Config) { c.LearningRate = 0 }},
	}
	for _, test := range tests {
		config := valid
		test.modify(&config)
		if err := config.Validate(); err == nil {
			t.Errorf("expected %v to fail validation", test.name)
		}
	}
}
