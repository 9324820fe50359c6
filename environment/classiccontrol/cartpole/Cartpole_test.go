package cartpole

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	env "sfneuman.com/gocem/environment"
)

// fixedStarter starts every episode from the same state
type fixedStarter struct {
	state []float64
}

func (f fixedStarter) Start() *mat.VecDense {
	return mat.NewVecDense(len(f.state), f.state)
}

// newStarter returns a starter producing states near the upright
// balance point
func newStarter(seed uint64) env.Starter {
	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	return env.NewUniformStarter([]r1.Interval{bounds, bounds, bounds,
		bounds}, seed)
}

func TestNewFirstStep(t *testing.T) {
	task := NewBalance(newStarter(11), 200, FailAngle, FailPosition)
	_, firstStep, err := New(task, 1.0)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	if !firstStep.First() {
		t.Error("first timestep does not have StepType First")
	}
	if firstStep.Number != 0 {
		t.Errorf("first timestep has number %v, expected 0", firstStep.Number)
	}
	if firstStep.Observation.Len() != ObservationDims {
		t.Errorf("observation has %v features, expected %v",
			firstStep.Observation.Len(), ObservationDims)
	}
}

func TestBalanceEndsAtStepLimit(t *testing.T) {
	// Permissive failure bounds so that only the step limit can end
	// the episode: the angle is normalized to (-π, π] and the position
	// clipped to +/- PositionBounds, so neither interval is ever left
	const episodeSteps = 200
	task := NewBalance(newStarter(11), episodeSteps, math.Pi, PositionBounds)
	environment, step, err := New(task, 1.0)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	var reward float64
	action := mat.NewVecDense(1, []float64{0.0})
	for i := 0; !step.Last(); i++ {
		if i >= episodeSteps {
			t.Fatal("episode did not end at the step limit")
		}

		action.SetVec(0, float64(i%2))
		step, _, err = environment.Step(action)
		if err != nil {
			t.Fatalf("could not step environment: %v", err)
		}
		reward += step.Reward
	}

	if step.Number != episodeSteps {
		t.Errorf("episode ended at step %v, expected %v", step.Number,
			episodeSteps)
	}
	if !step.TimeoutEnd() {
		t.Error("step limit should end the episode with a timeout")
	}
	if reward != float64(episodeSteps) {
		t.Errorf("episode reward is %v, expected %v with +1 per step",
			reward, episodeSteps)
	}
}

func TestBalanceFailsWhenPoleFalls(t *testing.T) {
	task := NewBalance(newStarter(11), 10000, FailAngle, FailPosition)
	environment, step, err := New(task, 1.0)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	// Constantly pushing right topples the pole long before the step
	// limit
	action := mat.NewVecDense(1, []float64{1.0})
	for i := 0; !step.Last(); i++ {
		if i >= 10000 {
			t.Fatal("episode did not end")
		}

		step, _, err = environment.Step(action)
		if err != nil {
			t.Fatalf("could not step environment: %v", err)
		}
	}

	if !step.TerminalEnd() {
		t.Error("leaving the legal state intervals should end the " +
			"episode at a terminal state")
	}

	angle := math.Abs(step.Observation.AtVec(2))
	position := math.Abs(step.Observation.AtVec(0))
	if angle <= FailAngle && position <= FailPosition {
		t.Errorf("episode ended with angle %v and position %v, both "+
			"within the legal intervals", angle, position)
	}
}

func TestStepIllegalAction(t *testing.T) {
	task := NewBalance(newStarter(11), 200, FailAngle, FailPosition)
	environment, _, err := New(task, 1.0)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	if _, _, err := environment.Step(mat.NewVecDense(1,
		[]float64{2.0})); err == nil {
		t.Error("expected an error for action 2")
	}
	if _, _, err := environment.Step(mat.NewVecDense(1,
		[]float64{-1.0})); err == nil {
		t.Error("expected an error for action -1")
	}
}

func TestResetStartsNewEpisode(t *testing.T) {
	task := NewBalance(newStarter(11), 200, FailAngle, FailPosition)
	environment, _, err := New(task, 1.0)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}

	action := mat.NewVecDense(1, []float64{1.0})
	for i := 0; i < 5; i++ {
		if _, _, err := environment.Step(action); err != nil {
			t.Fatalf("could not step environment: %v", err)
		}
	}

	step := environment.Reset()
	if !step.First() {
		t.Error("reset timestep does not have StepType First")
	}
	if step.Number != 0 {
		t.Errorf("reset timestep has number %v, expected 0", step.Number)
	}
}

func TestNewRejectsIllegalStartState(t *testing.T) {
	task := NewBalance(fixedStarter{[]float64{100.0, 0, 0, 0}}, 200,
		FailAngle, FailPosition)
	if _, _, err := New(task, 1.0); err == nil {
		t.Error("expected an error for a start state outside the " +
			"position bounds")
	}
}
