package policy

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	G "gorgonia.org/gorgonia"
	"sfneuman.com/gocem/environment"
	"sfneuman.com/gocem/environment/classiccontrol/cartpole"
	"sfneuman.com/gocem/network"
	ts "sfneuman.com/gocem/timestep"
)

func newTestEnv(t *testing.T, seed uint64) (environment.Environment,
	ts.TimeStep) {
	t.Helper()

	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s := environment.NewUniformStarter([]r1.Interval{bounds, bounds, bounds,
		bounds}, seed)
	task := cartpole.NewBalance(s, 200, cartpole.FailAngle,
		cartpole.FailPosition)
	env, firstStep, err := cartpole.New(task, 1.0)
	if err != nil {
		t.Fatalf("could not create environment: %v", err)
	}
	return env, firstStep
}

func newTestPolicy(t *testing.T, env environment.Environment,
	batch int) *SoftmaxMLP {
	t.Helper()

	pol, err := NewSoftmaxMLP(env, batch, G.NewGraph(), []int{4},
		[]bool{true}, []*network.Activation{network.ReLU()},
		G.GlorotU(1.0), 14)
	if err != nil {
		t.Fatalf("could not create policy: %v", err)
	}
	return pol
}

func TestSelectActionSamplesLegalActions(t *testing.T) {
	env, firstStep := newTestEnv(t, 11)
	pol := newTestPolicy(t, env, 1)
	defer pol.Close()

	seen := make(map[int]int)
	for i := 0; i < 100; i++ {
		action, err := pol.SelectAction(firstStep)
		if err != nil {
			t.Fatalf("could not select action: %v", err)
		}

		intAction := int(action.AtVec(0))
		if intAction < cartpole.MinDiscreteAction ||
			intAction > cartpole.MaxDiscreteAction {
			t.Fatalf("selected illegal action %v", intAction)
		}
		seen[intAction]++
	}

	// A freshly initialized softmax policy is near-uniform, so both
	// actions should appear in 100 samples
	if len(seen) != 2 {
		t.Errorf("sampled only actions %v, expected both legal actions "+
			"to keep nonzero probability", seen)
	}
}

func TestSelectActionRequiresSingleBatch(t *testing.T) {
	env, firstStep := newTestEnv(t, 11)
	pol := newTestPolicy(t, env, 3)
	defer pol.Close()

	if _, err := pol.SelectAction(firstStep); err == nil {
		t.Error("expected an error when selecting actions with a batch " +
			"policy")
	}
}

func TestLogPdfOfProbabilitiesSumToOne(t *testing.T) {
	env, _ := newTestEnv(t, 11)
	pol := newTestPolicy(t, env, 2)
	defer pol.Close()

	vm := G.NewTapeMachine(pol.Network().Graph())
	defer vm.Close()

	// The same state twice, once per action: the probabilities of the
	// two actions must sum to 1
	state := []float64{0.01, 0.0, -0.02, 0.0}
	states := append(append([]float64{}, state...), state...)
	if _, err := pol.LogPdfOf(states, []float64{0, 1}); err != nil {
		t.Fatalf("could not set states and actions: %v", err)
	}
	if err := vm.RunAll(); err != nil {
		t.Fatalf("could not run policy network: %v", err)
	}

	logPdf := pol.LogPdfVal().Data().([]float64)
	if len(logPdf) != 2 {
		t.Fatalf("log pdf has %v values, expected 2", len(logPdf))
	}
	total := math.Exp(logPdf[0]) + math.Exp(logPdf[1])
	if math.Abs(total-1.0) > 1e-8 {
		t.Errorf("action probabilities sum to %v, expected 1", total)
	}
}

func TestLogPdfOfWrongNumberOfActions(t *testing.T) {
	env, _ := newTestEnv(t, 11)
	pol := newTestPolicy(t, env, 4)
	defer pol.Close()

	states := make([]float64, 4*cartpole.ObservationDims)
	if _, err := pol.LogPdfOf(states, []float64{0, 1}); err == nil {
		t.Error("expected an error when the number of actions does not " +
			"match the batch size")
	}
}

// continuousActionEnv reports continuous actions; no other method is
// ever called on it
type continuousActionEnv struct {
	environment.Environment
}

func (continuousActionEnv) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{-1})
	upperBound := mat.NewVecDense(1, []float64{1})
	return environment.NewSpec(shape, environment.Action, lowerBound,
		upperBound, environment.Continuous)
}

func TestNewSoftmaxMLPRejectsContinuousActions(t *testing.T) {
	env := continuousActionEnv{}
	if _, err := NewSoftmaxMLP(env, 1, G.NewGraph(), []int{4}, []bool{true},
		[]*network.Activation{network.ReLU()}, G.GlorotU(1.0),
		14); err == nil {
		t.Error("expected an error for an environment with continuous " +
			"actions")
	}
}
