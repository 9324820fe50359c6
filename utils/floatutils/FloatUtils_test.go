package floatutils

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	if got := Clip(5.0, -1.0, 1.0); got != 1.0 {
		t.Errorf("clipping 5 to [-1, 1] gave %v, expected 1", got)
	}
	if got := Clip(-5.0, -1.0, 1.0); got != -1.0 {
		t.Errorf("clipping -5 to [-1, 1] gave %v, expected -1", got)
	}
	if got := Clip(0.5, -1.0, 1.0); got != 0.5 {
		t.Errorf("clipping 0.5 to [-1, 1] gave %v, expected 0.5", got)
	}
}

func TestClipInterval(t *testing.T) {
	interval := r1.Interval{Min: -2.4, Max: 2.4}
	if got := ClipInterval(3.0, interval); got != 2.4 {
		t.Errorf("clipping 3 to [-2.4, 2.4] gave %v, expected 2.4", got)
	}
	if got := ClipInterval(-3.0, interval); got != -2.4 {
		t.Errorf("clipping -3 to [-2.4, 2.4] gave %v, expected -2.4", got)
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(3.0, -1.0, 2.0); got != -1.0 {
		t.Errorf("min is %v, expected -1", got)
	}
	if got := Max(3.0, -1.0, 2.0); got != 3.0 {
		t.Errorf("max is %v, expected 3", got)
	}
}

func TestMaxSlice(t *testing.T) {
	max, indices := MaxSlice([]float64{1, 3, 2, 3})
	if max != 3.0 {
		t.Errorf("max is %v, expected 3", max)
	}
	if len(indices) != 2 || indices[0] != 1 || indices[1] != 3 {
		t.Errorf("max indices are %v, expected [1 3]", indices)
	}
}

func TestAllFinite(t *testing.T) {
	if !AllFinite(1.0, -2.5, 0.0) {
		t.Error("finite values reported as non-finite")
	}
	if AllFinite(1.0, math.NaN()) {
		t.Error("NaN reported as finite")
	}
	if AllFinite(math.Inf(1), 0.0) {
		t.Error("+Inf reported as finite")
	}
	if AllFinite(math.Inf(-1)) {
		t.Error("-Inf reported as finite")
	}
}

func TestSoftmax(t *testing.T) {
	probs := Softmax([]float64{0.0, 0.0})
	if probs[0] != 0.5 || probs[1] != 0.5 {
		t.Errorf("softmax of equal scores is %v, expected uniform", probs)
	}

	probs = Softmax([]float64{1.0, 2.0, 3.0})
	var sum float64
	for i, p := range probs {
		if p <= 0 {
			t.Errorf("probability %v is %v, expected strictly positive", i, p)
		}
		sum += p
	}
	if math.Abs(sum-1.0) > 1e-10 {
		t.Errorf("probabilities sum to %v, expected 1", sum)
	}
	if !(probs[2] > probs[1] && probs[1] > probs[0]) {
		t.Errorf("probabilities %v do not increase with score", probs)
	}
}

func TestSoftmaxLargeScores(t *testing.T) {
	// Exponentiating these naively would overflow
	probs := Softmax([]float64{1000.0, 1000.0})
	if !AllFinite(probs...) {
		t.Fatalf("softmax of large scores is %v, expected finite values",
			probs)
	}
	if math.Abs(probs[0]-0.5) > 1e-10 || math.Abs(probs[1]-0.5) > 1e-10 {
		t.Errorf("softmax of equal large scores is %v, expected uniform",
			probs)
	}
}
