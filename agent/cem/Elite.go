package cem

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TrainingSet holds the supervised training examples derived from the
// elite episodes of a batch: the observations seen (row major) and, in
// parallel, the actions taken from them. RewardBound is the percentile
// cutoff that an episode's total reward had to meet for its steps to
// be included. RewardMean is the arithmetic mean of all episode
// rewards in the batch; it is purely diagnostic and plays no part in
// selection.
type TrainingSet struct {
	Observations []float64
	Actions      []float64
	Features     int
	RewardBound  float64
	RewardMean   float64
}

// Len returns the number of training examples in the TrainingSet
func (t TrainingSet) Len() int {
	return len(t.Actions)
}

// Select filters a batch down to its elite episodes and flattens their
// steps into a TrainingSet. An episode is elite if and only if its
// total reward is greater than or equal to the value at the argument
// percentile (0-100) of the batch's episode rewards. Boundary ties are
// included: at small batch sizes, rewards clustering near the
// percentile can make most or all episodes elite. This weakens
// selection pressure but is the intended selection rule, not a bug.
//
// Select is a pure function. The bound never exceeds the batch's
// maximum episode reward, so for a nonempty batch the maximum-reward
// episode is always elite and the returned TrainingSet is never empty.
// Callers constructing a TrainingSet by other means must not train on
// an empty one.
func Select(batch Batch, percentile float64) (TrainingSet, error) {
	if len(batch) == 0 {
		return TrainingSet{}, fmt.Errorf("select: cannot select from an " +
			"empty batch")
	}
	if percentile < 0 || percentile > 100 {
		return TrainingSet{}, fmt.Errorf("select: percentile must be in "+
			"[0, 100], got %v", percentile)
	}

	rewards := batch.Rewards()
	bound := quantile(rewards, percentile)
	mean := stat.Mean(rewards, nil)

	set := TrainingSet{
		RewardBound: bound,
		RewardMean:  mean,
	}
	for _, episode := range batch {
		if episode.Reward < bound {
			continue
		}
		for _, step := range episode.Steps {
			set.Features = step.Observation.Len()
			for i := 0; i < step.Observation.Len(); i++ {
				set.Observations = append(set.Observations,
					step.Observation.AtVec(i))
			}
			set.Actions = append(set.Actions, float64(step.Action))
		}
	}

	return set, nil
}

// quantile returns the value at the pth percentile (0-100) of values,
// linearly interpolating between adjacent order statistics: the 100th
// percentile is the maximum value, the 0th the minimum, and
// percentiles falling between two order statistics are interpolated
// according to their fractional position.
func quantile(values []float64, p float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	position := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(position))
	upper := int(math.Ceil(position))
	fraction := position - float64(lower)

	return sorted[lower]*(1-fraction) + sorted[upper]*fraction
}
