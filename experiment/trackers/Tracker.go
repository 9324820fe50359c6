// Package trackers implements Trackers, which track and save
// per-iteration training diagnostics
package trackers

// Iteration packages together the diagnostic scalars emitted by one
// training iteration: the training loss, the reward bound used to
// select elite episodes, and the mean episodic reward of the batch.
type Iteration struct {
	Number      int
	Loss        float64
	RewardBound float64
	RewardMean  float64
}

// Interface Tracker keeps track of per-iteration training data and
// saves the data after training has finished. Trackers are a pure
// side-channel: training does not depend on their presence.
type Tracker interface {
	Track(Iteration)
	Save()
}
