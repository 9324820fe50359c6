package trackers

import (
	"fmt"
	"io"
)

// Console prints the diagnostics of each training iteration to an
// io.Writer as they are tracked. Console keeps no state, so its Save
// method is a no-op.
type Console struct {
	out io.Writer
}

// NewConsole creates and returns a new *Console Tracker writing to out
func NewConsole(out io.Writer) Tracker {
	return &Console{out}
}

// Track prints the diagnostics of a single training iteration
func (c *Console) Track(i Iteration) {
	fmt.Fprintf(c.out, "%d: loss=%.3f, reward_mean=%.1f, reward_bound=%.1f\n",
		i.Number, i.Loss, i.RewardMean, i.RewardBound)
}

// Save implements the Tracker interface. It is a no-op.
func (c *Console) Save() {}
