// Package cartpole implements the Cartpole classic control environment
package cartpole

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	env "sfneuman.com/gocem/environment"
	ts "sfneuman.com/gocem/timestep"
	"sfneuman.com/gocem/utils/floatutils"
)

const (
	// Physical constants
	Gravity        float64 = 9.8
	CartMass       float64 = 1.0
	PoleMass       float64 = 0.1
	TotalMass      float64 = CartMass + PoleMass
	HalfPoleLength float64 = 0.5  // half of pole length
	ForceMag       float64 = 10.0 // Magnitude of force applied
	Dt             float64 = 0.02 // seconds between state updates

	// Bounds (+/-) on state variables
	PositionBounds        float64 = 4.8
	SpeedBounds           float64 = math.MaxFloat64
	AngleBounds           float64 = math.Pi
	AngularVelocityBounds float64 = math.MaxFloat64

	// Discrete actions: push the cart left or right
	MinDiscreteAction int = 0
	MaxDiscreteAction int = 1

	ActionDims      int = 1
	ObservationDims int = 4
)

// Cartpole implements the classic control environment Cartpole. In
// this environment, a pole is attached to a cart, which can move
// horizontally. The agent must keep the pole balanced upright for as
// long as possible.
//
// The state features are continuous and consist of the cart's x
// position and speed, as well as the pole's angle from the positive
// y-axis and the pole's angular velocity. All state features are
// bounded by the constants defined in this file. For the position
// feature, extreme values are clipped to within the legal range. For
// the pole's angle feature, extreme values are normalized so that all
// angles stay in the range (-π, π].
//
// Actions are discrete and consist of the direction of the force
// applied to the cart:
//
//	Action	Meaning
//	  0		Push cart left
//	  1		Push cart right
//
// Illegal actions cause Step to return an error.
//
// Cartpole implements the environment.Environment interface
type Cartpole struct {
	env.Task
	lastStep              ts.TimeStep
	discount              float64
	gravity               float64
	forceMag              float64
	poleMass              float64
	halfPoleLength        float64
	cartMass              float64
	dt                    float64
	positionBounds        r1.Interval
	speedBounds           r1.Interval
	angleBounds           r1.Interval
	angularVelocityBounds r1.Interval
}

// New constructs a new Cartpole environment with the argument task.
// Returns the environment and the first timestep of the first episode.
func New(t env.Task, discount float64) (*Cartpole, ts.TimeStep, error) {
	positionBounds := r1.Interval{Min: -PositionBounds, Max: PositionBounds}
	speedBounds := r1.Interval{Min: -SpeedBounds, Max: SpeedBounds}
	angleBounds := r1.Interval{Min: -AngleBounds, Max: AngleBounds}
	angularVelocityBounds := r1.Interval{Min: -AngularVelocityBounds,
		Max: AngularVelocityBounds}

	// Get the first state
	state := t.Start()
	err := validateState(state, positionBounds, angleBounds)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %v", err)
	}

	// Construct first timestep
	firstStep := ts.New(ts.First, 0.0, discount, state, 0)

	cartpole := Cartpole{t, firstStep, discount, Gravity, ForceMag, PoleMass,
		HalfPoleLength, CartMass, Dt, positionBounds, speedBounds, angleBounds,
		angularVelocityBounds}

	return &cartpole, firstStep, nil
}

// Reset resets the environment and returns a starting state drawn from
// the environment Starter
func (c *Cartpole) Reset() ts.TimeStep {
	state := c.Start()
	err := validateState(state, c.positionBounds, c.angleBounds)
	if err != nil {
		panic(fmt.Sprintf("reset: %v", err))
	}

	startStep := ts.New(ts.First, 0, c.discount, state, 0)
	c.lastStep = startStep

	return startStep
}

// ActionSpec returns the action specification of the environment
func (c *Cartpole) ActionSpec() env.Spec {
	shape := mat.NewVecDense(ActionDims, nil)
	lowerBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MinDiscreteAction)})
	upperBound := mat.NewVecDense(ActionDims,
		[]float64{float64(MaxDiscreteAction)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (c *Cartpole) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(ObservationDims, nil)

	lower := []float64{c.positionBounds.Min, c.speedBounds.Min,
		c.angleBounds.Min, c.angularVelocityBounds.Min}
	lowerBound := mat.NewVecDense(ObservationDims, lower)

	upper := []float64{c.positionBounds.Max, c.speedBounds.Max,
		c.angleBounds.Max, c.angularVelocityBounds.Max}
	upperBound := mat.NewVecDense(ObservationDims, upper)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Continuous)
}

// DiscountSpec returns the discounting specification of the environment
func (c *Cartpole) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{c.discount})
	upperBound := mat.NewVecDense(1, []float64{c.discount})

	return env.NewSpec(shape, env.Discount, lowerBound, upperBound,
		env.Continuous)
}

// Step takes one environmental step given action a and returns the
// next state as a timestep.TimeStep and a bool indicating whether or
// not the episode has ended. Legal actions are in the set {0, 1};
// actions outside this set cause Step to return an error.
func (c *Cartpole) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	// Ensure action is 1-dimensional
	if a.Len() > ActionDims {
		return ts.TimeStep{}, true, fmt.Errorf("step: actions should be " +
			"1-dimensional")
	}

	// Ensure a legal action was selected
	intAction := int(a.AtVec(0))
	if intAction < MinDiscreteAction || intAction > MaxDiscreteAction {
		return ts.TimeStep{}, true, fmt.Errorf("step: illegal action %v "+
			"∉ {0, 1}", intAction)
	}

	// Magnify the action force in the appropriate direction
	force := c.forceMag
	if intAction == MinDiscreteAction {
		force = -c.forceMag
	}

	// Get state variables
	state := c.lastStep.Observation
	x, xDot := state.AtVec(0), state.AtVec(1)
	th, thDot := state.AtVec(2), state.AtVec(3)

	// Calculate physical variables to determine next state
	cosTheta := math.Cos(th)
	sinTheta := math.Sin(th)

	totalMass := c.poleMass + c.cartMass
	poleMassLength := c.poleMass * c.halfPoleLength

	temp := (force + poleMassLength*thDot*thDot*sinTheta) / totalMass
	thAcc := (c.gravity*sinTheta - cosTheta*temp) / (c.halfPoleLength *
		(4.0/3.0 - c.poleMass*cosTheta*cosTheta/totalMass))
	xAcc := temp - poleMassLength*thAcc*cosTheta/totalMass

	// Update state variables using Euler kinematic integration
	x += (c.dt * xDot)
	x = floatutils.ClipInterval(x, c.positionBounds)

	xDot += (c.dt * xAcc)

	th += (c.dt * thDot)
	th = normalizeAngle(th, c.angleBounds)

	thDot += (c.dt * thAcc)

	// Create the new timestep
	newState := mat.NewVecDense(ObservationDims, []float64{x, xDot, th, thDot})
	reward := c.GetReward(c.lastStep.Observation, a, newState)
	nextStep := ts.New(ts.Mid, reward, c.discount, newState,
		c.lastStep.Number+1)

	// Check if the step ends the episode
	c.End(&nextStep)

	c.lastStep = nextStep
	return nextStep, nextStep.Last(), nil
}

// validateState checks that a state observation is within the physical
// bounds of the Cartpole environment
func validateState(obs mat.Vector, positionBounds,
	angleBounds r1.Interval) error {
	if obs.Len() != ObservationDims {
		return fmt.Errorf("state observation should have %v features, got %v",
			ObservationDims, obs.Len())
	}

	positionWithinBounds := obs.AtVec(0) <= positionBounds.Max &&
		obs.AtVec(0) >= positionBounds.Min
	if !positionWithinBounds {
		return fmt.Errorf("position %v is not within bounds %v", obs.AtVec(0),
			positionBounds)
	}

	angleWithinBounds := obs.AtVec(2) <= angleBounds.Max &&
		obs.AtVec(2) >= angleBounds.Min
	if !angleWithinBounds {
		return fmt.Errorf("angle %v is not within bounds %v", obs.AtVec(2),
			angleBounds)
	}

	return nil
}

func (c *Cartpole) String() string {
	msg := "Cartpole  |  Position: %v  | Speed: %v  |  Angle: %v" +
		"  |  Angular Velocity: %v"

	state := c.lastStep.Observation
	position, speed := state.AtVec(0), state.AtVec(1)
	angle, velocity := state.AtVec(2), state.AtVec(3)

	return fmt.Sprintf(msg, position, speed, angle, velocity)
}

// normalizeAngle normalizes the pole angle to the appropriate limits
func normalizeAngle(th float64, angleBounds r1.Interval) float64 {
	if angleBounds.Max != -angleBounds.Min {
		panic("angle bounds should be centered around 0")
	}

	if th > angleBounds.Max {
		divisor := int(th / angleBounds.Max)
		return -math.Pi + th - (angleBounds.Max * float64(divisor))
	} else if th < angleBounds.Min {
		divisor := int(th / angleBounds.Min)
		return math.Pi + th - (angleBounds.Min * float64(divisor))
	} else {
		return th
	}
}
