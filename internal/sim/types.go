package sim

import "github.com/rteja/rodsim/internal/linalg"

// Body is the state contract every simulated element exposes to the
// stepper. KinematicStep is the drift half of a stage (positions and
// director frames advance under the current velocities), DynamicStep is the
// kick half (velocities and angular velocities advance under the currently
// accumulated forces and torques). Neither may be invoked twice for the
// same stage without an intervening accumulator reset.
type Body interface {
	Name() string

	// KinematicStep advances position and orientation in place. It does
	// not touch the force or torque accumulators.
	KinematicStep(time, dt float64)

	// DynamicStep advances velocity and angular velocity in place using
	// the accumulated forces and torques.
	DynamicStep(time, dt float64) error

	// ResetAccumulators zeroes the external force and torque arrays.
	// It must run before contributors add into them each stage.
	ResetAccumulators()

	// Snapshot returns defensive copies of the body's kinematic state.
	Snapshot() Snapshot

	// CheckFinite reports a non-finite entry anywhere in the body state.
	CheckFinite() error
}

// Forcer additively writes into a body's force and torque accumulators.
// Implementations bind their target body at construction and must never
// overwrite accumulator entries, only add.
type Forcer interface {
	Apply(time float64)
}

// Constraint overwrites the degrees of freedom it owns. ConstrainValues
// runs after every kinematic sub-step, ConstrainRates after every dynamic
// sub-step, so constrained entries never drift.
type Constraint interface {
	ConstrainValues(time float64)
	ConstrainRates(time float64)
}

// Snapshot is a reference-copy of a body's kinematic state at one instant.
// It never aliases live state.
type Snapshot struct {
	Name       string
	Positions  []linalg.Vec
	Velocities []linalg.Vec
	Directors  []linalg.Mat
}

// Record is a Snapshot tagged with its step index and time.
type Record struct {
	Step int
	Time float64
	Snapshot
}

// Result is the recorded time series of one integration run.
type Result struct {
	Times []float64
	// Series holds one record list per body, in registration order.
	Series     [][]Record
	StepsTaken int
}

// Config is the immutable run configuration handed to Integrate.
type Config struct {
	FinalTime  float64
	TotalSteps int
	// RecordEvery sets the recording cadence in steps; 0 means every step.
	RecordEvery int
	// ValidateState enables post-step non-finite detection.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		FinalTime:     1.0,
		TotalSteps:    10000,
		RecordEvery:   1,
		ValidateState: true,
	}
}
