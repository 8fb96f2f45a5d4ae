package rod

import (
	"fmt"
	"math"

	"github.com/rteja/rodsim/internal/linalg"
	"github.com/rteja/rodsim/internal/sim"
)

// Sphere is a rigid body with a single frame, proving the stepping contract
// generalizes beyond rods. Angular velocity and torque live in the material
// frame, like rod elements.
type Sphere struct {
	name string

	Position linalg.Vec
	Velocity linalg.Vec
	Director linalg.Mat
	Omega    linalg.Vec

	Mass       float64
	Inertia    linalg.Mat
	InvInertia linalg.Mat

	ExternalForce  linalg.Vec
	ExternalTorque linalg.Vec
}

// NewSphere builds a uniform-density rigid sphere at rest.
func NewSphere(name string, center linalg.Vec, radius, density float64) (*Sphere, error) {
	if radius <= 0 || density <= 0 {
		return nil, fmt.Errorf("%w: sphere radius and density must be positive", ErrBadRodSpec)
	}
	mass := density * 4.0 / 3.0 * math.Pi * math.Pow(radius, 3)
	moment := 2.0 / 5.0 * mass * radius * radius
	return &Sphere{
		name:       name,
		Position:   center,
		Director:   linalg.Identity(),
		Mass:       mass,
		Inertia:    linalg.Diag(moment, moment, moment),
		InvInertia: linalg.Diag(1/moment, 1/moment, 1/moment),
	}, nil
}

func (s *Sphere) Name() string { return s.name }

func (s *Sphere) KinematicStep(_, dt float64) {
	s.Position = s.Position.Add(s.Velocity.Scale(dt))
	s.Director = linalg.RotateFrame(s.Director, s.Omega.Scale(dt))
}

func (s *Sphere) DynamicStep(_, dt float64) error {
	s.Velocity = s.Velocity.Add(s.ExternalForce.Scale(dt / s.Mass))

	// Euler equation in the material frame: J dw/dt = (J w) x w + tau.
	torque := s.Inertia.MulVec(s.Omega).Cross(s.Omega).Add(s.ExternalTorque)
	s.Omega = s.Omega.Add(s.InvInertia.MulVec(torque).Scale(dt))
	return nil
}

func (s *Sphere) ResetAccumulators() {
	s.ExternalForce = linalg.Vec{}
	s.ExternalTorque = linalg.Vec{}
}

func (s *Sphere) Snapshot() sim.Snapshot {
	return sim.Snapshot{
		Name:       s.name,
		Positions:  []linalg.Vec{s.Position},
		Velocities: []linalg.Vec{s.Velocity},
		Directors:  []linalg.Mat{s.Director},
	}
}

func (s *Sphere) CheckFinite() error {
	if !s.Position.IsFinite() || !s.Velocity.IsFinite() {
		return fmt.Errorf("%w: sphere %q translation", sim.ErrNonFinite, s.name)
	}
	if !s.Director.IsFinite() || !s.Omega.IsFinite() {
		return fmt.Errorf("%w: sphere %q rotation", sim.ErrNonFinite, s.name)
	}
	return nil
}

// RotationalEnergy returns the rigid-body rotational kinetic energy.
func (s *Sphere) RotationalEnergy() float64 {
	return 0.5 * s.Omega.Dot(s.Inertia.MulVec(s.Omega))
}
