// Package rod implements the simulated bodies: the Cosserat rod, a slender
// elastic structure discretized into nodes carrying position/velocity and
// elements carrying an orthonormal director frame and angular velocity, and
// a rigid sphere sharing the same stepping contract.
package rod

import (
	"fmt"

	"github.com/rteja/rodsim/internal/calculus"
	"github.com/rteja/rodsim/internal/linalg"
	"github.com/rteja/rodsim/internal/sim"
)

// zHat is the reference tangent in the material frame: d3.
var zHat = linalg.Vec{0, 0, 1}

// CosseratRod is one rod body. Nodal arrays have Elements()+1 entries,
// elemental arrays Elements(), Voronoi-domain arrays Elements()-1. Angular
// velocities and torques live in the material frame. The two accumulators
// (ExternalForce per node, ExternalTorque per element) are writable by any
// number of contributors and are zeroed before each accumulation cycle.
type CosseratRod struct {
	name string
	n    int // element count

	// Nodal state.
	Position      []linalg.Vec
	Velocity      []linalg.Vec
	Mass          []float64
	ExternalForce []linalg.Vec

	// Elemental state.
	Director       []linalg.Mat
	Omega          []linalg.Vec
	ExternalTorque []linalg.Vec
	RestLength     []float64
	Radius         []float64
	ShearMatrix    []linalg.Mat
	Inertia        []linalg.Mat
	InvInertia     []linalg.Mat

	// Voronoi-domain state.
	RestVoronoiLength []float64
	BendMatrix        []linalg.Mat
	RestKappa         []linalg.Vec

	// Velocity damping coefficient.
	damping float64

	// Nodal arc-length weights for damping, the trapezoidal quadrature of
	// the rest lengths; fixed at construction.
	lengthWeight []float64
}

func (r *CosseratRod) Name() string  { return r.name }
func (r *CosseratRod) Elements() int { return r.n }
func (r *CosseratRod) Nodes() int    { return r.n + 1 }

// KinematicStep drifts positions along the nodal velocities and transports
// every director frame by the rotation exponential of its angular velocity.
// Accumulators are untouched.
func (r *CosseratRod) KinematicStep(_, dt float64) {
	for i := range r.Position {
		r.Position[i] = r.Position[i].Add(r.Velocity[i].Scale(dt))
	}
	for i := range r.Director {
		r.Director[i] = linalg.RotateFrame(r.Director[i], r.Omega[i].Scale(dt))
	}
}

// ResetAccumulators zeroes the external force and torque arrays.
func (r *CosseratRod) ResetAccumulators() {
	for i := range r.ExternalForce {
		r.ExternalForce[i] = linalg.Vec{}
	}
	for i := range r.ExternalTorque {
		r.ExternalTorque[i] = linalg.Vec{}
	}
}

// DynamicStep kicks velocities and angular velocities using the internal
// shear/stretch and bend/twist response plus the accumulated external
// forces and torques. Internal loads are assembled with the adjoint
// quadrature/difference kernel pair so the discrete force and torque
// balance mirrors the continuous integration-by-parts identity.
func (r *CosseratRod) DynamicStep(_, dt float64) error {
	n := r.n

	lengths := make([]float64, n)
	tangents := make([]linalg.Vec, n)
	dilatation := make([]float64, n)
	for i := 0; i < n; i++ {
		dr := r.Position[i+1].Sub(r.Position[i])
		l := dr.Norm()
		lengths[i] = l
		tangents[i] = dr.Scale(1 / l)
		dilatation[i] = l / r.RestLength[i]
	}

	// Shear/stretch strain sigma = Q(e t) - d3 and the resulting stress,
	// transported to the lab frame and scaled by 1/e for the nodal force
	// difference.
	stress := make([]linalg.Vec, n)
	labStress := make([]linalg.Vec, n)
	for i := 0; i < n; i++ {
		sigma := r.Director[i].MulVec(tangents[i].Scale(dilatation[i])).Sub(zHat)
		stress[i] = r.ShearMatrix[i].MulVec(sigma)
		labStress[i] = r.Director[i].TransposeMulVec(stress[i]).Scale(1 / dilatation[i])
	}
	internalForce, err := calculus.DifferenceVec(labStress)
	if err != nil {
		return fmt.Errorf("rod %q internal forces: %w", r.name, err)
	}

	// Bend/twist response on the Voronoi domains.
	vdil := make([]float64, n-1)
	bendCouple := make([]linalg.Vec, n-1)
	transportCouple := make([]linalg.Vec, n-1)
	for i := 0; i < n-1; i++ {
		vdil[i] = (lengths[i] + lengths[i+1]) / (r.RestLength[i] + r.RestLength[i+1])
		rel := r.Director[i+1].MulTranspose(r.Director[i])
		kappa := linalg.RotationLog(rel).Scale(-1 / r.RestVoronoiLength[i])
		tau := r.BendMatrix[i].MulVec(kappa.Sub(r.RestKappa[i]))
		e3 := vdil[i] * vdil[i] * vdil[i]
		bendCouple[i] = tau.Scale(1 / e3)
		transportCouple[i] = kappa.Cross(tau).Scale(r.RestVoronoiLength[i] / e3)
	}
	twoPoint, err := calculus.DifferenceVec(bendCouple)
	if err != nil {
		return fmt.Errorf("rod %q bend couples: %w", r.name, err)
	}
	threePoint, err := calculus.QuadratureVec(transportCouple)
	if err != nil {
		return fmt.Errorf("rod %q transport couples: %w", r.name, err)
	}

	// Velocity kick.
	for i := 0; i <= n; i++ {
		f := internalForce[i].
			Add(r.ExternalForce[i]).
			Add(r.Velocity[i].Scale(-r.damping * r.lengthWeight[i]))
		r.Velocity[i] = r.Velocity[i].Add(f.Scale(dt / r.Mass[i]))
	}

	// Angular velocity kick.
	for i := 0; i < n; i++ {
		jw := r.Inertia[i].MulVec(r.Omega[i])

		torque := twoPoint[i].Add(threePoint[i])
		// Shear/stretch couple.
		torque = torque.Add(r.Director[i].MulVec(tangents[i]).Cross(stress[i]).Scale(r.RestLength[i]))
		// Lagrangian transport (J w / e) x w.
		torque = torque.Add(jw.Scale(1 / dilatation[i]).Cross(r.Omega[i]))
		// Unsteady dilatation J w de/dt / e^2.
		edot := r.Velocity[i+1].Sub(r.Velocity[i]).Dot(tangents[i]) / r.RestLength[i]
		torque = torque.Add(jw.Scale(edot / (dilatation[i] * dilatation[i])))
		// Damping and external contributions.
		torque = torque.Add(r.Omega[i].Scale(-r.damping * r.RestLength[i]))
		torque = torque.Add(r.ExternalTorque[i])

		alpha := r.InvInertia[i].MulVec(torque).Scale(dilatation[i])
		r.Omega[i] = r.Omega[i].Add(alpha.Scale(dt))
	}

	return nil
}

// Snapshot copies the rod's kinematic state; it never aliases live arrays.
func (r *CosseratRod) Snapshot() sim.Snapshot {
	return sim.Snapshot{
		Name:       r.name,
		Positions:  linalg.CopyVecs(r.Position),
		Velocities: linalg.CopyVecs(r.Velocity),
		Directors:  linalg.CopyMats(r.Director),
	}
}

// CheckFinite reports the first NaN or Inf in the rod state.
func (r *CosseratRod) CheckFinite() error {
	for i, p := range r.Position {
		if !p.IsFinite() {
			return fmt.Errorf("%w: rod %q position[%d]", sim.ErrNonFinite, r.name, i)
		}
	}
	for i, v := range r.Velocity {
		if !v.IsFinite() {
			return fmt.Errorf("%w: rod %q velocity[%d]", sim.ErrNonFinite, r.name, i)
		}
	}
	for i, q := range r.Director {
		if !q.IsFinite() {
			return fmt.Errorf("%w: rod %q director[%d]", sim.ErrNonFinite, r.name, i)
		}
	}
	for i, w := range r.Omega {
		if !w.IsFinite() {
			return fmt.Errorf("%w: rod %q omega[%d]", sim.ErrNonFinite, r.name, i)
		}
	}
	return nil
}

// ElementPosition returns the midpoint of element i.
func (r *CosseratRod) ElementPosition(i int) linalg.Vec {
	return r.Position[i].Add(r.Position[i+1]).Scale(0.5)
}

// ElementVelocity returns the average nodal velocity of element i.
func (r *CosseratRod) ElementVelocity(i int) linalg.Vec {
	return r.Velocity[i].Add(r.Velocity[i+1]).Scale(0.5)
}

// Tangent returns the unit tangent of element i.
func (r *CosseratRod) Tangent(i int) linalg.Vec {
	return r.Position[i+1].Sub(r.Position[i]).Unit()
}

// TotalMass returns the summed nodal mass.
func (r *CosseratRod) TotalMass() float64 {
	total := 0.0
	for _, m := range r.Mass {
		total += m
	}
	return total
}
