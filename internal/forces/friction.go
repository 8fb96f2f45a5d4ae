package forces

import (
	"math"

	"github.com/rteja/rodsim/internal/linalg"
	"github.com/rteja/rodsim/internal/rod"
)

// surfaceTol is the gap below which an element counts as touching the plane.
const surfaceTol = 1e-4

// MuSet holds friction coefficients split by slip direction along the rod:
// forward and backward along the local tangent, sideways across it.
type MuSet struct {
	Forward  float64
	Backward float64
	Sideways float64
}

// FrictionPlaneSpec configures an anisotropic frictional plane.
type FrictionPlaneSpec struct {
	// Stiffness and damping of the normal penalty response.
	Stiffness float64
	Damping   float64
	Origin    linalg.Vec
	Normal    linalg.Vec
	// SlipTolerance separates static from kinetic friction.
	SlipTolerance float64
	Static        MuSet
	Kinetic       MuSet
}

// FrictionPlane is a rigid plane with penalty contact and anisotropic
// Coulomb friction. Friction acts at the contact point below each element
// center, so it exchanges linear and angular momentum and lets an
// initially sliding rod roll up. It reads the force accumulator to size
// the normal load, so it must be registered after the contributors whose
// load it supports (gravity in particular).
type FrictionPlane struct {
	target *rod.CosseratRod
	spec   FrictionPlaneSpec
	normal linalg.Vec
}

func NewFrictionPlane(target *rod.CosseratRod, spec FrictionPlaneSpec) *FrictionPlane {
	return &FrictionPlane{target: target, spec: spec, normal: spec.Normal.Unit()}
}

func (p *FrictionPlane) Apply(_ float64) {
	r := p.target
	n := p.normal

	// Element loads come from the force state as assembled by the earlier
	// contributors. The plane writes into the same accumulator it sizes its
	// response from, so it must read a snapshot or later elements would see
	// their load partially cancelled by responses already added.
	applied := linalg.CopyVecs(r.ExternalForce)

	for i := 0; i < r.Elements(); i++ {
		elemPos := r.ElementPosition(i)
		gap := elemPos.Sub(p.spec.Origin).Dot(n) - r.Radius[i]
		if gap > surfaceTol {
			continue
		}

		elemVel := r.ElementVelocity(i)

		// Normal penalty response plus cancellation of the load pressing
		// the element into the plane.
		loadIn := -applied[i].Add(applied[i+1]).Scale(0.5).Dot(n)
		if loadIn < 0 {
			loadIn = 0
		}
		response := loadIn - p.spec.Stiffness*gap - p.spec.Damping*elemVel.Dot(n)
		if response < 0 {
			response = 0
		}
		planeForce := n.Scale(response)
		half := planeForce.Scale(0.5)
		r.ExternalForce[i] = r.ExternalForce[i].Add(half)
		r.ExternalForce[i+1] = r.ExternalForce[i+1].Add(half)

		// Slip velocity of the material contact point under the element
		// center: translation plus spin about the contact arm.
		arm := n.Scale(-r.Radius[i])
		omegaLab := r.Director[i].TransposeMulVec(r.Omega[i])
		contactVel := elemVel.Add(omegaLab.Cross(arm))
		slip := contactVel.Sub(n.Scale(contactVel.Dot(n)))

		axial := r.Tangent(i)
		axialSlip := slip.Dot(axial)
		lateral := slip.Sub(axial.Scale(axialSlip))

		var friction linalg.Vec
		if slip.Norm() > p.spec.SlipTolerance {
			// Kinetic regime: oppose slip, direction-split coefficients.
			mu := p.spec.Kinetic.Forward
			if axialSlip < 0 {
				mu = p.spec.Kinetic.Backward
			}
			if axialSlip != 0 {
				friction = friction.Sub(axial.Scale(sign(axialSlip) * mu * response))
			}
			if lat := lateral.Norm(); lat > 0 {
				friction = friction.Sub(lateral.Scale(p.spec.Kinetic.Sideways * response / lat))
			}
		} else {
			// Static regime: oppose the tangential applied load up to the
			// traction limit.
			load := applied[i].Add(applied[i+1]).Scale(0.5)
			tangential := load.Sub(n.Scale(load.Dot(n)))
			mag := tangential.Norm()
			if mag > 0 {
				mu := p.spec.Static.Sideways
				if ax := math.Abs(tangential.Dot(axial)); ax > 0.5*mag {
					mu = p.spec.Static.Forward
					if tangential.Dot(axial) < 0 {
						mu = p.spec.Static.Backward
					}
				}
				limit := mu * response
				if mag > limit {
					friction = tangential.Scale(-limit / mag)
				} else {
					friction = tangential.Scale(-1)
				}
			}
		}

		halfFriction := friction.Scale(0.5)
		r.ExternalForce[i] = r.ExternalForce[i].Add(halfFriction)
		r.ExternalForce[i+1] = r.ExternalForce[i+1].Add(halfFriction)

		// Friction acts below the element center: torque about the center,
		// expressed in the material frame.
		torque := r.Director[i].MulVec(arm.Cross(friction))
		r.ExternalTorque[i] = r.ExternalTorque[i].Add(torque)
	}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
