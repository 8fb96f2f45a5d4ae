// Package forces holds the external force and torque contributors. Every
// contributor binds its target rod at construction and adds into the rod's
// accumulators when applied; contributors never overwrite accumulator
// entries, so any number of them can stack on one body.
package forces

import (
	"github.com/rteja/rodsim/internal/linalg"
	"github.com/rteja/rodsim/internal/rod"
)

// Gravity applies a uniform acceleration to every node, weighted by the
// lumped nodal mass.
type Gravity struct {
	target *rod.CosseratRod
	acc    linalg.Vec
}

func NewGravity(target *rod.CosseratRod, acc linalg.Vec) *Gravity {
	return &Gravity{target: target, acc: acc}
}

func (g *Gravity) Apply(_ float64) {
	for i := range g.target.ExternalForce {
		g.target.ExternalForce[i] = g.target.ExternalForce[i].Add(g.acc.Scale(g.target.Mass[i]))
	}
}

// UniformForce spreads a total lab-frame force evenly along the rod, with
// the end nodes carrying half shares.
type UniformForce struct {
	target *rod.CosseratRod
	force  linalg.Vec
}

func NewUniformForce(target *rod.CosseratRod, force linalg.Vec) *UniformForce {
	return &UniformForce{target: target, force: force}
}

func (u *UniformForce) Apply(_ float64) {
	n := u.target.Elements()
	share := u.force.Scale(1 / float64(n))
	half := share.Scale(0.5)
	for i := 0; i < n; i++ {
		u.target.ExternalForce[i] = u.target.ExternalForce[i].Add(half)
		u.target.ExternalForce[i+1] = u.target.ExternalForce[i+1].Add(half)
	}
}

// UniformTorque spreads a total lab-frame torque evenly over the elements,
// rotated into each element's material frame.
type UniformTorque struct {
	target *rod.CosseratRod
	torque linalg.Vec
}

func NewUniformTorque(target *rod.CosseratRod, torque linalg.Vec) *UniformTorque {
	return &UniformTorque{target: target, torque: torque}
}

func (u *UniformTorque) Apply(_ float64) {
	n := u.target.Elements()
	share := u.torque.Scale(1 / float64(n))
	for i := 0; i < n; i++ {
		local := u.target.Director[i].MulVec(share)
		u.target.ExternalTorque[i] = u.target.ExternalTorque[i].Add(local)
	}
}

// EndpointForces applies lab-frame forces to the first and last node,
// ramped linearly from zero over RampUpTime to avoid shock loading.
type EndpointForces struct {
	target     *rod.CosseratRod
	start, end linalg.Vec
	rampUpTime float64
}

func NewEndpointForces(target *rod.CosseratRod, start, end linalg.Vec, rampUpTime float64) *EndpointForces {
	return &EndpointForces{target: target, start: start, end: end, rampUpTime: rampUpTime}
}

func (e *EndpointForces) Apply(time float64) {
	factor := 1.0
	if e.rampUpTime > 0 && time < e.rampUpTime {
		factor = time / e.rampUpTime
	}
	last := e.target.Nodes() - 1
	e.target.ExternalForce[0] = e.target.ExternalForce[0].Add(e.start.Scale(factor))
	e.target.ExternalForce[last] = e.target.ExternalForce[last].Add(e.end.Scale(factor))
}

// SpringJoint connects the tail node of one rod to the head node of another
// with a damped linear spring, implementing the connection contract: equal
// and opposite forces on both bodies.
type SpringJoint struct {
	a, b    *rod.CosseratRod
	spring  float64
	damping float64
}

func NewSpringJoint(a, b *rod.CosseratRod, spring, damping float64) *SpringJoint {
	return &SpringJoint{a: a, b: b, spring: spring, damping: damping}
}

func (j *SpringJoint) Apply(_ float64) {
	tail := j.a.Nodes() - 1
	gap := j.b.Position[0].Sub(j.a.Position[tail])
	relVel := j.b.Velocity[0].Sub(j.a.Velocity[tail])

	force := gap.Scale(j.spring).Add(relVel.Scale(j.damping))
	j.a.ExternalForce[tail] = j.a.ExternalForce[tail].Add(force)
	j.b.ExternalForce[0] = j.b.ExternalForce[0].Sub(force)
}
