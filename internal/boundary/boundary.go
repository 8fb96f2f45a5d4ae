// Package boundary holds the constraint implementations. Constraints
// overwrite the degrees of freedom they own, after every kinematic and
// dynamic sub-step, so constrained entries never drift.
package boundary

import (
	"github.com/rteja/rodsim/internal/linalg"
	"github.com/rteja/rodsim/internal/rod"
)

// FreeRod constrains nothing; it exists so every body can carry an explicit
// boundary condition.
type FreeRod struct{}

func NewFreeRod() FreeRod { return FreeRod{} }

func (FreeRod) ConstrainValues(float64) {}
func (FreeRod) ConstrainRates(float64)  {}

// OneEndFixedRod pins the first node and first director frame to their
// values at construction time.
type OneEndFixedRod struct {
	target   *rod.CosseratRod
	position linalg.Vec
	director linalg.Mat
}

func NewOneEndFixedRod(target *rod.CosseratRod) *OneEndFixedRod {
	return &OneEndFixedRod{
		target:   target,
		position: target.Position[0],
		director: target.Director[0],
	}
}

func (c *OneEndFixedRod) ConstrainValues(float64) {
	c.target.Position[0] = c.position
	c.target.Director[0] = c.director
}

func (c *OneEndFixedRod) ConstrainRates(float64) {
	c.target.Velocity[0] = linalg.Vec{}
	c.target.Omega[0] = linalg.Vec{}
}
