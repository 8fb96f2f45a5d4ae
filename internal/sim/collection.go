package sim

import "fmt"

// Collection is the ordered aggregate the stepper operates over: bodies
// plus their registered force contributors, constraints, and connections.
// It owns no physics. The body set is fixed after Finalize; registration
// afterwards is a configuration error.
type Collection struct {
	bodies      []Body
	forcers     []Forcer
	constraints []Constraint
	joints      []Forcer
	finalized   bool
}

func NewCollection() *Collection {
	return &Collection{}
}

// Append registers a body. Bodies step in registration order.
func (c *Collection) Append(b Body) error {
	if c.finalized {
		return fmt.Errorf("%w: cannot append body %q", ErrFinalized, b.Name())
	}
	c.bodies = append(c.bodies, b)
	return nil
}

// AddForcing registers a force/torque contributor. Contributors run
// serially in registration order each stage, so contributors that read the
// accumulators (contact, friction) must be registered after the ones they
// depend on.
func (c *Collection) AddForcing(f Forcer) error {
	if c.finalized {
		return fmt.Errorf("%w: cannot add forcing", ErrFinalized)
	}
	c.forcers = append(c.forcers, f)
	return nil
}

// AddConstraint registers a boundary condition.
func (c *Collection) AddConstraint(ct Constraint) error {
	if c.finalized {
		return fmt.Errorf("%w: cannot add constraint", ErrFinalized)
	}
	c.constraints = append(c.constraints, ct)
	return nil
}

// AddJoint registers a connection between bodies. Joints contribute forces
// after all plain forcers.
func (c *Collection) AddJoint(j Forcer) error {
	if c.finalized {
		return fmt.Errorf("%w: cannot add joint", ErrFinalized)
	}
	c.joints = append(c.joints, j)
	return nil
}

// Finalize freezes the collection. It must be called exactly once before
// integration begins.
func (c *Collection) Finalize() error {
	if c.finalized {
		return ErrFinalized
	}
	if len(c.bodies) == 0 {
		return ErrNoBodies
	}
	c.finalized = true
	return nil
}

func (c *Collection) Finalized() bool { return c.finalized }

func (c *Collection) Bodies() []Body { return c.bodies }

// SynchronizeForces re-evaluates every contributor against the current
// kinematic state: accumulators are zeroed, then forcers and joints add
// their contributions in order.
func (c *Collection) SynchronizeForces(time float64) {
	for _, b := range c.bodies {
		b.ResetAccumulators()
	}
	for _, f := range c.forcers {
		f.Apply(time)
	}
	for _, j := range c.joints {
		j.Apply(time)
	}
}

func (c *Collection) constrainValues(time float64) {
	for _, ct := range c.constraints {
		ct.ConstrainValues(time)
	}
}

func (c *Collection) constrainRates(time float64) {
	for _, ct := range c.constraints {
		ct.ConstrainRates(time)
	}
}

// CheckFinite returns the first body whose state holds NaN or Inf.
func (c *Collection) CheckFinite() error {
	for _, b := range c.bodies {
		if err := b.CheckFinite(); err != nil {
			return err
		}
	}
	return nil
}
