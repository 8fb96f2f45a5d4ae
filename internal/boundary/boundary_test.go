package boundary

import (
	"context"
	"testing"

	"github.com/rteja/rodsim/internal/forces"
	"github.com/rteja/rodsim/internal/linalg"
	"github.com/rteja/rodsim/internal/rod"
	"github.com/rteja/rodsim/internal/sim"
)

func hangingRod(t *testing.T) *rod.CosseratRod {
	t.Helper()
	r, err := rod.NewStraightRod(rod.StraightRodSpec{
		Name:          "cantilever",
		Elements:      6,
		Direction:     linalg.Vec{0, 0, 1},
		Normal:        linalg.Vec{0, 1, 0},
		Length:        0.5,
		Radius:        0.01,
		Density:       2000.0,
		Damping:       0.1,
		YoungsModulus: 1e5,
		PoissonRatio:  0.5,
	})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestOneEndFixedRodHoldsUnderGravity(t *testing.T) {
	r := hangingRod(t)
	origin := r.Position[0]
	frame := r.Director[0]

	c := sim.NewCollection()
	if err := c.Append(r); err != nil {
		t.Fatal(err)
	}
	if err := c.AddForcing(forces.NewGravity(r, linalg.Vec{0, -9.81, 0})); err != nil {
		t.Fatal(err)
	}
	if err := c.AddConstraint(NewOneEndFixedRod(r)); err != nil {
		t.Fatal(err)
	}
	if err := c.Finalize(); err != nil {
		t.Fatal(err)
	}

	_, err := sim.Integrate(context.Background(), sim.PositionVerlet(), c, sim.Config{
		FinalTime:     0.01,
		TotalSteps:    200,
		RecordEvery:   50,
		ValidateState: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if r.Position[0] != origin {
		t.Errorf("pinned node moved to %v", r.Position[0])
	}
	if r.Director[0] != frame {
		t.Errorf("pinned frame drifted")
	}
	if r.Velocity[0] != (linalg.Vec{}) || r.Omega[0] != (linalg.Vec{}) {
		t.Errorf("pinned rates nonzero: v=%v w=%v", r.Velocity[0], r.Omega[0])
	}

	// The free end must have sagged under gravity.
	last := r.Nodes() - 1
	if r.Position[last][1] >= 0 {
		t.Errorf("free end did not sag: %v", r.Position[last])
	}
}

func TestFreeRodConstrainsNothing(t *testing.T) {
	r := hangingRod(t)
	before := r.Snapshot()

	f := NewFreeRod()
	f.ConstrainValues(0)
	f.ConstrainRates(0)

	after := r.Snapshot()
	for i := range before.Positions {
		if before.Positions[i] != after.Positions[i] {
			t.Fatal("FreeRod moved a node")
		}
	}
}
