package rod

import (
	"errors"
	"math"
	"testing"

	"github.com/rteja/rodsim/internal/linalg"
)

func testSpec() StraightRodSpec {
	return StraightRodSpec{
		Name:          "test",
		Elements:      10,
		Start:         linalg.Vec{},
		Direction:     linalg.Vec{0, 0, 1},
		Normal:        linalg.Vec{0, 1, 0},
		Length:        1.0,
		Radius:        0.025,
		Density:       1000.0,
		YoungsModulus: 1e6,
		PoissonRatio:  0.5,
	}
}

func TestNewStraightRodGeometry(t *testing.T) {
	r, err := NewStraightRod(testSpec())
	if err != nil {
		t.Fatal(err)
	}

	if r.Nodes() != 11 || r.Elements() != 10 {
		t.Fatalf("nodes=%d elements=%d", r.Nodes(), r.Elements())
	}

	// Nodes sit on the axis at uniform spacing.
	for i, p := range r.Position {
		want := 0.1 * float64(i)
		if math.Abs(p[2]-want) > 1e-14 || p[0] != 0 || p[1] != 0 {
			t.Fatalf("position[%d] = %v", i, p)
		}
	}

	// Directors: d1 = normal, d3 = direction.
	q := r.Director[0]
	if q.Row(0) != (linalg.Vec{0, 1, 0}) || q.Row(2) != (linalg.Vec{0, 0, 1}) {
		t.Fatalf("director frame = %v", q)
	}
	if q.Row(1) != q.Row(2).Cross(q.Row(0)) {
		t.Fatal("d2 != d3 x d1")
	}
}

func TestNewStraightRodMassLumping(t *testing.T) {
	spec := testSpec()
	r, err := NewStraightRod(spec)
	if err != nil {
		t.Fatal(err)
	}

	area := math.Pi * spec.Radius * spec.Radius
	wantTotal := spec.Density * area * spec.Length
	if math.Abs(r.TotalMass()-wantTotal) > 1e-12*wantTotal {
		t.Errorf("total mass = %g, want %g", r.TotalMass(), wantTotal)
	}

	// End nodes carry half of one element, interior nodes a full element.
	elemMass := wantTotal / float64(spec.Elements)
	if math.Abs(r.Mass[0]-0.5*elemMass) > 1e-15 {
		t.Errorf("end node mass = %g, want %g", r.Mass[0], 0.5*elemMass)
	}
	if math.Abs(r.Mass[3]-elemMass) > 1e-15 {
		t.Errorf("interior node mass = %g, want %g", r.Mass[3], elemMass)
	}
}

func TestNewStraightRodValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*StraightRodSpec)
	}{
		{"too few elements", func(s *StraightRodSpec) { s.Elements = 2 }},
		{"zero length", func(s *StraightRodSpec) { s.Length = 0 }},
		{"negative radius", func(s *StraightRodSpec) { s.Radius = -1 }},
		{"zero density", func(s *StraightRodSpec) { s.Density = 0 }},
		{"zero modulus", func(s *StraightRodSpec) { s.YoungsModulus = 0 }},
		{"zero direction", func(s *StraightRodSpec) { s.Direction = linalg.Vec{} }},
		{"parallel normal", func(s *StraightRodSpec) { s.Normal = linalg.Vec{0, 0, 2} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec()
			tt.mutate(&spec)
			if _, err := NewStraightRod(spec); !errors.Is(err, ErrBadRodSpec) {
				t.Errorf("err = %v, want ErrBadRodSpec", err)
			}
		})
	}
}

func TestKinematicStepDrift(t *testing.T) {
	r, _ := NewStraightRod(testSpec())
	for i := range r.Velocity {
		r.Velocity[i] = linalg.Vec{1, 2, 0}
	}

	r.KinematicStep(0, 0.5)

	for i, p := range r.Position {
		if math.Abs(p[0]-0.5) > 1e-14 || math.Abs(p[1]-1.0) > 1e-14 {
			t.Fatalf("position[%d] = %v after drift", i, p)
		}
	}
}

func TestKinematicStepKeepsDirectorsOrthonormal(t *testing.T) {
	r, _ := NewStraightRod(testSpec())
	for i := range r.Omega {
		r.Omega[i] = linalg.Vec{0.5, -0.2, 1.0}
	}

	for k := 0; k < 200; k++ {
		r.KinematicStep(0, 1e-2)
	}

	for i, q := range r.Director {
		prod := q.Transpose().Mul(q)
		id := linalg.Identity()
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				if math.Abs(prod[a][b]-id[a][b]) > 1e-10 {
					t.Fatalf("director[%d] lost orthonormality: %v", i, prod)
				}
			}
		}
	}
}

func TestStraightRodAtRestHasNoInternalLoads(t *testing.T) {
	r, _ := NewStraightRod(testSpec())

	if err := r.DynamicStep(0, 1e-3); err != nil {
		t.Fatal(err)
	}

	for i, v := range r.Velocity {
		if v.Norm() > 1e-12 {
			t.Fatalf("velocity[%d] = %v for undeformed rod", i, v)
		}
	}
	for i, w := range r.Omega {
		if w.Norm() > 1e-12 {
			t.Fatalf("omega[%d] = %v for undeformed rod", i, w)
		}
	}
}

func TestStretchedRodRestores(t *testing.T) {
	r, _ := NewStraightRod(testSpec())
	// Uniform 1% stretch along the axis.
	for i := range r.Position {
		r.Position[i][2] *= 1.01
	}

	if err := r.DynamicStep(0, 1e-4); err != nil {
		t.Fatal(err)
	}

	// End nodes must be pulled back toward the center.
	if r.Velocity[0][2] <= 0 {
		t.Errorf("first node velocity %v, want positive z", r.Velocity[0])
	}
	if r.Velocity[r.Nodes()-1][2] >= 0 {
		t.Errorf("last node velocity %v, want negative z", r.Velocity[r.Nodes()-1])
	}
	// Uniform stretch leaves interior nodes force-free.
	if r.Velocity[5].Norm() > 1e-12 {
		t.Errorf("interior node velocity %v, want zero", r.Velocity[5])
	}
}

func TestBentRodRestores(t *testing.T) {
	r, _ := NewStraightRod(testSpec())
	// Rotate the last element's frame slightly about d1 to induce pure
	// bend strain on the final Voronoi domain.
	last := r.Elements() - 1
	r.Director[last] = linalg.RotateFrame(r.Director[last], linalg.Vec{0.01, 0, 0})

	if err := r.DynamicStep(0, 1e-4); err != nil {
		t.Fatal(err)
	}

	// The two elements sharing the strained domain must counter-rotate.
	if r.Omega[last].Norm() == 0 || r.Omega[last-1].Norm() == 0 {
		t.Fatal("bend strain produced no rotation response")
	}
	if r.Omega[last][0]*r.Omega[last-1][0] >= 0 {
		t.Errorf("straightening torques not opposed: %v vs %v", r.Omega[last-1], r.Omega[last])
	}
}

func TestResetAccumulators(t *testing.T) {
	r, _ := NewStraightRod(testSpec())
	r.ExternalForce[2] = linalg.Vec{1, 1, 1}
	r.ExternalTorque[1] = linalg.Vec{2, 2, 2}

	r.ResetAccumulators()

	for i := range r.ExternalForce {
		if r.ExternalForce[i] != (linalg.Vec{}) {
			t.Fatal("force accumulator not zeroed")
		}
	}
	for i := range r.ExternalTorque {
		if r.ExternalTorque[i] != (linalg.Vec{}) {
			t.Fatal("torque accumulator not zeroed")
		}
	}
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	r, _ := NewStraightRod(testSpec())
	snap := r.Snapshot()
	snap.Positions[0][0] = 42
	if r.Position[0][0] == 42 {
		t.Error("snapshot aliases live position array")
	}
}

func TestCheckFinite(t *testing.T) {
	r, _ := NewStraightRod(testSpec())
	if err := r.CheckFinite(); err != nil {
		t.Fatalf("fresh rod reported %v", err)
	}
	r.Velocity[4][1] = math.NaN()
	if err := r.CheckFinite(); err == nil {
		t.Error("NaN velocity not detected")
	}
}

func TestShearEnergyOfUniformStretch(t *testing.T) {
	spec := testSpec()
	r, _ := NewStraightRod(spec)
	for i := range r.Position {
		r.Position[i][2] *= 1.01
	}

	area := math.Pi * spec.Radius * spec.Radius
	// sigma = (0, 0, e-1) under pure stretch.
	want := 0.5 * spec.YoungsModulus * area * 0.01 * 0.01 * spec.Length
	got := r.ShearEnergy()
	if math.Abs(got-want) > 1e-6*want {
		t.Errorf("shear energy = %g, want %g", got, want)
	}
}

func TestSphereContract(t *testing.T) {
	s, err := NewSphere("ball", linalg.Vec{0, 1, 0}, 0.1, 1000)
	if err != nil {
		t.Fatal(err)
	}

	wantMass := 1000 * 4.0 / 3.0 * math.Pi * 1e-3
	if math.Abs(s.Mass-wantMass) > 1e-12*wantMass {
		t.Errorf("mass = %g, want %g", s.Mass, wantMass)
	}

	s.ExternalForce = linalg.Vec{0, -s.Mass * 9.81, 0}
	if err := s.DynamicStep(0, 0.1); err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.Velocity[1]+0.981) > 1e-12 {
		t.Errorf("velocity = %v after gravity kick", s.Velocity)
	}

	s.ResetAccumulators()
	if s.ExternalForce != (linalg.Vec{}) {
		t.Error("accumulator not reset")
	}

	snap := s.Snapshot()
	if len(snap.Positions) != 1 || len(snap.Directors) != 1 {
		t.Error("sphere snapshot shape")
	}
}
