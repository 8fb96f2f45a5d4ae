package rod

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rteja/rodsim/internal/calculus"
	"github.com/rteja/rodsim/internal/linalg"
)

// ErrBadRodSpec indicates an invalid straight-rod specification; surfaced
// at setup, never during stepping.
var ErrBadRodSpec = errors.New("rod: invalid straight rod spec")

// Timoshenko shear correction for a circular cross-section.
const shearCorrection = 4.0 / 3.0

// StraightRodSpec describes an initially straight, uniform rod.
type StraightRodSpec struct {
	Name      string
	Elements  int
	Start     linalg.Vec
	Direction linalg.Vec
	Normal    linalg.Vec
	Length    float64
	Radius    float64
	Density   float64
	// Damping is the velocity damping coefficient nu.
	Damping       float64
	YoungsModulus float64
	PoissonRatio  float64
	// InertiaFactor scales the mass second moment of inertia; values <= 0
	// leave it unscaled. Used by rolling validation studies.
	InertiaFactor float64
}

// NewStraightRod builds a straight rod along Direction with the material
// frame (Normal, Direction x Normal, Direction). Element masses are lumped
// half to each adjacent node. The bend stiffness on interior Voronoi
// domains is the rest-length weighted average of the element stiffnesses.
func NewStraightRod(spec StraightRodSpec) (*CosseratRod, error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}

	n := spec.Elements
	d3 := spec.Direction.Unit()
	d1 := spec.Normal.Unit()
	d2 := d3.Cross(d1)
	frame := linalg.FrameFromDirectors(d1, d2, d3)

	restLength := spec.Length / float64(n)
	area := math.Pi * spec.Radius * spec.Radius
	elementMass := spec.Density * area * restLength

	shearModulus := spec.YoungsModulus / (2 * (1 + spec.PoissonRatio))
	i1 := math.Pi / 4 * math.Pow(spec.Radius, 4)
	i3 := 2 * i1

	inertiaScale := spec.InertiaFactor
	if inertiaScale <= 0 {
		inertiaScale = 1
	}

	r := &CosseratRod{
		name:              spec.Name,
		n:                 n,
		Position:          make([]linalg.Vec, n+1),
		Velocity:          linalg.ZeroVecs(n + 1),
		Mass:              make([]float64, n+1),
		ExternalForce:     linalg.ZeroVecs(n + 1),
		Director:          make([]linalg.Mat, n),
		Omega:             linalg.ZeroVecs(n),
		ExternalTorque:    linalg.ZeroVecs(n),
		RestLength:        make([]float64, n),
		Radius:            make([]float64, n),
		ShearMatrix:       make([]linalg.Mat, n),
		Inertia:           make([]linalg.Mat, n),
		InvInertia:        make([]linalg.Mat, n),
		RestVoronoiLength: make([]float64, n-1),
		BendMatrix:        make([]linalg.Mat, n-1),
		RestKappa:         linalg.ZeroVecs(n - 1),
		damping:           spec.Damping,
	}

	for i := 0; i <= n; i++ {
		r.Position[i] = spec.Start.Add(d3.Scale(restLength * float64(i)))
	}
	for i := 0; i < n; i++ {
		r.Director[i] = frame
		r.RestLength[i] = restLength
		r.Radius[i] = spec.Radius

		r.Mass[i] += 0.5 * elementMass
		r.Mass[i+1] += 0.5 * elementMass

		r.ShearMatrix[i] = linalg.Diag(
			shearCorrection*shearModulus*area,
			shearCorrection*shearModulus*area,
			spec.YoungsModulus*area,
		)

		inertia := linalg.Diag(i1, i1, i3).ScaleBy(spec.Density * restLength * inertiaScale)
		r.Inertia[i] = inertia
		inv, err := invert(inertia)
		if err != nil {
			return nil, fmt.Errorf("%w: singular mass second moment of inertia", ErrBadRodSpec)
		}
		r.InvInertia[i] = inv
	}

	bend := linalg.Diag(
		spec.YoungsModulus*i1,
		spec.YoungsModulus*i1,
		shearModulus*i3,
	)
	for i := 0; i < n-1; i++ {
		r.RestVoronoiLength[i] = restLength
		// Uniform rod: the weighted average of equal stiffnesses.
		r.BendMatrix[i] = bend
	}

	weights, err := quadratureWeights(r.RestLength)
	if err != nil {
		return nil, err
	}
	r.lengthWeight = weights

	return r, nil
}

func (s StraightRodSpec) validate() error {
	switch {
	case s.Elements < 3:
		return fmt.Errorf("%w: need at least 3 elements, got %d", ErrBadRodSpec, s.Elements)
	case s.Length <= 0:
		return fmt.Errorf("%w: length must be positive, got %g", ErrBadRodSpec, s.Length)
	case s.Radius <= 0:
		return fmt.Errorf("%w: radius must be positive, got %g", ErrBadRodSpec, s.Radius)
	case s.Density <= 0:
		return fmt.Errorf("%w: density must be positive, got %g", ErrBadRodSpec, s.Density)
	case s.YoungsModulus <= 0:
		return fmt.Errorf("%w: Young's modulus must be positive, got %g", ErrBadRodSpec, s.YoungsModulus)
	case s.Direction.Norm() == 0:
		return fmt.Errorf("%w: direction must be nonzero", ErrBadRodSpec)
	case s.Normal.Norm() == 0:
		return fmt.Errorf("%w: normal must be nonzero", ErrBadRodSpec)
	}
	if math.Abs(s.Direction.Unit().Dot(s.Normal.Unit())) > 1e-10 {
		return fmt.Errorf("%w: direction and normal must be perpendicular", ErrBadRodSpec)
	}
	return nil
}

// quadratureWeights lumps element rest lengths onto nodes.
func quadratureWeights(restLengths []float64) ([]float64, error) {
	w, err := calculus.Quadrature(restLengths)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRodSpec, err)
	}
	return w, nil
}

// invert inverts a 3x3 tensor through gonum's LU path.
func invert(m linalg.Mat) (linalg.Mat, error) {
	flat := make([]float64, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			flat[3*i+j] = m[i][j]
		}
	}
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(3, 3, flat)); err != nil {
		return linalg.Mat{}, err
	}
	var out linalg.Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = inv.At(i, j)
		}
	}
	return out, nil
}
