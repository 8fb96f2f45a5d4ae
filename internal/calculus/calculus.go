// Package calculus provides the discrete trapezoidal quadrature and
// two-point difference kernels used to move elemental quantities to nodes
// and back along a rod's arc-length axis. The two kernels are adjoint to
// one another, which is what keeps the energy and momentum bookkeeping of
// the rod force computation consistent: the output of Difference always
// sums to zero, and the output of Quadrature preserves the input total.
package calculus

import (
	"errors"
	"fmt"

	"github.com/rteja/rodsim/internal/linalg"
)

// ErrTooFewSamples is returned when a kernel is handed fewer samples along
// the trailing axis than it can operate on.
var ErrTooFewSamples = errors.New("calculus: too few samples along trailing axis")

// Quadrature applies the composite trapezoidal rule to n samples, producing
// n+1 half-interval sums: out[0] = s[0]/2, out[i] = (s[i-1]+s[i])/2 for
// interior i, out[n] = s[n-1]/2. The input is never mutated.
func Quadrature(samples []float64) ([]float64, error) {
	n := len(samples)
	if n < 1 {
		return nil, fmt.Errorf("%w: quadrature needs at least 1 sample, got %d", ErrTooFewSamples, n)
	}
	out := make([]float64, n+1)
	out[0] = 0.5 * samples[0]
	for i := 1; i < n; i++ {
		out[i] = 0.5 * (samples[i-1] + samples[i])
	}
	out[n] = 0.5 * samples[n-1]
	return out, nil
}

// Difference applies the two-point difference to n samples, producing n+1
// values: out[0] = s[0], out[i] = s[i]-s[i-1] for interior i,
// out[n] = -s[n-1]. The boundary closures make Difference the adjoint of
// Quadrature. Inputs with fewer than two samples have no interior gap and
// are rejected. The input is never mutated.
func Difference(samples []float64) ([]float64, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: difference needs at least 2 samples, got %d", ErrTooFewSamples, n)
	}
	out := make([]float64, n+1)
	out[0] = samples[0]
	for i := 1; i < n; i++ {
		out[i] = samples[i] - samples[i-1]
	}
	out[n] = -samples[n-1]
	return out, nil
}

// QuadratureVec is Quadrature applied componentwise to a series of vectors.
func QuadratureVec(samples []linalg.Vec) ([]linalg.Vec, error) {
	n := len(samples)
	if n < 1 {
		return nil, fmt.Errorf("%w: vector quadrature needs at least 1 sample, got %d", ErrTooFewSamples, n)
	}
	out := make([]linalg.Vec, n+1)
	out[0] = samples[0].Scale(0.5)
	for i := 1; i < n; i++ {
		out[i] = samples[i-1].Add(samples[i]).Scale(0.5)
	}
	out[n] = samples[n-1].Scale(0.5)
	return out, nil
}

// DifferenceVec is Difference applied componentwise to a series of vectors.
func DifferenceVec(samples []linalg.Vec) ([]linalg.Vec, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: vector difference needs at least 2 samples, got %d", ErrTooFewSamples, n)
	}
	out := make([]linalg.Vec, n+1)
	out[0] = samples[0]
	for i := 1; i < n; i++ {
		out[i] = samples[i].Sub(samples[i-1])
	}
	out[n] = samples[n-1].Scale(-1)
	return out, nil
}

// QuadratureMat is Quadrature applied componentwise to a series of matrices.
func QuadratureMat(samples []linalg.Mat) ([]linalg.Mat, error) {
	n := len(samples)
	if n < 1 {
		return nil, fmt.Errorf("%w: matrix quadrature needs at least 1 sample, got %d", ErrTooFewSamples, n)
	}
	out := make([]linalg.Mat, n+1)
	out[0] = samples[0].ScaleBy(0.5)
	for i := 1; i < n; i++ {
		out[i] = samples[i-1].Add(samples[i]).ScaleBy(0.5)
	}
	out[n] = samples[n-1].ScaleBy(0.5)
	return out, nil
}

// DifferenceMat is Difference applied componentwise to a series of matrices.
func DifferenceMat(samples []linalg.Mat) ([]linalg.Mat, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: matrix difference needs at least 2 samples, got %d", ErrTooFewSamples, n)
	}
	out := make([]linalg.Mat, n+1)
	out[0] = samples[0]
	for i := 1; i < n; i++ {
		out[i] = samples[i].Add(samples[i-1].ScaleBy(-1))
	}
	out[n] = samples[n-1].ScaleBy(-1)
	return out, nil
}

// Zeros returns a fresh, unaliased slice of n zeros.
func Zeros(n int) []float64 { return make([]float64, n) }
