package linalg

import "math"

// Vec is a 3-component vector.
type Vec [3]float64

func (v Vec) Add(w Vec) Vec { return Vec{v[0] + w[0], v[1] + w[1], v[2] + w[2]} }
func (v Vec) Sub(w Vec) Vec { return Vec{v[0] - w[0], v[1] - w[1], v[2] - w[2]} }
func (v Vec) Scale(s float64) Vec { return Vec{v[0] * s, v[1] * s, v[2] * s} }

func (v Vec) Dot(w Vec) float64 { return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] }

func (v Vec) Cross(w Vec) Vec {
	return Vec{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

func (v Vec) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

func (v Vec) IsFinite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// ZeroVecs returns a fresh, unaliased slice of n zero vectors.
func ZeroVecs(n int) []Vec { return make([]Vec, n) }

// CopyVecs returns a copy of src that shares no storage with it.
func CopyVecs(src []Vec) []Vec {
	dst := make([]Vec, len(src))
	copy(dst, src)
	return dst
}
