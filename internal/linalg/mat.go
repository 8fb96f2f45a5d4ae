package linalg

import "math"

// Mat is a 3x3 matrix, stored row-major. Director frames are Mat values
// whose rows are the material directors d1, d2, d3 expressed in the lab
// frame, so a Mat maps lab vectors into the material frame.
type Mat [3][3]float64

func Identity() Mat {
	return Mat{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func Diag(a, b, c float64) Mat {
	return Mat{{a, 0, 0}, {0, b, 0}, {0, 0, c}}
}

// FrameFromDirectors builds a director matrix with rows d1, d2, d3.
func FrameFromDirectors(d1, d2, d3 Vec) Mat {
	return Mat{
		{d1[0], d1[1], d1[2]},
		{d2[0], d2[1], d2[2]},
		{d3[0], d3[1], d3[2]},
	}
}

func (m Mat) Row(i int) Vec { return Vec{m[i][0], m[i][1], m[i][2]} }

func (m Mat) MulVec(v Vec) Vec {
	return Vec{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// TransposeMulVec computes transpose(m) * v without forming the transpose.
func (m Mat) TransposeMulVec(v Vec) Vec {
	return Vec{
		m[0][0]*v[0] + m[1][0]*v[1] + m[2][0]*v[2],
		m[0][1]*v[0] + m[1][1]*v[1] + m[2][1]*v[2],
		m[0][2]*v[0] + m[1][2]*v[1] + m[2][2]*v[2],
	}
}

func (m Mat) Mul(other Mat) Mat {
	var out Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*other[0][j] + m[i][1]*other[1][j] + m[i][2]*other[2][j]
		}
	}
	return out
}

func (m Mat) MulTranspose(other Mat) Mat {
	var out Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*other[j][0] + m[i][1]*other[j][1] + m[i][2]*other[j][2]
		}
	}
	return out
}

func (m Mat) Transpose() Mat {
	var out Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[j][i]
		}
	}
	return out
}

func (m Mat) Add(other Mat) Mat {
	var out Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] + other[i][j]
		}
	}
	return out
}

func (m Mat) ScaleBy(s float64) Mat {
	var out Mat
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][j] * s
		}
	}
	return out
}

func (m Mat) Trace() float64 { return m[0][0] + m[1][1] + m[2][2] }

func (m Mat) IsFinite() bool {
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.IsNaN(m[i][j]) || math.IsInf(m[i][j], 0) {
				return false
			}
		}
	}
	return true
}

// ZeroMats returns a fresh, unaliased slice of n zero matrices.
func ZeroMats(n int) []Mat { return make([]Mat, n) }

// CopyMats returns a copy of src that shares no storage with it.
func CopyMats(src []Mat) []Mat {
	dst := make([]Mat, len(src))
	copy(dst, src)
	return dst
}
