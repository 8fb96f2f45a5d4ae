package linalg

import "math"

// smallAngle guards the series expansions below; under this threshold the
// quadratic Taylor terms are exact to double precision.
const smallAngle = 1e-10

// Skew returns the cross-product matrix [v]x so that Skew(v).MulVec(w) == v.Cross(w).
func Skew(v Vec) Mat {
	return Mat{
		{0, -v[2], v[1]},
		{v[2], 0, -v[0]},
		{-v[1], v[0], 0},
	}
}

// RotationExp returns the rotation matrix exp([r]x) for a rotation vector r
// (Rodrigues formula). The rotation angle is |r|.
func RotationExp(r Vec) Mat {
	theta := r.Norm()
	k := Skew(r)
	k2 := k.Mul(k)

	var a, b float64
	if theta < smallAngle {
		a = 1 - theta*theta/6
		b = 0.5 - theta*theta/24
	} else {
		a = math.Sin(theta) / theta
		b = (1 - math.Cos(theta)) / (theta * theta)
	}

	return Identity().Add(k.ScaleBy(a)).Add(k2.ScaleBy(b))
}

// RotationLog returns the rotation vector r with RotationExp(r) == m, for m a
// proper rotation. The result angle lies in [0, pi).
func RotationLog(m Mat) Vec {
	// Clamp against round-off pushing the trace out of [-1, 3].
	c := 0.5 * (m.Trace() - 1)
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	theta := math.Acos(c)

	axis := Vec{
		m[2][1] - m[1][2],
		m[0][2] - m[2][0],
		m[1][0] - m[0][1],
	}

	if theta < smallAngle {
		return axis.Scale(0.5)
	}
	return axis.Scale(0.5 * theta / math.Sin(theta))
}

// RotateFrame advances a director frame by a rotation of angle |r| about the
// material axis r/|r|: the frame Q becomes exp(-[r]x) * Q. This is the exact
// solution of dQ/dt = -[omega]x Q over one sub-step with r = omega*dt.
func RotateFrame(q Mat, r Vec) Mat {
	return RotationExp(Vec{-r[0], -r[1], -r[2]}).Mul(q)
}
