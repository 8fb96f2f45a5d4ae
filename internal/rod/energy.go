package rod

import "github.com/rteja/rodsim/internal/linalg"

// TranslationalEnergy returns the kinetic energy of the nodal masses.
func (r *CosseratRod) TranslationalEnergy() float64 {
	e := 0.0
	for i, v := range r.Velocity {
		e += 0.5 * r.Mass[i] * v.Dot(v)
	}
	return e
}

// RotationalEnergy returns the kinetic energy of the element rotations.
func (r *CosseratRod) RotationalEnergy() float64 {
	e := 0.0
	for i, w := range r.Omega {
		e += 0.5 * w.Dot(r.Inertia[i].MulVec(w))
	}
	return e
}

// ShearEnergy returns the elastic energy stored in shear and stretch.
func (r *CosseratRod) ShearEnergy() float64 {
	e := 0.0
	for i := 0; i < r.n; i++ {
		dr := r.Position[i+1].Sub(r.Position[i])
		l := dr.Norm()
		dilatation := l / r.RestLength[i]
		sigma := r.Director[i].MulVec(dr.Scale(dilatation / l)).Sub(zHat)
		e += 0.5 * sigma.Dot(r.ShearMatrix[i].MulVec(sigma)) * r.RestLength[i]
	}
	return e
}

// BendingEnergy returns the elastic energy stored in bend and twist.
func (r *CosseratRod) BendingEnergy() float64 {
	e := 0.0
	for i := 0; i < r.n-1; i++ {
		rel := r.Director[i+1].MulTranspose(r.Director[i])
		kappa := linalg.RotationLog(rel).Scale(-1 / r.RestVoronoiLength[i])
		strain := kappa.Sub(r.RestKappa[i])
		e += 0.5 * strain.Dot(r.BendMatrix[i].MulVec(strain)) * r.RestVoronoiLength[i]
	}
	return e
}

// CenterOfMass returns the mass-weighted mean nodal position.
func (r *CosseratRod) CenterOfMass() linalg.Vec {
	var com linalg.Vec
	for i, p := range r.Position {
		com = com.Add(p.Scale(r.Mass[i]))
	}
	return com.Scale(1 / r.TotalMass())
}

// MeanVelocity returns the mass-weighted mean nodal velocity.
func (r *CosseratRod) MeanVelocity() linalg.Vec {
	var v linalg.Vec
	for i, vel := range r.Velocity {
		v = v.Add(vel.Scale(r.Mass[i]))
	}
	return v.Scale(1 / r.TotalMass())
}
