package droneod

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Propagate performs one Euler step of the planar quadrotor dynamics:
//
//	ẋ = vx; ż = vz; φ̇ = ω
//	v̇x = -sin(φ)/m * T
//	v̇z = cos(φ)/m * T - g
//	ω̇ = τ/J
//
// where the input u is [thrust T, torque τ]. The step is defined for any
// finite state and input; extreme inputs will diverge, which is not guarded.
func (v Vehicle) Propagate(x, u mat.Vector, dt float64) *mat.VecDense {
	φ := x.AtVec(2)
	thrust := u.AtVec(0)
	torque := u.AtVec(1)
	xDot := []float64{
		x.AtVec(3),
		x.AtVec(4),
		x.AtVec(5),
		-math.Sin(φ) / v.Mass * thrust,
		math.Cos(φ)/v.Mass*thrust - v.Gravity,
		torque / v.Inertia,
	}
	next := mat.NewVecDense(6, nil)
	for i := 0; i < 6; i++ {
		next.SetVec(i, x.AtVec(i)+dt*xDot[i])
	}
	return next
}

// Jacobian returns the 6x6 partials of Propagate with respect to the state,
// evaluated at the operating point (x, u). This is a first-order Taylor
// approximation, only valid near that point.
func (v Vehicle) Jacobian(x, u mat.Vector, dt float64) *mat.Dense {
	φ := x.AtVec(2)
	thrust := u.AtVec(0)
	F := eye(6)
	// Position and bearing pick up their rates.
	F.Set(0, 3, dt)
	F.Set(1, 4, dt)
	F.Set(2, 5, dt)
	// Velocities pick up the bearing through the thrust projection.
	F.Set(3, 2, -dt*math.Cos(φ)/v.Mass*thrust)
	F.Set(4, 2, -dt*math.Sin(φ)/v.Mass*thrust)
	return F
}

// eye returns an n by n identity matrix.
func eye(n int) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}
