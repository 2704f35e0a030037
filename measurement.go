package droneod

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Landmark is the fixed reference point the range/bearing sensor tracks. The
// Y coordinate is a lateral offset: the quadrotor flies in the xz plane, so Y
// only ever contributes a constant to the range.
type Landmark struct {
	X, Y, Z float64
}

// Distance returns the Euclidean distance from the state's position to the
// landmark. It is NaN-free for every state except the exact landmark
// projection, which is not guarded.
func (l Landmark) Distance(x mat.Vector) float64 {
	dx := l.X - x.AtVec(0)
	dz := l.Z - x.AtVec(1)
	return math.Sqrt(dx*dx + l.Y*l.Y + dz*dz)
}

// Expected returns the noise-free measurement [range, bearing] for the given
// state. The bearing is the state's own bearing, untransformed.
func (l Landmark) Expected(x mat.Vector) *mat.VecDense {
	return mat.NewVecDense(2, []float64{l.Distance(x), x.AtVec(2)})
}

// HTilde returns the 2x6 partials of Expected with respect to the state,
// evaluated at x.
func (l Landmark) HTilde(x mat.Vector) *mat.Dense {
	ρ := l.Distance(x)
	H := mat.NewDense(2, 6, nil)
	// \partial \rho / \partial {x,z}
	H.Set(0, 0, (x.AtVec(0)-l.X)/ρ)
	H.Set(0, 1, (x.AtVec(1)-l.Z)/ρ)
	// \partial \phi / \partial \phi
	H.Set(1, 2, 1)
	return H
}

// MeasurementNoise draws additive Gaussian noise for the range/bearing
// sensor. Used by the dataset generator, never by the estimators.
type MeasurementNoise struct {
	ρNoise *distmv.Normal
	φNoise *distmv.Normal
}

// NewMeasurementNoise returns a noise source with the given standard
// deviations (meters, radians).
func NewMeasurementNoise(σρ, σφ float64, src rand.Source) MeasurementNoise {
	ρNoise, ok := distmv.NewNormal([]float64{0}, mat.NewSymDense(1, []float64{σρ * σρ}), src)
	if !ok {
		panic("NOK in Gaussian")
	}
	φNoise, ok := distmv.NewNormal([]float64{0}, mat.NewSymDense(1, []float64{σφ * σφ}), src)
	if !ok {
		panic("NOK in Gaussian")
	}
	return MeasurementNoise{ρNoise, φNoise}
}

// Corrupt returns y plus one noise draw per component.
func (n MeasurementNoise) Corrupt(y mat.Vector) *mat.VecDense {
	if y.Len() != 2 {
		panic(fmt.Errorf("measurement has %d components, expected 2", y.Len()))
	}
	return mat.NewVecDense(2, []float64{
		y.AtVec(0) + n.ρNoise.Rand(nil)[0],
		y.AtVec(1) + n.φNoise.Rand(nil)[0],
	})
}
