package droneod

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func TestExpectedAtOrigin(t *testing.T) {
	x := mat.NewVecDense(6, []float64{0, 0, 0.3, 0, 0, 0})
	y := StdLandmark.Expected(x)
	if !scalar.EqualWithinAbs(y.AtVec(0), math.Sqrt(50), 1e-12) {
		t.Fatalf("range %f != sqrt(50)", y.AtVec(0))
	}
	if !scalar.EqualWithinAbs(y.AtVec(0), 7.0711, 1e-4) {
		t.Fatalf("range %f != 7.0711", y.AtVec(0))
	}
	if y.AtVec(1) != 0.3 {
		t.Fatalf("bearing %f is not passed through", y.AtVec(1))
	}
}

func TestHTildeFiniteDifference(t *testing.T) {
	x := mat.NewVecDense(6, []float64{1.5, -0.8, 0.4, 0.1, -0.2, 0.01})
	H := StdLandmark.HTilde(x)
	r, c := H.Dims()
	if r != 2 || c != 6 {
		t.Fatalf("H is %dx%d, expected 2x6", r, c)
	}
	const ε = 1e-7
	for j := 0; j < 6; j++ {
		xPlus := mat.NewVecDense(6, nil)
		xMinus := mat.NewVecDense(6, nil)
		xPlus.CopyVec(x)
		xMinus.CopyVec(x)
		xPlus.SetVec(j, x.AtVec(j)+ε)
		xMinus.SetVec(j, x.AtVec(j)-ε)
		yPlus := StdLandmark.Expected(xPlus)
		yMinus := StdLandmark.Expected(xMinus)
		for i := 0; i < 2; i++ {
			fd := (yPlus.AtVec(i) - yMinus.AtVec(i)) / (2 * ε)
			if !scalar.EqualWithinAbs(H.At(i, j), fd, 1e-6) {
				t.Fatalf("H(%d,%d) = %f, finite difference %f", i, j, H.At(i, j), fd)
			}
		}
	}
}

func TestDistanceLateralOffset(t *testing.T) {
	// The landmark's Y coordinate contributes a constant floor to the range.
	x := mat.NewVecDense(6, []float64{StdLandmark.X, StdLandmark.Z, 0, 0, 0, 0})
	if !scalar.EqualWithinAbs(StdLandmark.Distance(x), StdLandmark.Y, 1e-12) {
		t.Fatalf("range at the landmark projection is %f, expected %f", StdLandmark.Distance(x), StdLandmark.Y)
	}
}
