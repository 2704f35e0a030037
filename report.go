package droneod

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// relThreshold is the smallest |true value| that still contributes a
// relative-error term.
const relThreshold = 1e-10

// ErrorReport holds the eight error scalars of a run: mean absolute and mean
// relative error for x, z, bearing and distance-to-landmark.
type ErrorReport struct {
	AbsX, AbsZ, AbsPhi, AbsDist float64
	RelX, RelZ, RelPhi, RelDist float64
}

// Summarize compares the estimate history against the true states. The
// distance error compares the distance-to-landmark computed independently
// for the true and estimated states; it is not the filter innovation.
// Relative terms are skipped when the true value is below relThreshold, but
// the averaging denominator stays the full record count. That asymmetry is
// how the recorded baselines were computed, so it is kept.
func Summarize(traj *Trajectory, estimates []*mat.VecDense, lm Landmark) ErrorReport {
	if len(estimates) != traj.Len() {
		panic(fmt.Errorf("%d estimates for %d records", len(estimates), traj.Len()))
	}
	var r ErrorReport
	for i := 0; i < traj.Len(); i++ {
		x := traj.StateAt(i)
		xHat := estimates[i]
		absX := math.Abs(x.AtVec(0) - xHat.AtVec(0))
		absZ := math.Abs(x.AtVec(1) - xHat.AtVec(1))
		absPhi := math.Abs(x.AtVec(2) - xHat.AtVec(2))
		trueDist := lm.Distance(x)
		absDist := math.Abs(trueDist - lm.Distance(xHat))

		r.AbsX += absX
		r.AbsZ += absZ
		r.AbsPhi += absPhi
		r.AbsDist += absDist

		if math.Abs(x.AtVec(0)) > relThreshold {
			r.RelX += absX / math.Abs(x.AtVec(0))
		}
		if math.Abs(x.AtVec(1)) > relThreshold {
			r.RelZ += absZ / math.Abs(x.AtVec(1))
		}
		if math.Abs(x.AtVec(2)) > relThreshold {
			r.RelPhi += absPhi / math.Abs(x.AtVec(2))
		}
		if trueDist > relThreshold {
			r.RelDist += absDist / trueDist
		}
	}
	n := float64(traj.Len())
	r.AbsX /= n
	r.AbsZ /= n
	r.AbsPhi /= n
	r.AbsDist /= n
	r.RelX /= n
	r.RelZ /= n
	r.RelPhi /= n
	r.RelDist /= n
	return r
}

func (r ErrorReport) String() string {
	return fmt.Sprintf(`Absolute Errors:
X Position: %.6f m
Z Position: %.6f m
Phi Angle: %.6f rad
Distance to Landmark: %.6f m

Relative Errors:
X Position: %.6f (ratio)
Z Position: %.6f (ratio)
Phi Angle: %.6f (ratio)
Distance to Landmark: %.6f (ratio)`,
		r.AbsX, r.AbsZ, r.AbsPhi, r.AbsDist,
		r.RelX, r.RelZ, r.RelPhi, r.RelDist)
}
