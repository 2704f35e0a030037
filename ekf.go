package droneod

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
	"gonum.org/v1/gonum/mat"
)

// Noise holds the assumed process and measurement noise covariances.
type Noise struct {
	Q *mat.SymDense // 6x6 process noise
	R *mat.SymDense // 2x2 measurement noise
}

// NewNoise builds diagonal noise matrices from the per-dimension variances.
func NewNoise(qDiag, rDiag []float64) Noise {
	return Noise{diagSym(qDiag), diagSym(rDiag)}
}

func diagSym(d []float64) *mat.SymDense {
	m := mat.NewSymDense(len(d), nil)
	for i, v := range d {
		m.SetSym(i, i, v)
	}
	return m
}

// EKF is the extended Kalman filter variant. It carries the posterior
// covariance across steps; construction seeds the index-0 estimate from the
// true initial state and the covariance from the prior, after which the
// filter is ready and stays ready.
type EKF struct {
	vehicle  Vehicle
	landmark Landmark
	noise    Noise
	traj     *Trajectory
	hist     []*mat.VecDense
	P        *mat.Dense // posterior covariance
	logger   kitlog.Logger
}

// NewEKF returns a ready filter with the prior covariance diag(p0Diag).
func NewEKF(vehicle Vehicle, landmark Landmark, noise Noise, p0Diag []float64, traj *Trajectory, logger kitlog.Logger) *EKF {
	P := mat.NewDense(6, 6, nil)
	for i, v := range p0Diag {
		P.Set(i, i, v)
	}
	logger = kitlog.With(logger, "filter", "extended_kalman_filter")
	logger.Log("msg", "ready", "records", traj.Len(), "dt", traj.Dt())
	return &EKF{vehicle, landmark, noise, traj, []*mat.VecDense{traj.StateAt(0)}, P, logger}
}

// Name implements Estimator.
func (kf *EKF) Name() string { return "extended_kalman_filter" }

// Covariance returns the current posterior covariance.
func (kf *EKF) Covariance() *mat.Dense { return kf.P }

// Step implements Estimator. The prediction uses the input at the previous
// index; the correction uses the observation at the current index. The
// bearing component of the innovation is used raw, without angle wrapping:
// a known limitation of this filter, kept as such.
func (kf *EKF) Step(i int) (Estimate, error) {
	checkStep(i, len(kf.hist))
	dt := kf.traj.Dt()

	// Prediction.
	xPred := kf.vehicle.Propagate(kf.hist[i-1], kf.traj.InputAt(i-1), dt)
	F := kf.vehicle.Jacobian(kf.hist[i-1], kf.traj.InputAt(i-1), dt)
	var FP, covPred mat.Dense
	FP.Mul(F, kf.P)
	covPred.Mul(&FP, F.T())
	covPred.Add(&covPred, kf.noise.Q)

	// Linearize the observation at the predicted state.
	H := kf.landmark.HTilde(xPred)

	// Kalman gain.
	var PHt, HPHt, HPHtInv, K mat.Dense
	PHt.Mul(&covPred, H.T())
	HPHt.Mul(H, &PHt)
	HPHt.Add(&HPHt, kf.noise.R)
	if ierr := HPHtInv.Inverse(&HPHt); ierr != nil {
		return Estimate{}, fmt.Errorf("could not invert `H*P_pred*H' + R`: %s", ierr)
	}
	K.Mul(&PHt, &HPHtInv)

	// Correction.
	innovation := mat.NewVecDense(2, nil)
	innovation.SubVec(kf.traj.ObservationAt(i), kf.landmark.Expected(xPred))
	correction := mat.NewVecDense(6, nil)
	correction.MulVec(&K, innovation)
	xNew := mat.NewVecDense(6, nil)
	xNew.AddVec(xPred, correction)

	// Covariance update from the predicted (not the prior) covariance.
	var KH mat.Dense
	KH.Mul(&K, H)
	IKH := eye(6)
	IKH.Sub(IKH, &KH)
	P := mat.NewDense(6, 6, nil)
	P.Mul(IKH, &covPred)
	kf.P = P

	kf.hist = append(kf.hist, xNew)
	return Estimate{state: xNew, innovation: innovation, covar: P, gain: &K}, nil
}

// History implements Estimator.
func (kf *EKF) History() []*mat.VecDense { return kf.hist }

// Trajectory implements Estimator.
func (kf *EKF) Trajectory() *Trajectory { return kf.traj }
