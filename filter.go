package droneod

import (
	"fmt"

	kitlog "github.com/go-kit/kit/log"
	"gonum.org/v1/gonum/mat"
)

// Estimator is the common contract of the three variants. Step must be
// called with strictly increasing indices starting at 1: index 0 is seeded
// from the true initial state at construction. Estimators are single-owner,
// not safe for concurrent use.
type Estimator interface {
	// Name returns the variant name as selected in scenarios.
	Name() string
	// Step consumes the trajectory record at index i and appends the new
	// state estimate to the history.
	Step(i int) (Estimate, error)
	// History returns the estimate sequence built so far. Callers must
	// treat it as read-only.
	History() []*mat.VecDense
	// Trajectory returns the recording this estimator consumes, for
	// display collaborators that redraw truth against estimates.
	Trajectory() *Trajectory
}

// Estimate is the output of one estimator step. Innovation, Covariance and
// Gain are only set by the EKF; the other variants return them nil.
type Estimate struct {
	state      *mat.VecDense
	innovation *mat.VecDense
	covar      *mat.Dense
	gain       *mat.Dense
}

// State returns the estimated state.
func (e Estimate) State() *mat.VecDense { return e.state }

// Innovation returns the pre-correction measurement residual.
func (e Estimate) Innovation() *mat.VecDense { return e.innovation }

// Covariance returns the posterior covariance.
func (e Estimate) Covariance() *mat.Dense { return e.covar }

// Gain returns the Kalman gain used for the correction.
func (e Estimate) Gain() *mat.Dense { return e.gain }

func (e Estimate) String() string {
	return fmt.Sprintf("{\ns=%v\n}", mat.Formatted(e.state.T(), mat.Prefix("  ")))
}

// checkStep enforces the strictly-increasing call order shared by all
// variants. Out-of-order calls are programming errors.
func checkStep(i, histLen int) {
	if i != histLen {
		panic(fmt.Errorf("step %d called with %d estimates in history (steps must be sequential from 1)", i, histLen))
	}
}

// Oracle returns the true state verbatim. It is a zero-error baseline to
// validate the harness and display, not an estimator.
type Oracle struct {
	traj *Trajectory
	hist []*mat.VecDense
}

// NewOracle seeds the history with the true initial state.
func NewOracle(traj *Trajectory) *Oracle {
	return &Oracle{traj, []*mat.VecDense{traj.StateAt(0)}}
}

// Name implements Estimator.
func (o *Oracle) Name() string { return "oracle_observer" }

// Step implements Estimator.
func (o *Oracle) Step(i int) (Estimate, error) {
	checkStep(i, len(o.hist))
	x := o.traj.StateAt(i)
	o.hist = append(o.hist, x)
	return Estimate{state: x}, nil
}

// History implements Estimator.
func (o *Oracle) History() []*mat.VecDense { return o.hist }

// Trajectory implements Estimator.
func (o *Oracle) Trajectory() *Trajectory { return o.traj }

// DeadReckoning integrates the motion model from the seeded initial state
// using only the input history. It never consults observations, so its error
// grows without bound on noisy data. That drift is the point of the variant,
// not a defect.
type DeadReckoning struct {
	vehicle Vehicle
	traj    *Trajectory
	hist    []*mat.VecDense
}

// NewDeadReckoning seeds the history with the true initial state.
func NewDeadReckoning(vehicle Vehicle, traj *Trajectory) *DeadReckoning {
	return &DeadReckoning{vehicle, traj, []*mat.VecDense{traj.StateAt(0)}}
}

// Name implements Estimator.
func (d *DeadReckoning) Name() string { return "dead_reckoning" }

// Step implements Estimator. It deliberately applies the input at the
// current index, not the previous one, to reproduce the recorded datasets'
// convention (the EKF uses the previous index).
func (d *DeadReckoning) Step(i int) (Estimate, error) {
	checkStep(i, len(d.hist))
	x := d.vehicle.Propagate(d.hist[i-1], d.traj.InputAt(i), d.traj.Dt())
	d.hist = append(d.hist, x)
	return Estimate{state: x}, nil
}

// History implements Estimator.
func (d *DeadReckoning) History() []*mat.VecDense { return d.hist }

// Trajectory implements Estimator.
func (d *DeadReckoning) Trajectory() *Trajectory { return d.traj }

// NewEstimator builds the variant selected by a scenario.
func NewEstimator(s Scenario, traj *Trajectory, logger kitlog.Logger) (Estimator, error) {
	switch s.Filter {
	case "oracle_observer":
		return NewOracle(traj), nil
	case "dead_reckoning":
		return NewDeadReckoning(StdVehicle, traj), nil
	case "extended_kalman_filter":
		return NewEKF(StdVehicle, StdLandmark, NewNoise(s.QDiag, s.RDiag), s.P0Diag, traj, logger), nil
	default:
		return nil, fmt.Errorf("unknown filter `%s`", s.Filter)
	}
}
