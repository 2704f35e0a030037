package droneod

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

// genTraj builds a synthetic trajectory by propagating the true dynamics
// under a smooth input profile, with noise-free observations.
func genTraj(n int, dt float64) *Trajectory {
	tj := &Trajectory{}
	x := mat.NewVecDense(6, nil)
	for i := 0; i < n; i++ {
		u := mat.NewVecDense(2, []float64{
			StdVehicle.Mass*StdVehicle.Gravity + 0.2*math.Sin(0.1*float64(i)),
			0.001 * math.Cos(0.1*float64(i)),
		})
		tj.T = append(tj.T, float64(i)*dt)
		tj.X = append(tj.X, x)
		tj.U = append(tj.U, u)
		tj.Y = append(tj.Y, StdLandmark.Expected(x))
		x = StdVehicle.Propagate(x, u, dt)
	}
	return tj
}

func runAll(t *testing.T, est Estimator) {
	t.Helper()
	for i := 1; i < est.Trajectory().Len(); i++ {
		if _, err := est.Step(i); err != nil {
			t.Fatalf("step %d: %s", i, err)
		}
	}
}

func TestOracleIdentity(t *testing.T) {
	tj := genTraj(20, 0.05)
	est := NewOracle(tj)
	runAll(t, est)
	hist := est.History()
	if len(hist) != tj.Len() {
		t.Fatalf("%d estimates for %d records", len(hist), tj.Len())
	}
	for i := range hist {
		for j := 0; j < 6; j++ {
			if hist[i].AtVec(j) != tj.StateAt(i).AtVec(j) {
				t.Fatalf("index %d component %d: %f != true %f", i, j, hist[i].AtVec(j), tj.StateAt(i).AtVec(j))
			}
		}
	}
}

func TestDeadReckoningFirstStep(t *testing.T) {
	tj := genTraj(5, 0.05)
	est := NewDeadReckoning(StdVehicle, tj)
	e, err := est.Step(1)
	if err != nil {
		t.Fatal(err)
	}
	// The variant applies the input at the current index.
	exp := StdVehicle.Propagate(tj.StateAt(0), tj.InputAt(1), tj.Dt())
	for j := 0; j < 6; j++ {
		if e.State().AtVec(j) != exp.AtVec(j) {
			t.Fatalf("component %d: %f != %f", j, e.State().AtVec(j), exp.AtVec(j))
		}
	}
}

func TestDeadReckoningIgnoresObservations(t *testing.T) {
	tj := genTraj(30, 0.05)
	ref := NewDeadReckoning(StdVehicle, tj)
	runAll(t, ref)

	// Same trajectory with a mangled observation stream.
	perturbed := &Trajectory{T: tj.T, X: tj.X, U: tj.U}
	for i := range tj.Y {
		perturbed.Y = append(perturbed.Y, mat.NewVecDense(2, []float64{
			tj.Y[i].AtVec(0) + 100*math.Sin(float64(i)),
			tj.Y[i].AtVec(1) - 3,
		}))
	}
	alt := NewDeadReckoning(StdVehicle, perturbed)
	runAll(t, alt)

	for i := range ref.History() {
		for j := 0; j < 6; j++ {
			if ref.History()[i].AtVec(j) != alt.History()[i].AtVec(j) {
				t.Fatalf("estimate %d diverged under observation perturbation", i)
			}
		}
	}
}

func TestDeadReckoningDriftsOnNoisyInputs(t *testing.T) {
	tj := genTraj(100, 0.05)
	// Bias the recorded thrust: with no correction the error must grow.
	biased := &Trajectory{T: tj.T, X: tj.X, Y: tj.Y}
	for i := range tj.U {
		biased.U = append(biased.U, mat.NewVecDense(2, []float64{
			tj.U[i].AtVec(0) + 0.05,
			tj.U[i].AtVec(1),
		}))
	}
	est := NewDeadReckoning(StdVehicle, biased)
	runAll(t, est)
	early := math.Abs(est.History()[10].AtVec(1) - tj.StateAt(10).AtVec(1))
	late := math.Abs(est.History()[99].AtVec(1) - tj.StateAt(99).AtVec(1))
	if late <= early {
		t.Fatalf("dead reckoning error did not accumulate: %f then %f", early, late)
	}
}

func TestNewEstimatorVariants(t *testing.T) {
	tj := genTraj(3, 0.05)
	s := Scenario{QDiag: StdQDiag, RDiag: StdRDiag, P0Diag: StdP0Diag}
	for _, name := range []string{"oracle_observer", "dead_reckoning", "extended_kalman_filter"} {
		s.Filter = name
		est, err := NewEstimator(s, tj, discardLogger{})
		if err != nil {
			t.Fatalf("%s: %s", name, err)
		}
		if est.Name() != name {
			t.Fatalf("%s built a %s", name, est.Name())
		}
	}
	s.Filter = "unscented_kalman_filter"
	if _, err := NewEstimator(s, tj, discardLogger{}); err == nil {
		t.Fatal("unknown filter did not error")
	}
}

func TestStepOutOfOrderPanics(t *testing.T) {
	tj := genTraj(5, 0.05)
	est := NewOracle(tj)
	defer func() {
		if recover() == nil {
			t.Fatal("out of order step did not panic")
		}
	}()
	est.Step(3)
}

// discardLogger is a no-op go-kit logger for tests.
type discardLogger struct{}

func (discardLogger) Log(...interface{}) error { return nil }

func vecsEqualWithin(a, b *mat.VecDense, tol float64) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !scalar.EqualWithinAbs(a.AtVec(i), b.AtVec(i), tol) {
			return false
		}
	}
	return true
}
