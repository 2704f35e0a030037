package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/ChristopherRabotin/droneod"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

var (
	outDir   = flag.String("out", ".", "directory for the generated datasets")
	steps    = flag.Int("steps", 500, "number of records to generate")
	duration = flag.Float64("duration", 25, "flight duration in seconds")
	seed     = flag.Uint64("seed", 0, "noise seed (0 uses the clock)")
)

// Sensor and actuator noise magnitudes for the noise-injected dataset.
const (
	σρ      = 0.1    // m
	σφ      = 0.01   // rad
	σThrust = 0.05   // N
	σTorque = 0.0005 // N*m
)

func main() {
	flag.Parse()
	if *steps < 2 {
		log.Fatal("need at least two records")
	}
	sd := *seed
	if sd == 0 {
		sd = uint64(time.Now().UnixNano())
	}
	src := rand.NewPCG(sd, sd)

	vehicle := droneod.StdVehicle
	landmark := droneod.StdLandmark
	dt := *duration / float64(*steps)

	measNoise := droneod.NewMeasurementNoise(σρ, σφ, src)
	inputNoise, ok := distmv.NewNormal([]float64{0, 0},
		mat.NewSymDense(2, []float64{σThrust * σThrust, 0, 0, σTorque * σTorque}), src)
	if !ok {
		panic("NOK in Gaussian")
	}

	clean, err := os.Create(filepath.Join(*outDir, "data.csv"))
	if err != nil {
		log.Fatalf("%s", err)
	}
	defer clean.Close()
	noisy, err := os.Create(filepath.Join(*outDir, "noisy_data.csv"))
	if err != nil {
		log.Fatalf("%s", err)
	}
	defer noisy.Close()

	// Start at rest above the origin, nose level.
	x := mat.NewVecDense(6, nil)
	for i := 0; i < *steps; i++ {
		t := float64(i) * dt
		u := scriptedInput(vehicle, t)
		y := landmark.Expected(x)

		writeRecord(clean, t, x, u, y)
		uNoisy := mat.NewVecDense(2, inputNoise.Rand(nil))
		uNoisy.AddVec(uNoisy, u)
		writeRecord(noisy, t, x, uNoisy, measNoise.Corrupt(y))

		x = vehicle.Propagate(x, u, dt)
	}
	log.Printf("[info] wrote %d records (dt=%f, seed=%d) to %s", *steps, dt, sd, *outDir)
}

// scriptedInput is the flight plan: hover thrust with a slow surge, and a
// gentle torque oscillation that swings the bearing.
func scriptedInput(v droneod.Vehicle, t float64) *mat.VecDense {
	thrust := v.Mass*v.Gravity + 0.3*math.Sin(0.8*t)
	torque := 0.002 * math.Sin(0.5*t)
	return mat.NewVecDense(2, []float64{thrust, torque})
}

// writeRecord emits one 12-field line: t, state, input, observation with its
// leading timestamp field.
func writeRecord(f *os.File, t float64, x, u, y *mat.VecDense) {
	row := fmt.Sprintf("%f", t)
	for i := 0; i < x.Len(); i++ {
		row += fmt.Sprintf(",%f", x.AtVec(i))
	}
	for i := 0; i < u.Len(); i++ {
		row += fmt.Sprintf(",%f", u.AtVec(i))
	}
	row += fmt.Sprintf(",%f,%f,%f", t, y.AtVec(0), y.AtVec(1))
	if _, err := f.WriteString(row + "\n"); err != nil {
		panic(err)
	}
}
