package droneod

import (
	"fmt"

	"github.com/spf13/viper"
)

// Vehicle holds the physical constants of the quadrotor. These never change
// during a run, so every component takes a Vehicle by value at construction.
type Vehicle struct {
	Mass    float64 // kg
	Inertia float64 // kg*m^2, about the yaw-equivalent axis
	Gravity float64 // m/s^2
}

// StdVehicle is the quadrotor flown to record the bundled datasets.
var StdVehicle = Vehicle{Mass: 0.92, Inertia: 0.0023, Gravity: 9.81}

// StdLandmark is where the landmark was surveyed for the bundled datasets.
var StdLandmark = Landmark{X: 0, Y: 5, Z: 5}

// Default noise diagonals, tuned against the noisy dataset.
var (
	StdQDiag  = []float64{0.05, 0.1, 1000, 0.05, 0.05, 0.5}
	StdRDiag  = []float64{1000, 2}
	StdP0Diag = []float64{0.05, 0.1, 1000, 0.05, 0.05, 0.5}
)

// Scenario is a fully resolved run description, read from a TOML file.
type Scenario struct {
	Name      string
	DataFile  string
	Noisy     bool
	Filter    string
	OutPrefix string
	PlotDir   string // empty disables plotting
	ArchiveDB string // empty disables the SQLite archive
	QDiag     []float64
	RDiag     []float64
	P0Diag    []float64
}

// ReadScenario loads `name`.toml from the working directory.
func ReadScenario(name string) (Scenario, error) {
	v := viper.New()
	v.SetConfigName(name)
	v.AddConfigPath(".")
	v.SetDefault("filter.outPrefix", name)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("./%s.toml: %s", name, err)
	}
	s := Scenario{
		Name:      name,
		DataFile:  v.GetString("data.file"),
		Noisy:     v.GetBool("data.noisy"),
		Filter:    v.GetString("filter.type"),
		OutPrefix: v.GetString("filter.outPrefix"),
		PlotDir:   v.GetString("plots.dir"),
		ArchiveDB: v.GetString("archive.path"),
		QDiag:     floatSlice(v, "noise.Q", StdQDiag),
		RDiag:     floatSlice(v, "noise.R", StdRDiag),
		P0Diag:    floatSlice(v, "covariance.P0", StdP0Diag),
	}
	if s.DataFile == "" {
		return Scenario{}, fmt.Errorf("scenario `%s` does not set data.file", name)
	}
	if len(s.QDiag) != 6 || len(s.P0Diag) != 6 {
		return Scenario{}, fmt.Errorf("scenario `%s`: noise.Q and covariance.P0 need six entries", name)
	}
	if len(s.RDiag) != 2 {
		return Scenario{}, fmt.Errorf("scenario `%s`: noise.R needs two entries", name)
	}
	return s, nil
}

// floatSlice reads a TOML array of numbers, falling back to the default when
// the key is absent.
func floatSlice(v *viper.Viper, key string, fallback []float64) []float64 {
	raw := v.Get(key)
	if raw == nil {
		return fallback
	}
	vals, ok := raw.([]interface{})
	if !ok {
		panic(fmt.Errorf("key `%s` is not an array", key))
	}
	out := make([]float64, 0, len(vals))
	for _, val := range vals {
		switch c := val.(type) {
		case float64:
			out = append(out, c)
		case int64:
			out = append(out, float64(c))
		case int:
			out = append(out, float64(c))
		default:
			panic(fmt.Errorf("key `%s` holds %v (%T), expected a number", key, val, val))
		}
	}
	return out
}
