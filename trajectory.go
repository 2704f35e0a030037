package droneod

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Trajectory is an immutable, time-ordered recording of a flight: for each
// index it holds the timestamp, the true state, the input applied, and the
// sensor observation. All four sequences share indices and length.
type Trajectory struct {
	T []float64       // seconds
	X []*mat.VecDense // true states, 6 components
	U []*mat.VecDense // inputs [thrust, torque], 2 components
	Y []*mat.VecDense // observations [range, bearing], 2 components
}

// Len returns the number of records.
func (tj *Trajectory) Len() int {
	return len(tj.T)
}

// Dt returns the estimator update period, final timestamp over record count.
func (tj *Trajectory) Dt() float64 {
	return tj.T[len(tj.T)-1] / float64(len(tj.T))
}

// StateAt returns the true state at index i.
func (tj *Trajectory) StateAt(i int) *mat.VecDense { return tj.X[i] }

// InputAt returns the input at index i.
func (tj *Trajectory) InputAt(i int) *mat.VecDense { return tj.U[i] }

// ObservationAt returns the observation at index i.
func (tj *Trajectory) ObservationAt(i int) *mat.VecDense { return tj.Y[i] }

// LoadTrajectory reads a recorded dataset. Each record is one line of 11 or
// 12 comma-separated numbers: timestamp, six state components, two input
// components, and the observation. Twelve-field records carry a duplicate of
// the timestamp as the first observation field, which is dropped on load.
// Blank lines and lines starting with # are skipped.
func LoadTrajectory(filename string) (*Trajectory, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	tj := &Trajectory{}
	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0:1] == "#" {
			continue
		}
		entries := strings.Split(line, ",")
		if len(entries) != 11 && len(entries) != 12 {
			return nil, fmt.Errorf("%s:%d: %d fields, expected 11 or 12", filename, lineNo, len(entries))
		}
		fields := make([]float64, len(entries))
		for i, entry := range entries {
			fl, ferr := strconv.ParseFloat(strings.TrimSpace(entry), 64)
			if ferr != nil {
				return nil, fmt.Errorf("%s:%d: field %d: %s", filename, lineNo, i, ferr)
			}
			fields[i] = fl
		}
		obsOffset := 9
		if len(fields) == 12 {
			obsOffset = 10 // skip the duplicated timestamp
		}
		tj.T = append(tj.T, fields[0])
		tj.X = append(tj.X, mat.NewVecDense(6, fields[1:7]))
		tj.U = append(tj.U, mat.NewVecDense(2, fields[7:9]))
		tj.Y = append(tj.Y, mat.NewVecDense(2, fields[obsOffset:obsOffset+2]))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if tj.Len() == 0 {
		return nil, fmt.Errorf("%s holds no records", filename)
	}
	return tj, nil
}
