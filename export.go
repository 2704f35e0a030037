package droneod

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// CSVExporter streams state vectors to a CSV file, one row per step. It is
// how runs hand their histories to external plotting or grading tools.
type CSVExporter struct {
	f       *os.File
	columns int
}

// NewCSVExporter creates filename in dir and writes the header. The first
// column is always the timestamp.
func NewCSVExporter(headers []string, dir, filename string) (*CSVExporter, error) {
	f, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		return nil, err
	}
	if _, err := f.WriteString("t," + strings.Join(headers, ",") + "\n"); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVExporter{f, len(headers)}, nil
}

// Write appends one row for the state at time t.
func (e *CSVExporter) Write(t float64, x *mat.VecDense) error {
	if x.Len() != e.columns {
		return fmt.Errorf("state has %d components, exporter has %d columns", x.Len(), e.columns)
	}
	row := fmt.Sprintf("%f", t)
	for i := 0; i < x.Len(); i++ {
		row += fmt.Sprintf(",%f", x.AtVec(i))
	}
	_, err := e.f.WriteString(row + "\n")
	return err
}

// Close flushes and closes the file.
func (e *CSVExporter) Close() error {
	return e.f.Close()
}

// StateHeaders are the CSV column names for a six-component state.
var StateHeaders = []string{"x", "z", "phi", "xDot", "zDot", "phiDot"}
