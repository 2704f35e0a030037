package droneod

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	trueColor = color.RGBA{G: 160, A: 255}
	estColor  = color.RGBA{R: 32, G: 178, B: 170, A: 255}
)

// RenderPlots draws the four standard panels — planar trajectory (x vs z),
// bearing vs time, x vs time, z vs time — each with the true and estimated
// series, as PNG files in dir.
func RenderPlots(dir, title string, t []float64, truth, estimates []*mat.VecDense) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plot dir: %w", err)
	}
	panels := []struct {
		file, xLabel, yLabel string
		pick                 func(i int, xs []*mat.VecDense) (float64, float64)
	}{
		{"xz.png", "x (m)", "z (m)", func(i int, xs []*mat.VecDense) (float64, float64) {
			return xs[i].AtVec(0), xs[i].AtVec(1)
		}},
		{"phi.png", "t (s)", "phi (rad)", func(i int, xs []*mat.VecDense) (float64, float64) {
			return t[i], xs[i].AtVec(2)
		}},
		{"x.png", "t (s)", "x (m)", func(i int, xs []*mat.VecDense) (float64, float64) {
			return t[i], xs[i].AtVec(0)
		}},
		{"z.png", "t (s)", "z (m)", func(i int, xs []*mat.VecDense) (float64, float64) {
			return t[i], xs[i].AtVec(1)
		}},
	}
	for _, panel := range panels {
		p := plot.New()
		p.Title.Text = title
		p.X.Label.Text = panel.xLabel
		p.Y.Label.Text = panel.yLabel

		truePts := make(plotter.XYs, len(truth))
		estPts := make(plotter.XYs, len(estimates))
		for i := range truth {
			truePts[i].X, truePts[i].Y = panel.pick(i, truth)
		}
		for i := range estimates {
			estPts[i].X, estPts[i].Y = panel.pick(i, estimates)
		}

		trueLine, err := plotter.NewLine(truePts)
		if err != nil {
			return fmt.Errorf("%s: %w", panel.file, err)
		}
		trueLine.Color = trueColor
		trueLine.Width = vg.Points(2)
		estLine, err := plotter.NewLine(estPts)
		if err != nil {
			return fmt.Errorf("%s: %w", panel.file, err)
		}
		estLine.Color = estColor
		estLine.Width = vg.Points(1)

		p.Add(trueLine, estLine)
		p.Legend.Add("True", trueLine)
		p.Legend.Add("Estimated", estLine)
		if err := p.Save(6*vg.Inch, 6*vg.Inch, filepath.Join(dir, panel.file)); err != nil {
			return fmt.Errorf("%s: %w", panel.file, err)
		}
	}
	return nil
}
