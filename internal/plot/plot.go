// Package plot renders simulation results to PNG files.
package plot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one named line on a time-series plot.
type Series struct {
	Name   string
	Values []float64
}

// TimeSeries writes a line plot of one or more series against time.
func TimeSeries(path, title, ylabel string, times []float64, series ...Series) error {
	if len(times) == 0 || len(series) == 0 {
		return fmt.Errorf("plot: no data")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	p.Legend.Top = true

	for i, s := range series {
		if len(s.Values) != len(times) {
			return fmt.Errorf("plot: series %q has %d samples, want %d", s.Name, len(s.Values), len(times))
		}
		pts := make(plotter.XYs, len(times))
		for j := range times {
			pts[j].X = times[j]
			pts[j].Y = s.Values[j]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// Centerline writes the rod centerline projected onto two lab axes.
func Centerline(path, title string, xs, ys []float64) error {
	if len(xs) != len(ys) || len(xs) == 0 {
		return fmt.Errorf("plot: no data")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	p.Add(line, points)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

// RollingSweep plots measured final energies of a rolling rod against the
// inertia scaling factor, alongside the analytical predictions for a rod
// released with slip speed on a frictional plane:
//
//	E_trans = m v^2 / (2 (1 + f/2)^2)
//	E_rot   = (f/2) E_trans
func RollingSweep(path string, factors, trans, rot []float64, mass, slipSpeed float64) error {
	if len(factors) == 0 || len(factors) != len(trans) || len(factors) != len(rot) {
		return fmt.Errorf("plot: sweep data mismatch")
	}

	p := plot.New()
	p.Title.Text = "Rolling rod energy vs inertia factor"
	p.X.Label.Text = "inertia factor"
	p.Y.Label.Text = "energy (J)"
	p.Legend.Top = true

	measured := func(values []float64) (*plotter.Scatter, error) {
		pts := make(plotter.XYs, len(factors))
		for i := range factors {
			pts[i].X = factors[i]
			pts[i].Y = values[i]
		}
		return plotter.NewScatter(pts)
	}
	analytic := func(energy func(f float64) float64) (*plotter.Line, error) {
		const samples = 200
		lo, hi := factors[0], factors[len(factors)-1]
		pts := make(plotter.XYs, samples)
		for i := range pts {
			f := lo + (hi-lo)*float64(i)/float64(samples-1)
			pts[i].X = f
			pts[i].Y = energy(f)
		}
		return plotter.NewLine(pts)
	}

	transEnergy := func(f float64) float64 {
		denom := 1 + f/2
		return 0.5 * mass * slipSpeed * slipSpeed / (denom * denom)
	}
	rotEnergy := func(f float64) float64 {
		return f / 2 * transEnergy(f)
	}

	transPts, err := measured(trans)
	if err != nil {
		return err
	}
	transPts.Color = plotutil.Color(0)
	rotPts, err := measured(rot)
	if err != nil {
		return err
	}
	rotPts.Color = plotutil.Color(1)

	transLine, err := analytic(transEnergy)
	if err != nil {
		return err
	}
	transLine.Color = plotutil.Color(0)
	rotLine, err := analytic(rotEnergy)
	if err != nil {
		return err
	}
	rotLine.Color = plotutil.Color(1)

	p.Add(transPts, rotPts, transLine, rotLine)
	p.Legend.Add("translational", transPts)
	p.Legend.Add("rotational", rotPts)
	p.Legend.Add("translational (analytic)", transLine)
	p.Legend.Add("rotational (analytic)", rotLine)

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
