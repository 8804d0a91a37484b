package halide

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveCurvePlot writes a diagnostic plot of the characteristic curve:
// density against developed fraction over [0, maxDevelopment].
func SaveCurvePlot(curve *CurveParams, maxDevelopment Real, path string) error {
	const samples = 256

	pts := make(plotter.XYs, samples)
	for i := range pts {
		df := maxDevelopment * Real(i) / Real(samples-1)
		pts[i].X = df
		pts[i].Y = curve.Density(df)
	}

	p := plot.New()
	p.Title.Text = "Characteristic curve"
	p.X.Label.Text = "developed fraction"
	p.Y.Label.Text = "optical density"

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(line)
	p.Add(plotter.NewGrid())

	return p.Save(5*vg.Inch, 4*vg.Inch, path)
}
