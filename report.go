package carve

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// CostSeries holds the cumulative energy of the seams removed in one carving pass.
type CostSeries struct {
	Name  string
	Costs []float64
}

var seriesColors = []color.Color{
	color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	color.RGBA{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
}

// PlotCosts draws the seam cost of every iteration as a line chart
// and saves it to path. The image format is taken from the file extension.
func PlotCosts(path string, series ...CostSeries) error {
	p := plot.New()
	p.Title.Text = "Seam cost per iteration"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Cumulative energy"

	for i, s := range series {
		if len(s.Costs) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.Costs))
		for j, c := range s.Costs {
			pts[j] = plotter.XY{X: float64(j + 1), Y: c}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrapf(err, "unable to plot the %s series", s.Name)
		}
		line.Color = seriesColors[i%len(seriesColors)]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}
	p.Legend.Top = true

	if err := p.Save(10*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "save cost plot")
	}
	return nil
}
