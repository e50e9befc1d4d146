package visualization

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"thermalroi/pkg/profile"
)

var (
	meanColor  = color.RGBA{R: 200, G: 40, B: 30, A: 255}
	boundColor = color.RGBA{R: 60, G: 60, B: 60, A: 255}
)

// PlotProfile draws the mean of stats with its lower and upper bounds and
// saves the plot to path (format from the extension)
func PlotProfile(stats profile.Statistics, title, xlabel, path string) error {
	if stats.Len() == 0 {
		return fmt.Errorf("profile %q has no points", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "Temperature"

	series := []struct {
		name   string
		values []float64
		color  color.Color
		dashed bool
	}{
		{"mean", stats.Mean, meanColor, false},
		{"lower", stats.Lower, boundColor, true},
		{"upper", stats.Upper, boundColor, true},
	}
	for _, s := range series {
		pts := make(plotter.XYs, stats.Len())
		for i := range pts {
			pts[i].X = stats.Coordinate[i]
			pts[i].Y = s.values[i]
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = s.color
		line.Width = vg.Points(1)
		if s.dashed {
			line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		}
		p.Add(line)
		p.Legend.Add(s.name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
