package plot

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/sgauthier/cpicast/forecast"
	"github.com/sgauthier/cpicast/stats"
	"github.com/sgauthier/cpicast/timeseries"
)

var (
	seriesColor   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	forecastColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	band80Color   = color.NRGBA{R: 214, G: 39, B: 40, A: 90}
	band95Color   = color.NRGBA{R: 214, G: 39, B: 40, A: 45}
)

// Series renders a line chart of the series to a PNG file.
func Series(s *timeseries.Series, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "month"
	p.Y.Label.Text = "value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}

	line, err := plotter.NewLine(seriesXYs(s))
	if err != nil {
		return fmt.Errorf("plot: series line: %w", err)
	}
	line.Color = seriesColor
	p.Add(line, plotter.NewGrid())

	return save(p, path)
}

// Decomposition renders the observed, trend, seasonal, and residual panels
// stacked in one PNG file.
func Decomposition(dec *stats.Decomposition, path string) error {
	panels := []struct {
		name   string
		series *timeseries.Series
	}{
		{"observed", dec.Original},
		{"trend", dec.Trend},
		{"seasonal", dec.Seasonal},
		{"residual", dec.Residual},
	}

	plots := make([][]*plot.Plot, len(panels))
	for i, panel := range panels {
		p := plot.New()
		p.Title.Text = panel.name
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}

		line, err := plotter.NewLine(seriesXYs(panel.series))
		if err != nil {
			return fmt.Errorf("plot: %s panel: %w", panel.name, err)
		}
		line.Color = seriesColor
		p.Add(line)
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(8*vg.Inch, 10*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(panels),
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot: create %s: %w", path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("plot: write %s: %w", path, err)
	}
	return nil
}

// Fan renders the historical series with the forecast path and shaded
// confidence bands to a PNG file.
func Fan(history *timeseries.Series, result *forecast.Result, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "month"
	p.Y.Label.Text = "value"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}

	// Widest band first so narrower ones draw on top.
	for i := len(result.Intervals) - 1; i >= 0; i-- {
		iv := result.Intervals[i]
		fill := band95Color
		if i == 0 {
			fill = band80Color
		}

		band := make(plotter.XYs, 0, 2*len(result.Months))
		for t := range result.Months {
			band = append(band, plotter.XY{X: float64(result.Months[t].Unix()), Y: iv.Upper[t]})
		}
		for t := len(result.Months) - 1; t >= 0; t-- {
			band = append(band, plotter.XY{X: float64(result.Months[t].Unix()), Y: iv.Lower[t]})
		}

		poly, err := plotter.NewPolygon(band)
		if err != nil {
			return fmt.Errorf("plot: %g%% band: %w", iv.Level, err)
		}
		poly.Color = fill
		poly.LineStyle.Width = 0
		p.Add(poly)
	}

	hist, err := plotter.NewLine(seriesXYs(history))
	if err != nil {
		return fmt.Errorf("plot: history line: %w", err)
	}
	hist.Color = seriesColor

	fc := make(plotter.XYs, len(result.Months))
	for t := range result.Months {
		fc[t] = plotter.XY{X: float64(result.Months[t].Unix()), Y: result.Points[t]}
	}
	fcLine, err := plotter.NewLine(fc)
	if err != nil {
		return fmt.Errorf("plot: forecast line: %w", err)
	}
	fcLine.Color = forecastColor

	p.Add(hist, fcLine, plotter.NewGrid())
	p.Legend.Add("observed", hist)
	p.Legend.Add("forecast", fcLine)
	p.Legend.Top = true

	return save(p, path)
}

func seriesXYs(s *timeseries.Series) plotter.XYs {
	xys := make(plotter.XYs, 0, s.Len())
	for i := range s.Values {
		if math.IsNaN(s.Values[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: float64(s.Timestamps[i].Unix()), Y: s.Values[i]})
	}
	return xys
}

func save(p *plot.Plot, path string) error {
	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: save %s: %w", path, err)
	}
	return nil
}
