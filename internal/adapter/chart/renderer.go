package chart

import (
	"context"
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/couchcryptid/weather-analysis/internal/adapter/artifact"
	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// Output file names inside the plots directory.
const (
	DailyTrendFile   = "daily_temp_trend.png"
	MonthlyRainFile  = "monthly_rainfall.png"
	HumidityTempFile = "humidity_vs_temp.png"
	CombinedFile     = "combined_plot.png"
)

// Renderer draws the chart set as PNG files.
// It implements pipeline.Sink.
type Renderer struct {
	dir string
}

// NewRenderer creates a Renderer that writes into dir.
func NewRenderer(dir string) *Renderer {
	return &Renderer{dir: dir}
}

// Kind returns the artifact label used in metrics and logs.
func (r *Renderer) Kind() string { return "chart" }

// Write renders every chart, replacing files left by earlier runs. Empty
// tables produce charts with axes and no data.
func (r *Renderer) Write(ctx context.Context, a *domain.Analysis) ([]string, error) {
	agg := a.Aggregates
	single := []struct {
		file   string
		width  vg.Length
		height vg.Length
		build  func() (*plot.Plot, error)
	}{
		{DailyTrendFile, 12 * vg.Inch, 4 * vg.Inch, func() (*plot.Plot, error) {
			return dailyTrendPlot(agg.Daily, lineStyle{
				title: "Daily Average Temperature Trend", color: orange, width: vg.Points(1), legend: "Avg Temp",
			})
		}},
		{MonthlyRainFile, 10 * vg.Inch, 5 * vg.Inch, func() (*plot.Plot, error) {
			return monthlyRainPlot(agg.MonthlyRain, barStyle{
				title: "Monthly Rainfall Occurrences", fill: blue, edge: color.Black, width: vg.Points(28),
			})
		}},
		{HumidityTempFile, 8 * vg.Inch, 6 * vg.Inch, func() (*plot.Plot, error) {
			return humidityScatterPlot(a.Observations, scatterStyle{
				title: "Humidity vs Temperature", colors: moreland.Kindlmann(), alpha: 128, radius: vg.Points(2),
			})
		}},
	}

	written := make([]string, 0, len(single)+1)
	for _, c := range single {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		p, err := c.build()
		if err != nil {
			return written, err
		}
		img, err := p.WriterTo(c.width, c.height, "png")
		if err != nil {
			return written, fmt.Errorf("draw %s: %w", c.file, err)
		}
		path := filepath.Join(r.dir, c.file)
		if err := artifact.WriteFile(path, artifact.WriteTo(img)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	path := filepath.Join(r.dir, CombinedFile)
	if err := writeCombined(a, path); err != nil {
		return written, err
	}
	return append(written, path), nil
}

// writeCombined lays out the daily trend, monthly rain, scatter and yearly
// maximum charts on a 2x2 grid.
func writeCombined(a *domain.Analysis, path string) error {
	agg := a.Aggregates

	daily, err := dailyTrendPlot(agg.Daily, lineStyle{title: "Daily Avg Temperature", color: red, width: vg.Points(1.5)})
	if err != nil {
		return err
	}
	rain, err := monthlyRainPlot(agg.MonthlyRain, barStyle{title: "Monthly Rainfall Days", fill: green, edge: green, width: vg.Points(16)})
	if err != nil {
		return err
	}
	scatter, err := humidityScatterPlot(a.Observations, scatterStyle{
		title: "Humidity vs Temp", colors: moreland.SmoothBlueRed(), alpha: 255, radius: vg.Points(1.5),
	})
	if err != nil {
		return err
	}
	yearly, err := yearlyMaxPlot(agg.Yearly, "Yearly Max Temperature")
	if err != nil {
		return err
	}

	plots := [][]*plot.Plot{
		{daily, rain},
		{scatter, yearly},
	}

	img := vgimg.New(14*vg.Inch, 10*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      5 * vg.Millimeter,
		PadY:      5 * vg.Millimeter,
		PadTop:    2 * vg.Millimeter,
		PadBottom: 2 * vg.Millimeter,
		PadLeft:   2 * vg.Millimeter,
		PadRight:  2 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for j := range plots {
		for i := range plots[j] {
			plots[j][i].Draw(canvases[j][i])
		}
	}

	return artifact.WriteFile(path, artifact.WriteTo(vgimg.PngCanvas{Canvas: img}))
}
