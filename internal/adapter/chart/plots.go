package chart

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/weather-analysis/internal/domain"
)

var (
	orange = color.RGBA{R: 255, G: 165, A: 255}
	red    = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	green  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	purple = color.RGBA{R: 128, B: 128, A: 255}
)

const tempLabel = "Temperature (°C)"

// lineStyle configures a single-series line chart.
type lineStyle struct {
	title  string
	color  color.Color
	width  vg.Length
	legend string
}

// dailyTrendPlot draws the mean temperature of each day in date order.
func dailyTrendPlot(daily []domain.DailyStat, style lineStyle) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = style.title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = tempLabel
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = text.XRight
	p.Add(plotter.NewGrid())

	if len(daily) == 0 {
		return p, nil
	}

	line, err := plotter.NewLine(dailyMeanXYs(daily))
	if err != nil {
		return nil, fmt.Errorf("daily trend line: %w", err)
	}
	line.Color = style.color
	line.Width = style.width
	p.Add(line)
	if style.legend != "" {
		p.Legend.Add(style.legend, line)
	}
	return p, nil
}

// dailyMeanXYs maps each day to (Unix seconds of the date, mean temperature).
func dailyMeanXYs(daily []domain.DailyStat) plotter.XYs {
	xys := make(plotter.XYs, len(daily))
	for i, d := range daily {
		xys[i].X = float64(d.Date.Unix())
		xys[i].Y = d.Mean
	}
	return xys
}

// barStyle configures the monthly rainfall bars.
type barStyle struct {
	title string
	fill  color.Color
	edge  color.Color
	width vg.Length
}

// monthlyRainPlot draws one bar per calendar month. Months without data get a
// zero-height bar so all twelve ticks are always present.
func monthlyRainPlot(rain []domain.MonthlyRain, style barStyle) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = style.title
	p.X.Label.Text = "Month"
	p.Y.Label.Text = "Number of Rainy Days"

	bars, err := plotter.NewBarChart(monthlyRainValues(rain), style.width)
	if err != nil {
		return nil, fmt.Errorf("monthly rain bars: %w", err)
	}
	bars.XMin = 1
	bars.Color = style.fill
	bars.LineStyle.Color = style.edge
	bars.LineStyle.Width = vg.Points(0.5)

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid, bars)

	p.X.Tick.Marker = monthTicks()
	p.X.Min, p.X.Max = 0.5, 12.5
	return p, nil
}

// monthlyRainValues places the rain-day count of month m at index m-1.
func monthlyRainValues(rain []domain.MonthlyRain) plotter.Values {
	values := make(plotter.Values, 12)
	for _, r := range rain {
		if r.Month >= 1 && r.Month <= 12 {
			values[r.Month-1] = float64(r.RainDays)
		}
	}
	return values
}

func monthTicks() plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, 12)
	for m := 1; m <= 12; m++ {
		ticks[m-1] = plot.Tick{Value: float64(m), Label: strconv.Itoa(m)}
	}
	return ticks
}

// scatterStyle configures the humidity/temperature scatter.
type scatterStyle struct {
	title  string
	colors palette.ColorMap
	alpha  uint8
	radius vg.Length
}

// humidityScatterPlot draws every observation with color encoding humidity.
func humidityScatterPlot(obs []domain.Observation, style scatterStyle) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = style.title
	p.X.Label.Text = "Humidity"
	p.Y.Label.Text = tempLabel
	p.Add(plotter.NewGrid())

	if len(obs) == 0 {
		return p, nil
	}

	xys := humidityTempXYs(obs)
	lo, hi := xys[0].X, xys[0].X
	for _, xy := range xys {
		lo = math.Min(lo, xy.X)
		hi = math.Max(hi, xy.X)
	}
	if hi == lo {
		hi = lo + 1
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return nil, fmt.Errorf("humidity scatter: %w", err)
	}
	cm := style.colors
	cm.SetMin(lo)
	cm.SetMax(hi)
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  withAlpha(cm, obs[i].Humidity, style.alpha),
			Radius: style.radius,
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)
	return p, nil
}

// humidityTempXYs maps every observation to (humidity, temperature).
func humidityTempXYs(obs []domain.Observation) plotter.XYs {
	xys := make(plotter.XYs, len(obs))
	for i, o := range obs {
		xys[i].X = o.Humidity
		xys[i].Y = o.Temp
	}
	return xys
}

func withAlpha(cm palette.ColorMap, v float64, alpha uint8) color.Color {
	c, err := cm.At(v)
	if err != nil {
		c = color.Gray{Y: 128}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = alpha
	return n
}

// yearlyMaxPlot draws the maximum temperature of each year with point markers.
func yearlyMaxPlot(yearly []domain.YearlyStat, title string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Year"
	p.Y.Label.Text = tempLabel
	p.Add(plotter.NewGrid())

	if len(yearly) == 0 {
		return p, nil
	}

	xys := yearlyMaxXYs(yearly)
	ticks := make(plot.ConstantTicks, len(yearly))
	for i, y := range yearly {
		ticks[i] = plot.Tick{Value: float64(y.Year), Label: strconv.Itoa(y.Year)}
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, fmt.Errorf("yearly max line: %w", err)
	}
	line.Color = purple
	points.Color = purple
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(3)
	p.Add(line, points)
	p.X.Tick.Marker = ticks
	if len(yearly) == 1 {
		p.X.Min, p.X.Max = xys[0].X-1, xys[0].X+1
	}
	return p, nil
}

// yearlyMaxXYs maps each year to its highest temperature.
func yearlyMaxXYs(yearly []domain.YearlyStat) plotter.XYs {
	xys := make(plotter.XYs, len(yearly))
	for i, y := range yearly {
		xys[i].X = float64(y.Year)
		xys[i].Y = y.Max
	}
	return xys
}
