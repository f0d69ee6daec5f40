package chart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"

	"github.com/couchcryptid/weather-analysis/internal/domain"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func sampleAnalysis() *domain.Analysis {
	var obs []domain.Observation
	start := time.Date(2015, 12, 30, 0, 0, 0, 0, time.UTC)
	for i := range 72 {
		ts := start.Add(time.Duration(i) * 6 * time.Hour)
		obs = append(obs, domain.Observation{
			FormattedDate: ts,
			Date:          domain.CalendarDate(ts),
			Month:         int(ts.Month()),
			Year:          ts.Year(),
			Temp:          10 + float64(i%9),
			Humidity:      0.4 + float64(i%6)/10,
			Rain:          i % 2,
		})
	}
	return &domain.Analysis{
		Source:       "sample.csv",
		RawRows:      len(obs),
		Observations: obs,
		Aggregates:   domain.Aggregate(obs),
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), len(pngSignature))
	assert.True(t, bytes.HasPrefix(data, pngSignature), "%s is not a PNG", path)
}

func TestRenderer_WritesAllCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	r := NewRenderer(dir)
	assert.Equal(t, "chart", r.Kind())

	written, err := r.Write(context.Background(), sampleAnalysis())
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, DailyTrendFile),
		filepath.Join(dir, MonthlyRainFile),
		filepath.Join(dir, HumidityTempFile),
		filepath.Join(dir, CombinedFile),
	}
	assert.Equal(t, want, written)
	for _, path := range want {
		assertPNG(t, path)
	}
}

func TestRenderer_EmptyAnalysis(t *testing.T) {
	dir := t.TempDir()
	written, err := NewRenderer(dir).Write(context.Background(), &domain.Analysis{})
	require.NoError(t, err)
	require.Len(t, written, 4)
	for _, path := range written {
		assertPNG(t, path)
	}
}

func TestRenderer_SingleObservation(t *testing.T) {
	ts := time.Date(2010, 6, 1, 12, 0, 0, 0, time.UTC)
	obs := []domain.Observation{{
		FormattedDate: ts, Date: domain.CalendarDate(ts), Month: 6, Year: 2010, Temp: 30, Humidity: 0.5, Rain: 1,
	}}
	a := &domain.Analysis{Observations: obs, Aggregates: domain.Aggregate(obs)}

	written, err := NewRenderer(t.TempDir()).Write(context.Background(), a)
	require.NoError(t, err)
	assert.Len(t, written, 4)
}

func TestRenderer_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, CombinedFile)
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0o600))

	_, err := NewRenderer(dir).Write(context.Background(), sampleAnalysis())
	require.NoError(t, err)
	assertPNG(t, stale)
}

func TestRenderer_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	written, err := NewRenderer(t.TempDir()).Write(ctx, sampleAnalysis())
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, written)
}

func TestMonthlyRainPlot_AlwaysTwelveTicks(t *testing.T) {
	p, err := monthlyRainPlot([]domain.MonthlyRain{{Month: 3, RainDays: 4}}, barStyle{title: "t", fill: blue, edge: blue, width: 10})
	require.NoError(t, err)

	ticks := p.X.Tick.Marker.Ticks(p.X.Min, p.X.Max)
	require.Len(t, ticks, 12)
	assert.Equal(t, "1", ticks[0].Label)
	assert.Equal(t, "12", ticks[11].Label)
}

func TestDailyMeanXYs(t *testing.T) {
	a := sampleAnalysis()
	xys := dailyMeanXYs(a.Aggregates.Daily)

	require.Len(t, xys, len(a.Aggregates.Daily))
	for i, d := range a.Aggregates.Daily {
		assert.InDelta(t, float64(d.Date.Unix()), xys[i].X, 0)
		assert.InDelta(t, d.Mean, xys[i].Y, 0)
		if i > 0 {
			assert.Greater(t, xys[i].X, xys[i-1].X, "dates must ascend")
		}
	}
}

func TestYearlyMaxXYs_PlotsMaxNotMean(t *testing.T) {
	obs := []domain.Observation{
		obsOn(time.Date(2011, 3, 1, 0, 0, 0, 0, time.UTC), 10, 0.5),
		obsOn(time.Date(2011, 7, 1, 0, 0, 0, 0, time.UTC), 30, 0.5),
		obsOn(time.Date(2012, 3, 1, 0, 0, 0, 0, time.UTC), 5, 0.5),
		obsOn(time.Date(2012, 7, 1, 0, 0, 0, 0, time.UTC), 35, 0.5),
	}
	xys := yearlyMaxXYs(domain.YearlyStats(obs))

	require.Len(t, xys, 2)
	assert.InDelta(t, 2011, xys[0].X, 0)
	assert.InDelta(t, 30, xys[0].Y, 0)
	assert.InDelta(t, 2012, xys[1].X, 0)
	assert.InDelta(t, 35, xys[1].Y, 0)
}

func TestHumidityTempXYs_EveryObservation(t *testing.T) {
	a := sampleAnalysis()
	xys := humidityTempXYs(a.Observations)

	require.Len(t, xys, len(a.Observations))
	for i, o := range a.Observations {
		assert.InDelta(t, o.Humidity, xys[i].X, 0)
		assert.InDelta(t, o.Temp, xys[i].Y, 0)
	}
}

func TestMonthlyRainValues(t *testing.T) {
	tests := []struct {
		name string
		rain []domain.MonthlyRain
		want map[int]float64
	}{
		{"empty", nil, map[int]float64{}},
		{"sparse months", []domain.MonthlyRain{{Month: 3, RainDays: 4}, {Month: 11, RainDays: 2}}, map[int]float64{3: 4, 11: 2}},
		{"all months", func() []domain.MonthlyRain {
			var r []domain.MonthlyRain
			for m := 1; m <= 12; m++ {
				r = append(r, domain.MonthlyRain{Month: m, RainDays: m * 10})
			}
			return r
		}(), map[int]float64{1: 10, 2: 20, 3: 30, 4: 40, 5: 50, 6: 60, 7: 70, 8: 80, 9: 90, 10: 100, 11: 110, 12: 120}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := monthlyRainValues(tt.rain)
			require.Len(t, values, 12)
			for m := 1; m <= 12; m++ {
				assert.InDelta(t, tt.want[m], values[m-1], 0, "month %d", m)
			}
		})
	}
}

func TestPlotBuilders_DataRanges(t *testing.T) {
	a := sampleAnalysis()
	agg := a.Aggregates

	dailyLo, dailyHi, ok := domain.DailyMeanRange(agg.Daily)
	require.True(t, ok)
	peak, ok := domain.PeakYear(agg.Yearly)
	require.True(t, ok)
	lowestMax := agg.Yearly[0].Max
	for _, y := range agg.Yearly {
		lowestMax = min(lowestMax, y.Max)
	}
	rainiest, ok := domain.MostRainyMonth(agg.MonthlyRain)
	require.True(t, ok)

	tests := []struct {
		name       string
		build      func() (*plot.Plot, error)
		yMin, yMax float64
	}{
		{"daily mean", func() (*plot.Plot, error) {
			return dailyTrendPlot(agg.Daily, lineStyle{color: red, width: 1})
		}, dailyLo, dailyHi},
		{"yearly max", func() (*plot.Plot, error) {
			return yearlyMaxPlot(agg.Yearly, "t")
		}, lowestMax, peak.Max},
		{"monthly rain", func() (*plot.Plot, error) {
			return monthlyRainPlot(agg.MonthlyRain, barStyle{fill: blue, edge: blue, width: 10})
		}, 0, float64(rainiest.RainDays)},
		{"scatter", func() (*plot.Plot, error) {
			return humidityScatterPlot(a.Observations, scatterStyle{colors: moreland.Kindlmann(), alpha: 255, radius: 1})
		}, 10, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.build()
			require.NoError(t, err)
			assert.InDelta(t, tt.yMin, p.Y.Min, 1e-9)
			assert.InDelta(t, tt.yMax, p.Y.Max, 1e-9)
		})
	}
}

func obsOn(ts time.Time, temp, humidity float64) domain.Observation {
	return domain.Observation{
		FormattedDate: ts, Date: domain.CalendarDate(ts), Month: int(ts.Month()), Year: ts.Year(),
		Temp: temp, Humidity: humidity,
	}
}
