package report

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/weather-analysis/internal/adapter/artifact"
	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// Summary is the machine-readable counterpart of the text report.
type Summary struct {
	Dataset     string         `yaml:"dataset"`
	RawRows     int            `yaml:"raw_rows"`
	CleanedRows int            `yaml:"cleaned_rows"`
	DroppedRows int            `yaml:"dropped_rows"`
	DailyMean   *Range         `yaml:"daily_mean_temp,omitempty"`
	MostRainy   *MonthCount    `yaml:"most_rainy_month,omitempty"`
	FirstMonth  *MonthCount    `yaml:"first_month,omitempty"`
	PeakYear    *YearMax       `yaml:"peak_year,omitempty"`
	Correlation *float64       `yaml:"humidity_temp_correlation,omitempty"`
	Monthly     []MonthSummary `yaml:"monthly"`
	Yearly      []YearSummary  `yaml:"yearly"`
}

// Range is the lowest and highest daily mean temperature.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// MonthCount is a month with its rain-day count.
type MonthCount struct {
	Month    int `yaml:"month"`
	RainDays int `yaml:"rain_days"`
}

// YearMax is a year with its highest recorded temperature.
type YearMax struct {
	Year    int     `yaml:"year"`
	MaxTemp float64 `yaml:"max_temp"`
}

// MonthSummary holds the temperature statistics and rain days of one month.
type MonthSummary struct {
	Month    int      `yaml:"month"`
	Count    int      `yaml:"count"`
	Mean     float64  `yaml:"mean"`
	Min      float64  `yaml:"min"`
	Max      float64  `yaml:"max"`
	StdDev   *float64 `yaml:"std,omitempty"`
	RainDays int      `yaml:"rain_days"`
}

// YearSummary holds the temperature statistics of one year.
type YearSummary struct {
	Year   int      `yaml:"year"`
	Count  int      `yaml:"count"`
	Mean   float64  `yaml:"mean"`
	Min    float64  `yaml:"min"`
	Max    float64  `yaml:"max"`
	StdDev *float64 `yaml:"std,omitempty"`
}

// NewSummary collects the summary fields from an analysis. Absent values are
// omitted rather than written as placeholders.
func NewSummary(a *domain.Analysis) Summary {
	agg := a.Aggregates
	s := Summary{
		Dataset:     a.Source,
		RawRows:     a.RawRows,
		CleanedRows: len(a.Observations),
		DroppedRows: a.RawRows - len(a.Observations),
		Correlation: agg.HumidityTempCorrelation,
		Monthly:     make([]MonthSummary, 0, len(agg.Monthly)),
		Yearly:      make([]YearSummary, 0, len(agg.Yearly)),
	}

	if lo, hi, ok := domain.DailyMeanRange(agg.Daily); ok {
		s.DailyMean = &Range{Min: lo, Max: hi}
	}
	if m, ok := domain.MostRainyMonth(agg.MonthlyRain); ok {
		s.MostRainy = &MonthCount{Month: m.Month, RainDays: m.RainDays}
	}
	if m, ok := domain.FirstRainMonth(agg.MonthlyRain); ok {
		s.FirstMonth = &MonthCount{Month: m.Month, RainDays: m.RainDays}
	}
	if y, ok := domain.PeakYear(agg.Yearly); ok {
		s.PeakYear = &YearMax{Year: y.Year, MaxTemp: y.Max}
	}

	rain := make(map[int]int, len(agg.MonthlyRain))
	for _, r := range agg.MonthlyRain {
		rain[r.Month] = r.RainDays
	}
	for _, m := range agg.Monthly {
		s.Monthly = append(s.Monthly, MonthSummary{
			Month: m.Month, Count: m.Count, Mean: m.Mean, Min: m.Min, Max: m.Max, StdDev: m.StdDev,
			RainDays: rain[m.Month],
		})
	}
	for _, y := range agg.Yearly {
		s.Yearly = append(s.Yearly, YearSummary{
			Year: y.Year, Count: y.Count, Mean: y.Mean, Min: y.Min, Max: y.Max, StdDev: y.StdDev,
		})
	}
	return s
}

// EncodeSummary writes s as a YAML document.
func EncodeSummary(w io.Writer, s Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return enc.Close()
}

// YAMLWriter saves the machine-readable summary.
// It implements pipeline.Sink.
type YAMLWriter struct {
	path string
}

// NewYAMLWriter creates a YAMLWriter for the summary file at path.
func NewYAMLWriter(path string) *YAMLWriter {
	return &YAMLWriter{path: path}
}

// Kind returns the artifact label used in metrics and logs.
func (w *YAMLWriter) Kind() string { return "summary" }

// Write replaces the summary file with the YAML encoding of a.
func (w *YAMLWriter) Write(_ context.Context, a *domain.Analysis) ([]string, error) {
	if err := artifact.WriteFile(w.path, func(dst io.Writer) error {
		return EncodeSummary(dst, NewSummary(a))
	}); err != nil {
		return nil, err
	}
	return []string{w.path}, nil
}
