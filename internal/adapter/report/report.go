package report

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/template"

	"github.com/couchcryptid/weather-analysis/internal/adapter/artifact"
	"github.com/couchcryptid/weather-analysis/internal/domain"
)

const notAvailable = "N/A"

var reportTemplate = template.Must(template.New("report").Parse(`
WEATHER DATA ANALYSIS SUMMARY

Dataset: {{.Source}}
Cleaned Rows: {{.Rows}}
Key Columns: Date, Temp, Humidity, Rain, Month, Year

Insights:
- Daily avg temp ranges from {{.TempLow}}°C to {{.TempHigh}}°C.
- Most rainy days occur in Month {{.RainiestMonth}}.
- Humidity and temperature show no strong linear correlation; scatter plot confirms this.
- Yearly max temp peaked in {{.PeakYear}} at {{.PeakTemp}}°C.

Anomalies:
- Some months have very low rainfall (e.g., Month {{.SampleMonth}} has only {{.SampleMonthRain}} rainy days).
- High humidity does not always mean high temperature; seen in scatter plot.

This analysis can help campus sustainability teams plan energy usage or outdoor events.
`))

// Facts are the values the narrative report states. Fields that cannot be
// computed from an empty table hold "N/A".
type Facts struct {
	Source          string
	Rows            int
	TempLow         string
	TempHigh        string
	RainiestMonth   string
	PeakYear        string
	PeakTemp        string
	SampleMonth     string
	SampleMonthRain int
}

// NewFacts extracts the report values from a finished analysis.
func NewFacts(a *domain.Analysis) Facts {
	f := Facts{
		Source:        a.Source,
		Rows:          len(a.Observations),
		TempLow:       notAvailable,
		TempHigh:      notAvailable,
		RainiestMonth: notAvailable,
		PeakYear:      notAvailable,
		PeakTemp:      notAvailable,
		SampleMonth:   notAvailable,
	}
	agg := a.Aggregates

	if lo, hi, ok := domain.DailyMeanRange(agg.Daily); ok {
		f.TempLow, f.TempHigh = celsius(lo), celsius(hi)
	}
	if m, ok := domain.MostRainyMonth(agg.MonthlyRain); ok {
		f.RainiestMonth = strconv.Itoa(m.Month)
	}
	if m, ok := domain.FirstRainMonth(agg.MonthlyRain); ok {
		f.SampleMonth = strconv.Itoa(m.Month)
		f.SampleMonthRain = m.RainDays
	}
	if y, ok := domain.PeakYear(agg.Yearly); ok {
		f.PeakYear = strconv.Itoa(y.Year)
		f.PeakTemp = celsius(y.Max)
	}
	return f
}

func celsius(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Render writes the narrative report for f.
func Render(w io.Writer, f Facts) error {
	if err := reportTemplate.Execute(w, f); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// TextWriter saves the narrative summary report.
// It implements pipeline.Sink.
type TextWriter struct {
	path string
}

// NewTextWriter creates a TextWriter for the report file at path.
func NewTextWriter(path string) *TextWriter {
	return &TextWriter{path: path}
}

// Kind returns the artifact label used in metrics and logs.
func (w *TextWriter) Kind() string { return "report" }

// Write replaces the report file. The output depends only on the analysis, so
// unchanged input yields identical bytes.
func (w *TextWriter) Write(_ context.Context, a *domain.Analysis) ([]string, error) {
	if err := artifact.WriteFile(w.path, func(dst io.Writer) error {
		return Render(dst, NewFacts(a))
	}); err != nil {
		return nil, err
	}
	return []string{w.path}, nil
}
