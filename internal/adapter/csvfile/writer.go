package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-analysis/internal/adapter/artifact"
	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// Writer saves the cleaned observation table as CSV.
// It implements pipeline.Sink.
type Writer struct {
	path string
}

// NewWriter creates a Writer for the cleaned table at path.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Kind returns the artifact label used in metrics and logs.
func (w *Writer) Kind() string { return "table" }

// Write replaces the destination file with a header row followed by every
// cleaned observation. No index column is written.
func (w *Writer) Write(_ context.Context, a *domain.Analysis) ([]string, error) {
	if err := artifact.WriteFile(w.path, func(dst io.Writer) error {
		return WriteTable(dst, a.Observations)
	}); err != nil {
		return nil, err
	}
	return []string{w.path}, nil
}

// WriteTable encodes observations in domain.CleanedColumns order.
func WriteTable(dst io.Writer, obs []domain.Observation) error {
	cw := csv.NewWriter(dst)
	if err := cw.Write(domain.CleanedColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range obs {
		if err := cw.Write(EncodeObservation(obs[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush cleaned table: %w", err)
	}
	return nil
}

// EncodeObservation renders one observation as CSV fields.
func EncodeObservation(o domain.Observation) []string {
	return []string{
		o.FormattedDate.UTC().Format(domain.InstantLayout),
		FormatFloat(o.Temp),
		FormatFloat(o.Humidity),
		o.Summary,
		o.Date.Format(domain.DateLayout),
		strconv.Itoa(o.Month),
		strconv.Itoa(o.Year),
		strconv.Itoa(o.Rain),
	}
}

// FormatFloat writes the shortest decimal that round-trips, keeping a
// trailing ".0" on whole numbers so the column reads as floating point.
func FormatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
