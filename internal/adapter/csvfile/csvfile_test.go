package csvfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-analysis/internal/domain"
)

func TestReadTable(t *testing.T) {
	src := "\ufeffFormatted Date,Temperature (C),Humidity,Precip Type,Daily Summary\n" +
		"2006-04-01 00:00:00.000 +0200,9.47,0.89,rain,\"Partly cloudy, then rain.\"\n" +
		"2006-04-01 01:00:00.000 +0200,9.35,0.86\n"

	table, err := ReadTable(strings.NewReader(src))
	require.NoError(t, err)

	assert.Equal(t, "Formatted Date", table.Header[0])
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Partly cloudy, then rain.", table.Rows[0][4])
	assert.Len(t, table.Rows[1], 3)
}

func TestReadTable_Empty(t *testing.T) {
	_, err := ReadTable(strings.NewReader(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no header")
}

func TestReadTable_Malformed(t *testing.T) {
	_, err := ReadTable(strings.NewReader("a,b\n\"unterminated,1\n"))
	require.Error(t, err)
}

func TestReader_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "absent.csv"))
	_, err := r.Extract(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReader_Extract(t *testing.T) {
	path := filepath.Join("..", "..", "..", "data", "mock", "weather_sample.csv")
	table, err := NewReader(path).Extract(context.Background())
	require.NoError(t, err)

	assert.Contains(t, table.Header, domain.ColFormattedDate)
	assert.Contains(t, table.Header, domain.ColDailySummary)
	assert.NotEmpty(t, table.Rows)
}

func sampleObservations() []domain.Observation {
	ts := time.Date(2006, 3, 31, 22, 0, 0, 0, time.UTC)
	return []domain.Observation{
		{
			FormattedDate: ts,
			Date:          domain.CalendarDate(ts),
			Month:         3,
			Year:          2006,
			Temp:          9.472222222222221,
			Humidity:      0.89,
			Rain:          1,
			Summary:       "Partly cloudy throughout the day.",
		},
		{
			FormattedDate: ts.Add(time.Hour),
			Date:          domain.CalendarDate(ts.Add(time.Hour)),
			Month:         3,
			Year:          2006,
			Temp:          9,
			Humidity:      1,
			Rain:          0,
			Summary:       "Foggy, starting \"late\".",
		},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleObservations()))

	want := "Formatted Date,Temp,Humidity,Summary,Date,Month,Year,Rain\n" +
		"2006-03-31 22:00:00+00:00,9.472222222222221,0.89,Partly cloudy throughout the day.,2006-03-31,3,2006,1\n" +
		"2006-03-31 23:00:00+00:00,9.0,1.0,\"Foggy, starting \"\"late\"\".\",2006-03-31,3,2006,0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTable_RoundTripsThroughReader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTable(&buf, sampleObservations()))

	table, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, domain.CleanedColumns, table.Header)
	require.Len(t, table.Rows, 2)

	ts, err := domain.ParseTimestamp(table.Rows[0][0])
	require.NoError(t, err)
	assert.True(t, ts.Equal(sampleObservations()[0].FormattedDate))
}

func TestEncodeObservation_FractionalSeconds(t *testing.T) {
	ts := time.Date(2006, 4, 1, 0, 0, 0, 500_000_000, time.UTC)
	o := sampleObservations()[0]
	o.FormattedDate = ts

	fields := EncodeObservation(o)
	assert.Equal(t, "2006-04-01 00:00:00.5+00:00", fields[0])

	parsed, err := domain.ParseTimestamp(fields[0])
	require.NoError(t, err)
	assert.True(t, parsed.Equal(ts))
}

func TestWriter_OverwritesAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "cleaned_data.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o600))

	w := NewWriter(path)
	a := &domain.Analysis{Observations: sampleObservations()}

	written, err := w.Write(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, written)
	first, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(first), "stale")

	_, err = w.Write(context.Background(), a)
	require.NoError(t, err)
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWriter_EmptyTableHasHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned_data.csv")
	_, err := NewWriter(path).Write(context.Background(), &domain.Analysis{})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Formatted Date,Temp,Humidity,Summary,Date,Month,Year,Rain\n", string(data))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "9.0", FormatFloat(9))
	assert.Equal(t, "-0.5", FormatFloat(-0.5))
	assert.Equal(t, "0.89", FormatFloat(0.89))
	assert.Equal(t, "100000000000.0", FormatFloat(1e11))
}
