package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrMissingColumn    = errors.New("missing required column")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
	ErrInvalidNumber    = errors.New("invalid number")
)

// missingTokens are the cell values treated as absent. They match the default
// NA markers of common dataframe tooling, so datasets exported from those
// tools keep their meaning.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// timestampLayouts are tried in order. Layouts without a zone parse as UTC.
var timestampLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// IsMissing reports whether a raw cell holds no value.
func IsMissing(cell string) bool {
	_, ok := missingTokens[strings.TrimSpace(cell)]
	return ok
}

// projectedRow carries the five source fields the analysis needs.
type projectedRow struct {
	line        int
	timestamp   string
	temperature string
	humidity    string
	precipType  string
	summary     string
}

// datedRow is a projected row with its parsed instant and calendar fields.
type datedRow struct {
	projectedRow
	instant time.Time
	date    time.Time
	month   int
	year    int
}

// Clean turns a raw table into observations. The steps run in a fixed order:
// project, parse timestamps, derive calendar fields, drop rows without core
// measurements, derive the rain flag, then convert to typed observations.
// Malformed timestamps or numbers abort the whole run.
func Clean(raw RawTable) ([]Observation, error) {
	projected, err := project(raw)
	if err != nil {
		return nil, err
	}

	dated, err := parseTimestamps(projected)
	if err != nil {
		return nil, err
	}

	kept := filterRows(dated, hasCoreMeasurements)

	observations := make([]Observation, 0, len(kept))
	for _, row := range kept {
		obs, err := toObservation(row)
		if err != nil {
			return nil, err
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// project keeps only the timestamp, temperature, humidity, precipitation type
// and daily summary columns. Every other column is discarded.
func project(raw RawTable) ([]projectedRow, error) {
	idx := make(map[string]int, len(raw.Header))
	for i, h := range raw.Header {
		idx[strings.TrimSpace(h)] = i
	}

	required := []string{ColFormattedDate, ColTemperature, ColHumidity, ColPrecipType, ColDailySummary}
	cols := make([]int, len(required))
	for i, name := range required {
		pos, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		cols[i] = pos
	}

	rows := make([]projectedRow, 0, len(raw.Rows))
	for i, cells := range raw.Rows {
		rows = append(rows, projectedRow{
			line:        i + 2,
			timestamp:   cell(cells, cols[0]),
			temperature: cell(cells, cols[1]),
			humidity:    cell(cells, cols[2]),
			precipType:  cell(cells, cols[3]),
			summary:     cell(cells, cols[4]),
		})
	}
	return rows, nil
}

func cell(cells []string, i int) string {
	if i >= len(cells) {
		return ""
	}
	return cells[i]
}

func parseTimestamps(rows []projectedRow) ([]datedRow, error) {
	dated := make([]datedRow, 0, len(rows))
	for _, row := range rows {
		instant, err := ParseTimestamp(row.timestamp)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", row.line, err)
		}
		dated = append(dated, datedRow{
			projectedRow: row,
			instant:      instant,
			date:         CalendarDate(instant),
			month:        int(instant.Month()),
			year:         instant.Year(),
		})
	}
	return dated, nil
}

// ParseTimestamp parses a source timestamp and normalizes it to UTC.
// An embedded offset is honored before conversion; a bare timestamp is UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsMissing(s) {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
}

// CalendarDate truncates an instant to midnight of its UTC calendar day.
func CalendarDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func filterRows(rows []datedRow, keep func(datedRow) bool) []datedRow {
	out := make([]datedRow, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// hasCoreMeasurements is false when temperature or humidity is missing.
func hasCoreMeasurements(row datedRow) bool {
	return !IsMissing(row.temperature) && !IsMissing(row.humidity)
}

// rainFlag is 1 when any precipitation type was recorded.
func rainFlag(precipType string) int {
	if IsMissing(precipType) {
		return 0
	}
	return 1
}

func toObservation(row datedRow) (Observation, error) {
	temp, err := parseNumber(row.temperature)
	if err != nil {
		return Observation{}, fmt.Errorf("line %d: %s: %w", row.line, ColTemperature, err)
	}
	humidity, err := parseNumber(row.humidity)
	if err != nil {
		return Observation{}, fmt.Errorf("line %d: %s: %w", row.line, ColHumidity, err)
	}

	summary := row.summary
	if IsMissing(summary) {
		summary = ""
	}

	return Observation{
		FormattedDate: row.instant,
		Date:          row.date,
		Month:         row.month,
		Year:          row.year,
		Temp:          temp,
		Humidity:      humidity,
		Rain:          rainFlag(row.precipType),
		Summary:       summary,
	}, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}
