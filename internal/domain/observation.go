package domain

import "time"

// Source column names in the raw dataset.
const (
	ColFormattedDate = "Formatted Date"
	ColTemperature   = "Temperature (C)"
	ColHumidity      = "Humidity"
	ColPrecipType    = "Precip Type"
	ColDailySummary  = "Daily Summary"
)

// Output layouts for the cleaned table. InstantLayout keeps any fractional
// seconds, trimmed of trailing zeros, so instants round-trip exactly.
const (
	InstantLayout = "2006-01-02 15:04:05.999999999-07:00"
	DateLayout    = "2006-01-02"
)

// CleanedColumns is the header of the cleaned table, in output order.
var CleanedColumns = []string{"Formatted Date", "Temp", "Humidity", "Summary", "Date", "Month", "Year", "Rain"}

// RawTable is the dataset as read from disk: a header and string cells.
// Rows may be shorter than the header; absent cells read as missing.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Observation is one cleaned weather record.
type Observation struct {
	FormattedDate time.Time // parsed instant, UTC
	Date          time.Time // FormattedDate truncated to midnight UTC
	Month         int
	Year          int
	Temp          float64
	Humidity      float64
	Rain          int // 1 when a precipitation type was recorded
	Summary       string
}

// TempStats summarizes the temperatures of one group.
// StdDev is nil for groups with a single row (sample deviation is undefined).
type TempStats struct {
	Count  int
	Mean   float64
	Min    float64
	Max    float64
	StdDev *float64
}

// DailyStat is the temperature summary of one UTC calendar day.
type DailyStat struct {
	Date time.Time
	TempStats
}

// MonthlyStat is the temperature summary of one month across all years.
type MonthlyStat struct {
	Month int
	TempStats
}

// YearlyStat is the temperature summary of one year.
type YearlyStat struct {
	Year int
	TempStats
}

// MonthlyRain is the number of rows with recorded precipitation in a month.
type MonthlyRain struct {
	Month    int
	RainDays int
}

// Aggregates holds every grouped table, each ordered ascending by key.
type Aggregates struct {
	Daily       []DailyStat
	Monthly     []MonthlyStat
	Yearly      []YearlyStat
	MonthlyRain []MonthlyRain

	// HumidityTempCorrelation is the Pearson coefficient over all rows,
	// nil when it cannot be computed.
	HumidityTempCorrelation *float64
}

// Analysis is the complete in-memory result handed to the output sinks.
type Analysis struct {
	Source       string
	RawRows      int
	Observations []Observation
	Aggregates   Aggregates
}
