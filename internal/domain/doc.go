// Package domain models hourly weather observations and the statistics derived
// from them.
//
// # Data Source
//
// The input is a historical weather export with one row per hour. Only five
// columns are used:
//
//	Formatted Date   "2006-04-01 00:00:00.000 +0200"
//	Temperature (C)  degrees Celsius, decimal
//	Humidity         relative humidity as a fraction, 0.0–1.0
//	Precip Type      "rain", "snow", or empty when nothing fell
//	Daily Summary    free text, copied through unchanged
//
// Any other column (apparent temperature, wind, pressure, ...) is ignored.
//
// # Timestamps
//
// Timestamps carry a local offset. They are converted to UTC before the
// calendar fields are derived, so an entry at 00:30 +0200 belongs to the
// previous UTC day. Timestamps without an offset are read as UTC.
//
// # Missing Values
//
// Blank cells and the usual NA markers ("NA", "NaN", "null", "N/A", ...) are
// treated as missing. Rows missing temperature or humidity are dropped.
// A missing precipitation type means no precipitation: Rain = 0.
//
// # Aggregation
//
// Temperatures are summarized per UTC calendar day, per month (1–12, all years
// pooled) and per year. Standard deviation is the sample deviation (n−1); it
// is nil for single-row groups. Rain days are the count of rows with Rain = 1
// per month, which with hourly data counts rainy hours, not distinct days.
//
// Every grouped table is sorted ascending by key. Lookups that pick the
// largest group ([MostRainyMonth], [PeakYear]) return the earliest key on ties
// and report absence on an empty table instead of failing.
package domain
