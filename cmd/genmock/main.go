// Command genmock writes a synthetic weather dataset in the raw source layout.
// Output is a pure function of the flags, so fixtures can be regenerated
// byte for byte.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -out data/mock/generated.csv \
//	  -start 2014-11-28 -days 75 -step 6h -seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

var header = []string{
	"Formatted Date", "Summary", "Precip Type", "Temperature (C)", "Apparent Temperature (C)",
	"Humidity", "Wind Speed (km/h)", "Wind Bearing (degrees)", "Visibility (km)",
	"Loud Cover", "Pressure (millibars)", "Daily Summary",
}

var summaries = []string{
	"Partly Cloudy", "Mostly Cloudy", "Overcast", "Clear", "Foggy", "Breezy and Mostly Cloudy",
}

var dailySummaries = []string{
	"Partly cloudy throughout the day.",
	"Mostly cloudy until night.",
	"Foggy in the morning.",
	"Light rain in the evening.",
	"Clear throughout the day.",
}

// India Standard Time, the offset the source dataset records.
var ist = time.FixedZone("IST", 5*3600+1800)

type options struct {
	out     string
	start   time.Time
	days    int
	step    time.Duration
	seed    uint64
	gapRate float64
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "data/mock/generated.csv", "output CSV path")
	start := flag.String("start", "2014-11-28", "first day (YYYY-MM-DD, local time)")
	days := flag.Int("days", 75, "number of days to generate")
	step := flag.Duration("step", 6*time.Hour, "interval between observations")
	seed := flag.Uint64("seed", 7, "random seed")
	gapRate := flag.Float64("gap-rate", 0.04, "fraction of rows with a missing temperature or humidity")
	flag.Parse()

	first, err := time.ParseInLocation("2006-01-02", *start, ist)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	if *days <= 0 || *step <= 0 {
		return fmt.Errorf("-days and -step must be positive")
	}

	opts := options{out: *out, start: first, days: *days, step: *step, seed: *seed, gapRate: *gapRate}
	rows := generate(opts)

	if err := writeCSV(opts.out, rows); err != nil {
		return fmt.Errorf("writing dataset: %w", err)
	}
	log.Printf("wrote %d rows to %s", len(rows), opts.out)
	return nil
}

// generate produces one row per step with a seasonal and diurnal temperature
// cycle. Rain is likelier on humid rows.
func generate(opts options) [][]string {
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed^0x9e3779b97f4a7c15))
	end := opts.start.AddDate(0, 0, opts.days)

	var rows [][]string
	for ts := opts.start; ts.Before(end); ts = ts.Add(opts.step) {
		season := math.Cos(2 * math.Pi * float64(ts.YearDay()-200) / 365)
		diurnal := math.Sin(2 * math.Pi * float64(ts.Hour()-9) / 24)
		temp := 24 + 8*season + 5*diurnal + rng.NormFloat64()*1.5
		humidity := clamp(0.65-0.2*diurnal+rng.NormFloat64()*0.08, 0.1, 1)

		precip := ""
		if rng.Float64() < humidity-0.45 {
			precip = "rain"
		}

		tempCell := fmtFloat(temp, 4)
		humidityCell := fmtFloat(humidity, 2)
		if rng.Float64() < opts.gapRate {
			if rng.IntN(2) == 0 {
				tempCell = ""
			} else {
				humidityCell = "NaN"
			}
		}

		rows = append(rows, []string{
			ts.Format("2006-01-02 15:04:05.000 -0700"),
			summaries[rng.IntN(len(summaries))],
			precip,
			tempCell,
			fmtFloat(temp-rng.Float64()*2, 4),
			humidityCell,
			fmtFloat(rng.Float64()*25, 4),
			strconv.Itoa(rng.IntN(360)),
			fmtFloat(5+rng.Float64()*10, 4),
			"0.0",
			fmtFloat(1005+rng.Float64()*20, 2),
			dailySummaries[ts.YearDay()%len(dailySummaries)],
		})
	}
	return rows
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func fmtFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}
