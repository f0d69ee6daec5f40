package domain

import (
	"cmp"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// group collects the temperatures and rain flags sharing one key.
type group[K cmp.Ordered] struct {
	key   K
	temps []float64
	rain  int
}

// groupBy buckets observations by key and returns the groups ascending by key.
func groupBy[K cmp.Ordered](obs []Observation, key func(Observation) K) []group[K] {
	index := make(map[K]int)
	var groups []group[K]
	for _, o := range obs {
		k := key(o)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group[K]{key: k})
		}
		groups[i].temps = append(groups[i].temps, o.Temp)
		groups[i].rain += o.Rain
	}
	slices.SortFunc(groups, func(a, b group[K]) int { return cmp.Compare(a.key, b.key) })
	return groups
}

// Aggregate computes every grouped table over the cleaned observations.
// Empty input yields empty tables.
func Aggregate(obs []Observation) Aggregates {
	return Aggregates{
		Daily:                   DailyStats(obs),
		Monthly:                 MonthlyStats(obs),
		Yearly:                  YearlyStats(obs),
		MonthlyRain:             MonthlyRainCounts(obs),
		HumidityTempCorrelation: HumidityTempCorrelation(obs),
	}
}

// DailyStats summarizes temperature per UTC calendar day.
func DailyStats(obs []Observation) []DailyStat {
	groups := groupBy(obs, func(o Observation) int64 { return o.Date.Unix() })
	out := make([]DailyStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, DailyStat{Date: time.Unix(g.key, 0).UTC(), TempStats: summarize(g.temps)})
	}
	return out
}

// MonthlyStats summarizes temperature per calendar month, pooling all years.
func MonthlyStats(obs []Observation) []MonthlyStat {
	groups := groupBy(obs, func(o Observation) int { return o.Month })
	out := make([]MonthlyStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, MonthlyStat{Month: g.key, TempStats: summarize(g.temps)})
	}
	return out
}

// YearlyStats summarizes temperature per year.
func YearlyStats(obs []Observation) []YearlyStat {
	groups := groupBy(obs, func(o Observation) int { return o.Year })
	out := make([]YearlyStat, 0, len(groups))
	for _, g := range groups {
		out = append(out, YearlyStat{Year: g.key, TempStats: summarize(g.temps)})
	}
	return out
}

// MonthlyRainCounts sums the rain flag per month.
func MonthlyRainCounts(obs []Observation) []MonthlyRain {
	groups := groupBy(obs, func(o Observation) int { return o.Month })
	out := make([]MonthlyRain, 0, len(groups))
	for _, g := range groups {
		out = append(out, MonthlyRain{Month: g.key, RainDays: g.rain})
	}
	return out
}

// HumidityTempCorrelation returns the Pearson coefficient between humidity and
// temperature, or nil with fewer than two rows or a constant series.
func HumidityTempCorrelation(obs []Observation) *float64 {
	if len(obs) < 2 {
		return nil
	}
	humidity := make([]float64, len(obs))
	temp := make([]float64, len(obs))
	for i, o := range obs {
		humidity[i] = o.Humidity
		temp[i] = o.Temp
	}
	r := stat.Correlation(humidity, temp, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return nil
	}
	return &r
}

func summarize(temps []float64) TempStats {
	s := TempStats{
		Count: len(temps),
		Min:   floats.Min(temps),
		Max:   floats.Max(temps),
	}
	// Summation error can push the mean of near-equal values a ulp past the extrema.
	s.Mean = math.Min(s.Max, math.Max(s.Min, stat.Mean(temps, nil)))
	if len(temps) > 1 {
		sd := stat.StdDev(temps, nil)
		s.StdDev = &sd
	}
	return s
}

// maxBy returns the first item holding the largest value, or false when items is empty.
func maxBy[T any](items []T, value func(T) float64) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}
	best = items[0]
	for _, it := range items[1:] {
		if value(it) > value(best) {
			best = it
		}
	}
	return best, true
}

// MostRainyMonth returns the month with the most rain days. Ties go to the
// earliest month.
func MostRainyMonth(rain []MonthlyRain) (MonthlyRain, bool) {
	return maxBy(rain, func(r MonthlyRain) float64 { return float64(r.RainDays) })
}

// FirstRainMonth returns the earliest month present in the rain table.
func FirstRainMonth(rain []MonthlyRain) (MonthlyRain, bool) {
	if len(rain) == 0 {
		return MonthlyRain{}, false
	}
	return rain[0], true
}

// PeakYear returns the year with the highest maximum temperature. Ties go to
// the earliest year.
func PeakYear(yearly []YearlyStat) (YearlyStat, bool) {
	return maxBy(yearly, func(y YearlyStat) float64 { return y.Max })
}

// DailyMeanRange returns the lowest and highest daily mean temperature.
func DailyMeanRange(daily []DailyStat) (lo, hi float64, ok bool) {
	if len(daily) == 0 {
		return 0, 0, false
	}
	lo, hi = daily[0].Mean, daily[0].Mean
	for _, d := range daily[1:] {
		lo = math.Min(lo, d.Mean)
		hi = math.Max(hi, d.Mean)
	}
	return lo, hi, true
}
