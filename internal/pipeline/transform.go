package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/weather-analysis/internal/domain"
)

// WeatherTransformer implements Transformer using the domain cleaning and
// aggregation functions.
type WeatherTransformer struct {
	logger *slog.Logger
}

// NewTransformer creates a WeatherTransformer that logs grouped statistics to logger.
func NewTransformer(logger *slog.Logger) *WeatherTransformer {
	return &WeatherTransformer{logger: logger}
}

// Clean converts the raw table into observations.
func (t *WeatherTransformer) Clean(_ context.Context, raw domain.RawTable) ([]domain.Observation, error) {
	return domain.Clean(raw)
}

// Aggregate computes the grouped tables and logs them at debug level.
func (t *WeatherTransformer) Aggregate(ctx context.Context, obs []domain.Observation) domain.Aggregates {
	agg := domain.Aggregate(obs)

	if t.logger.Enabled(ctx, slog.LevelDebug) {
		for i, d := range agg.Daily {
			if i == 5 {
				break
			}
			t.logger.DebugContext(ctx, "daily stats", "date", d.Date.Format("2006-01-02"), statAttrs(d.TempStats))
		}
		for _, m := range agg.Monthly {
			t.logger.DebugContext(ctx, "monthly stats", "month", m.Month, statAttrs(m.TempStats))
		}
		for _, y := range agg.Yearly {
			t.logger.DebugContext(ctx, "yearly stats", "year", y.Year, statAttrs(y.TempStats))
		}
	}
	return agg
}

func statAttrs(s domain.TempStats) slog.Attr {
	attrs := []any{"count", s.Count, "mean", s.Mean, "min", s.Min, "max", s.Max}
	if s.StdDev != nil {
		attrs = append(attrs, "std", *s.StdDev)
	}
	return slog.Group("temp", attrs...)
}
