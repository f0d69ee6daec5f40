package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-analysis/internal/domain"
	"github.com/couchcryptid/weather-analysis/internal/observability"
)

// Extractor reads the raw dataset.
type Extractor interface {
	Extract(ctx context.Context) (domain.RawTable, error)
	Source() string
}

// Transformer cleans the raw table and computes the grouped statistics.
type Transformer interface {
	Clean(ctx context.Context, raw domain.RawTable) ([]domain.Observation, error)
	Aggregate(ctx context.Context, obs []domain.Observation) domain.Aggregates
}

// Sink writes one kind of output artifact and returns the paths it wrote.
type Sink interface {
	Kind() string
	Write(ctx context.Context, a *domain.Analysis) ([]string, error)
}

// Pipeline runs load, clean, aggregate and every sink once, in order.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	sinks       []Sink
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline with the given stages and observability. Sinks run
// in the order given.
func New(e Extractor, t Transformer, sinks []Sink, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		sinks:       sinks,
		logger:      logger,
		metrics:     metrics,
	}
}

// Run executes the pipeline. The first failing stage aborts the run; outputs
// written by earlier sinks are left in place.
func (p *Pipeline) Run(ctx context.Context) (*domain.Analysis, error) {
	p.metrics.LastRunSuccess.Set(0)
	p.logger.Info("analysis started", "source", p.extractor.Source(), "sinks", len(p.sinks))

	a, err := p.analyze(ctx)
	if err != nil {
		return nil, err
	}

	for _, s := range p.sinks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stop := p.stageTimer(s.Kind())
		paths, err := s.Write(ctx, a)
		stop()
		p.metrics.ArtifactsWritten.WithLabelValues(s.Kind()).Add(float64(len(paths)))
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", s.Kind(), err)
		}
		p.logger.Info("artifacts written", "kind", s.Kind(), "paths", paths)
	}

	p.metrics.LastRunSuccess.Set(1)
	p.logger.Info("analysis complete",
		"cleaned_rows", len(a.Observations),
		"days", len(a.Aggregates.Daily),
		"years", len(a.Aggregates.Yearly),
	)
	return a, nil
}

// analyze runs the load, clean and aggregate stages.
func (p *Pipeline) analyze(ctx context.Context) (*domain.Analysis, error) {
	stop := p.stageTimer("load")
	raw, err := p.extractor.Extract(ctx)
	stop()
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	p.metrics.RowsLoaded.Add(float64(len(raw.Rows)))
	p.logger.Info("dataset loaded", "rows", len(raw.Rows), "columns", len(raw.Header))

	stop = p.stageTimer("clean")
	obs, err := p.transformer.Clean(ctx, raw)
	stop()
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	dropped := len(raw.Rows) - len(obs)
	p.metrics.RowsCleaned.Add(float64(len(obs)))
	p.metrics.RowsDropped.Add(float64(dropped))
	p.logger.Info("dataset cleaned", "rows", len(obs), "dropped", dropped)
	if len(obs) == 0 {
		p.logger.Warn("no rows left after cleaning, outputs will be empty")
	}

	stop = p.stageTimer("aggregate")
	agg := p.transformer.Aggregate(ctx, obs)
	stop()
	if agg.HumidityTempCorrelation != nil {
		p.logger.Info("humidity/temperature correlation", "r", *agg.HumidityTempCorrelation)
	}

	return &domain.Analysis{
		Source:       p.extractor.Source(),
		RawRows:      len(raw.Rows),
		Observations: obs,
		Aggregates:   agg,
	}, nil
}

// stageTimer starts timing stage. Calling the returned func records the
// elapsed time under that stage label.
func (p *Pipeline) stageTimer(stage string) func() {
	start := clock.Now()
	return func() {
		p.metrics.StageDuration.WithLabelValues(stage).Observe(clock.Since(start).Seconds())
	}
}
